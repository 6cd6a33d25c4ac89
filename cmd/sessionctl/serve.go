package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sessionkit-dev/sessionkit/pkg/authclient"
	"github.com/sessionkit-dev/sessionkit/pkg/authtest"
)

func serveFakeCmd() *cobra.Command {
	var (
		addr  string
		seeds []string
	)

	cmd := &cobra.Command{
		Use:   "serve-fake",
		Short: "Run the in-memory fake auth backend",
		Long: `Serve-fake runs the authtest backend over plain HTTP for local
development: the same endpoints, cookies, envelopes and anti-forgery
checks as a real backend, with nothing persisted.

Accounts are seeded as email:password or email:password:username.

Examples:
  sessionctl serve-fake --addr :8000
  sessionctl serve-fake --seed a@b.com:secret:ab --seed c@d.com:pw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := authtest.New()
			for _, seed := range seeds {
				user, password, err := parseSeed(seed)
				if err != nil {
					return err
				}
				backend.Seed(user, password)
			}

			fmt.Printf("fake auth backend listening on %s (%d seeded accounts)\n", addr, len(seeds))
			return http.ListenAndServe(addr, backend)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8000", "Address to listen on")
	cmd.Flags().StringArrayVar(&seeds, "seed", nil, "Seed account (email:password[:username]), repeatable")

	return cmd
}

// parseSeed splits an email:password[:username] seed flag.
func parseSeed(seed string) (authclient.UserRecord, string, error) {
	parts := strings.Split(seed, ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return authclient.UserRecord{}, "", fmt.Errorf("invalid --seed %q: want email:password[:username]", seed)
	}

	user := authclient.UserRecord{Email: parts[0]}
	if len(parts) > 2 {
		user.Username = parts[2]
	} else {
		user.Username = authclient.DeriveUsername(strings.Split(parts[0], "@")[0])
	}
	return user, parts[1], nil
}
