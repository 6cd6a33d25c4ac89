package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sessionkit-dev/sessionkit"
	"github.com/sessionkit-dev/sessionkit/pkg/config"
	"github.com/sessionkit-dev/sessionkit/pkg/store"
)

// buildKit loads configuration, applies the --base-url override, and
// assembles the client.
func buildKit(cmd *cobra.Command) (*sessionkit.Kit, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if base, _ := cmd.Flags().GetString("base-url"); base != "" {
		cfg.BaseURL = base
	}
	return sessionkit.New(cfg)
}

// printState writes the store state as JSON to stdout.
func printState(st store.AuthState) error {
	out := map[string]any{
		"isAuthenticated": st.IsAuthenticated,
		"isLoading":       st.IsLoading,
	}
	if st.User != nil {
		out["user"] = st.User
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// fail formats a normalized auth failure for the terminal.
func fail(op string, err error) error {
	return fmt.Errorf("%s: %s", op, err)
}
