package main

import (
	"github.com/spf13/cobra"

	"github.com/sessionkit-dev/sessionkit/pkg/authclient"
)

func signupCmd() *cobra.Command {
	var params authclient.SignupParams

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and print the resulting session state",
		Long: `Signup registers a new account. When --username is omitted it is
derived from the name parts (lower-cased, hyphen-joined).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := buildKit(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			kit.Store.Probe(ctx)
			if err := kit.Store.Signup(ctx, params); err != nil {
				return fail("signup", err)
			}
			return printState(kit.Store.State())
		},
	}

	cmd.Flags().StringVar(&params.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&params.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVarP(&params.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&params.Password, "password", "p", "", "Account password")
	cmd.Flags().StringVarP(&params.Username, "username", "u", "", "Username (derived from names when omitted)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
