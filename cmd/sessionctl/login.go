package main

import (
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the resulting session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := buildKit(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			kit.Store.Probe(ctx)
			if err := kit.Store.Login(ctx, email, password); err != nil {
				return fail("login", err)
			}
			return printState(kit.Store.State())
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
