package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the current session",
		Long: `Logout asks the backend to invalidate the session. A backend that
reports no session to invalidate is treated as success.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := buildKit(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			kit.Store.Probe(ctx)
			if err := kit.Store.Logout(ctx); err != nil {
				return fail("logout", err)
			}
			fmt.Println("logged out")
			return printState(kit.Store.State())
		},
	}
}
