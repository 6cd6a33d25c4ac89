package main

import (
	"github.com/spf13/cobra"
)

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Query the session endpoint and print the current state",
		Long: `Probe asks the backend who the current session belongs to.

The probe never fails: an unreachable backend or an anonymous session
both print an unauthenticated state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := buildKit(cmd)
			if err != nil {
				return err
			}
			kit.Store.Probe(cmd.Context())
			return printState(kit.Store.State())
		},
	}
}
