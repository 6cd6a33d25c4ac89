package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sessionctl",
		Short: "Drive a cookie-session auth backend from the command line",
		Long: `sessionctl exercises a browser-session auth backend the way the
SessionKit client does: it fetches the anti-forgery token, probes the
session endpoint, and runs login/signup/logout flows end to end.

Configuration comes from the environment (SESSIONKIT_* variables) or a
.env file; see the config package. Use --base-url to override.

Examples:
  sessionctl probe
  sessionctl login --email a@b.com --password secret
  sessionctl serve-fake --addr :8000 --seed a@b.com:secret:ab`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("base-url", "", "Auth backend origin (overrides SESSIONKIT_BASE_URL)")

	rootCmd.AddCommand(
		probeCmd(),
		loginCmd(),
		signupCmd(),
		logoutCmd(),
		serveFakeCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
