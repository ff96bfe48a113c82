package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set by the build via -ldflags "-X main.version=...".
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "netincident %s (commit %s, built %s)\n", version, gitCommit, buildDate)
			return err
		},
	}
}
