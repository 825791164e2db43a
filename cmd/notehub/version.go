package main

import (
	"fmt"

	"github.com/marcus/notehub/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var showUpdate bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of notehub",
		Args:  cobra.NoArgs,
		// No config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v := effectiveVersion()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "notehub version %s\n", v)
			if showUpdate {
				method := version.DetectInstallMethod()
				fmt.Fprintf(out, "installed via %s; to update run:\n  %s\n", method, version.UpdateCommand("latest", method))
			}
		},
	}
	cmd.Flags().BoolVar(&showUpdate, "update", false, "also print how to update this install")
	return cmd
}

func effectiveVersion() string {
	return version.Effective(Version)
}
