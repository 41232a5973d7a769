// Package cmd wires the cobra CLI surface onto the facade: build, mine,
// query, and serve subcommands, registered onto a shared root command the
// way a multi-command cobra tool typically lays out version/list/action
// subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and Date are overridden at link time via -ldflags.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "adtree",
	Short:   "Sparse AD-tree categorical co-occurrence mining",
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
