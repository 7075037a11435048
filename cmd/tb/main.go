package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tb",
		Short: "Toolbelt - agent tool wrappers and session telemetry",
		Long:  "Toolbelt wraps search and session tools for coding agents and records agent session activity to an embedded store.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newGHSearchCmd())
	cmd.AddCommand(newAstGrepCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newSessionCmd())
	cmd.AddCommand(newRecordCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newDashboardCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newDoctorCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tb %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
