package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/registry"
)

func newToolsCmd() *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools this binary exposes to agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTools(cmd, namesOnly)
		},
	}

	cmd.Flags().BoolVarP(&namesOnly, "names", "n", false, "print tool names only, one per line")
	return cmd
}

func runTools(cmd *cobra.Command, namesOnly bool) error {
	out := cmd.OutOrStdout()

	manifest, err := registry.Load()
	if err != nil {
		return err
	}

	if namesOnly {
		fmt.Fprintln(out, strings.Join(manifest.Names(), "\n"))
		return nil
	}

	fmt.Fprint(out, manifest.Format())
	return nil
}
