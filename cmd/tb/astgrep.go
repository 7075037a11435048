package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/astgrep"
)

func newAstGrepCmd() *cobra.Command {
	var q astgrep.Query

	cmd := &cobra.Command{
		Use:   "astgrep <pattern> [path...]",
		Short: "Structural code search with ast-grep",
		Long:  "Runs an ast-grep pattern over the given paths (default current directory) and prints matches grouped by file.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Pattern = args[0]
			q.Paths = args[1:]
			return runAstGrep(cmd, q)
		},
	}

	cmd.Flags().StringVar(&q.Language, "lang", "", "language to parse files as")
	cmd.Flags().StringVar(&q.Rewrite, "rewrite", "", "rewrite pattern to preview replacements")
	cmd.Flags().IntVarP(&q.Limit, "limit", "n", 0, "maximum number of matches (0 = unlimited)")
	return cmd
}

func runAstGrep(cmd *cobra.Command, q astgrep.Query) error {
	matches, err := astgrep.NewClient().Search(cmd.Context(), q)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), astgrep.Format(matches))
	return nil
}
