package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/ghsearch"
)

func newGHSearchCmd() *cobra.Command {
	var (
		q      ghsearch.Query
		useAPI bool
		token  string
	)

	cmd := &cobra.Command{
		Use:   "ghsearch <query>",
		Short: "Search code across GitHub",
		Long:  "Searches GitHub code through the gh CLI. With --api the GitHub REST API is used directly instead, authenticated by --token or $GITHUB_TOKEN.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Text = strings.Join(args, " ")
			return runGHSearch(cmd, q, useAPI, token)
		},
	}

	cmd.Flags().StringVar(&q.Language, "language", "", "restrict to a programming language")
	cmd.Flags().StringVar(&q.Owner, "owner", "", "restrict to a user or organization")
	cmd.Flags().StringVar(&q.Repo, "repo", "", "restrict to one repository (owner/name)")
	cmd.Flags().StringVar(&q.Filename, "filename", "", "restrict to files with this name")
	cmd.Flags().StringVar(&q.Extension, "extension", "", "restrict to this file extension")
	cmd.Flags().IntVarP(&q.Limit, "limit", "n", 30, "maximum number of matches")
	cmd.Flags().BoolVar(&useAPI, "api", false, "use the GitHub REST API instead of the gh CLI")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token for --api (default $GITHUB_TOKEN)")
	return cmd
}

func runGHSearch(cmd *cobra.Command, q ghsearch.Query, useAPI bool, token string) error {
	ctx := cmd.Context()

	var searcher ghsearch.Searcher
	if useAPI {
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}
		if token == "" {
			return fmt.Errorf("--api requires a token via --token or $GITHUB_TOKEN")
		}
		searcher = ghsearch.NewAPISearcher(ctx, token)
	} else {
		searcher = ghsearch.NewCLISearcher()
	}

	matches, err := searcher.Search(ctx, q)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), ghsearch.Format(matches))
	return nil
}
