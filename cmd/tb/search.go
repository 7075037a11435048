package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/config"
	"github.com/toolbelt-dev/toolbelt/internal/kagi"
	"golang.org/x/term"
)

func newSearchCmd() *cobra.Command {
	var (
		configPath string
		limit      int
		answer     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the web with Kagi",
		Long:  "Authenticates against Kagi with the token from password_command, then runs a search or (with --answer) requests a synthesized quick answer.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, configPath, strings.Join(args, " "), limit, answer)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.toolbelt/config.json)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	cmd.Flags().BoolVarP(&answer, "answer", "a", false, "request a quick answer instead of ranked results")
	return cmd
}

func runSearch(cmd *cobra.Command, configPath, query string, limit int, answer bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	token, err := cfg.Token(ctx)
	if err != nil {
		// Fall back to an interactive prompt when a terminal is attached.
		token, err = promptToken(cmd, err)
		if err != nil {
			return err
		}
	}

	client := kagi.NewClient()
	if err := client.Authenticate(ctx, token); err != nil {
		return fmt.Errorf("authenticate with Kagi: %w", err)
	}

	if answer {
		ans, err := client.QuickAnswer(ctx, query)
		if err != nil {
			return err
		}
		if ans == nil {
			fmt.Fprintln(out, "No quick answer available.")
			return nil
		}
		fmt.Fprintln(out, ans.Markdown)
		if len(ans.References) > 0 {
			fmt.Fprintln(out, "\nReferences:")
			for _, r := range ans.References {
				if r.Contribution > 0 {
					fmt.Fprintf(out, "  %s (%s, %.0f%%)\n", r.Title, r.URL, r.Contribution)
				} else {
					fmt.Fprintf(out, "  %s (%s)\n", r.Title, r.URL)
				}
			}
		}
		return nil
	}

	results, err := client.Search(ctx, query, limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(out, "   %s\n", r.Snippet)
		}
	}
	return nil
}

// promptToken asks for the session token on a TTY. Off a TTY the original
// token retrieval error is returned unchanged.
func promptToken(cmd *cobra.Command, cause error) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", cause
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "password_command failed (%v)\nKagi session token: ", cause)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := config.ExtractToken(string(raw))
	if token == "" {
		return "", cause
	}
	return token, nil
}

// loadConfig resolves the default path when none is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
