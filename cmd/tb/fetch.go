package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/fetch"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a web page as markdown",
		Long:  "Fetches the URL through a markdown conversion proxy and prints the converted body. Ctrl-C cancels the request.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args[0])
		},
	}
	return cmd
}

func runFetch(cmd *cobra.Command, target string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := fetch.NewClient().Render(ctx, target)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("conversion failed: %s", res.Status)
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Markdown)
	return nil
}
