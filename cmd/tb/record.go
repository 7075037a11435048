package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/notify"
	"github.com/toolbelt-dev/toolbelt/internal/recorder"
)

func newRecordCmd() *cobra.Command {
	var (
		configPath string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record agent session activity from stdin",
		Long: `Reads JSON-lines lifecycle events from stdin and persists them to the
activity store. Intended to be attached to an agent host's event stream:

  agent --emit-events | tb record

On session end a digest is sent to any configured notify targets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, configPath, quiet)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.toolbelt/config.json)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the final summary line")
	return cmd
}

func runRecord(cmd *cobra.Command, configPath string, quiet bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	rec := recorder.New(cfg.Storage)
	summary, err := rec.Consume(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read event stream: %w", err)
	}

	if summary != nil {
		notify.New(cfg.Notify).SessionDigest(summary)
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), notify.FormatDigest(summary))
		}
	}
	return nil
}
