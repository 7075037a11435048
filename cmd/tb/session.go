package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/pexpect"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage interactive pexpect-cli sessions",
		Long:  "Starts, lists, executes code in, and stops interactive sessions managed by pexpect-cli. Requires the pueue daemon to be running.",
	}

	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionExecCmd())
	cmd.AddCommand(newSessionStopCmd())
	return cmd
}

func newSessionStartCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := pexpect.NewClient().Start(cmd.Context(), label)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "name", "l", "", "human label for the session")
	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List interactive sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := pexpect.NewClient().List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No active sessions.")
				return nil
			}
			for _, s := range sessions {
				if s.Label != "" {
					fmt.Fprintf(out, "%s  %s  (%s)\n", s.ID, s.Status, s.Label)
				} else {
					fmt.Fprintf(out, "%s  %s\n", s.ID, s.Status)
				}
			}
			return nil
		},
	}
}

func newSessionExecCmd() *cobra.Command {
	var timeoutSec int

	cmd := &cobra.Command{
		Use:   "exec <session-id>",
		Short: "Execute code in a session (code read from stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read code from stdin: %w", err)
			}

			out, err := pexpect.NewClient().Exec(cmd.Context(), args[0], string(code),
				time.Duration(timeoutSec)*time.Second)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&timeoutSec, "timeout", "t", 0, "seconds before the execution is forcibly terminated (0 = none)")
	return cmd
}

func newSessionStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <session-id>",
		Short: "Stop a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stopped, err := pexpect.NewClient().Stop(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if stopped {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s stopped.\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s was already stopped.\n", args[0])
			}
			return nil
		},
	}
}
