package pexpect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// runner abstracts subprocess execution for testability.
type runner interface {
	// run invokes pexpect-cli synchronously and returns its stdout.
	run(ctx context.Context, args ...string) (string, error)
	// runWithInput invokes pexpect-cli, writes input to its stdin, closes
	// it, and returns the combined output.
	runWithInput(ctx context.Context, input string, args ...string) (string, error)
	// daemonRunning reports whether the pueue daemon answers.
	daemonRunning() bool
}

// realRunner is the production implementation calling the real binaries.
type realRunner struct{}

func (realRunner) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "pexpect-cli", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrNotInstalled
		}
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return "", fmt.Errorf("pexpect: pexpect-cli %s: %s: %w", args[0], detail, err)
		}
		return "", fmt.Errorf("pexpect: pexpect-cli %s: %w", args[0], err)
	}
	return stdout.String(), nil
}

func (realRunner) runWithInput(ctx context.Context, input string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "pexpect-cli", args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = 5 * time.Second

	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrNotInstalled
		}
		return string(out), fmt.Errorf("pexpect: pexpect-cli %s: %w", args[0], err)
	}
	return string(out), nil
}

func (realRunner) daemonRunning() bool {
	return exec.Command("pueue", "status").Run() == nil
}
