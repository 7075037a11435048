// Package pexpect drives the pexpect-cli session manager. Sessions live in
// the external daemon; this client only shells out and parses its output.
package pexpect

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrDaemonUnreachable indicates the backing pueue task queue is down.
var ErrDaemonUnreachable = errors.New("pexpect: pueue daemon is not reachable; start it with 'pueued -d'")

// ErrNotInstalled indicates the pexpect-cli binary could not be found.
var ErrNotInstalled = errors.New("pexpect: pexpect-cli is not installed; install it with 'pip install pexpect-cli'")

// ErrTimeout indicates an exec was forcibly terminated after its deadline.
var ErrTimeout = errors.New("pexpect: execution timed out")

// Session describes one managed interactive session.
type Session struct {
	ID     string
	Status string
	Label  string
}

// listLine matches pexpect-cli --list output: `<hex-id>: <status> (<label>)`
// with the label optional. Malformed lines are skipped silently.
var listLine = regexp.MustCompile(`^([0-9a-f]+):\s+(\S+)(?:\s+\((.*)\))?\s*$`)

// sessionID matches the opaque short hexadecimal token printed by start.
var sessionID = regexp.MustCompile(`^[0-9a-f]{4,}$`)

// Client wraps the pexpect-cli binary. The runner indirection keeps real
// subprocesses out of unit tests.
type Client struct {
	runner runner
}

// NewClient returns a Client backed by the real pexpect-cli and pueue
// binaries.
func NewClient() *Client {
	return &Client{runner: realRunner{}}
}

// Start launches a new session, optionally labeled, and returns its id.
func (c *Client) Start(ctx context.Context, label string) (string, error) {
	if err := c.checkDaemon(); err != nil {
		return "", err
	}

	args := []string{"start"}
	if label != "" {
		args = append(args, "--name", label)
	}
	out, err := c.runner.run(ctx, args...)
	if err != nil {
		return "", err
	}

	id := strings.TrimSpace(out)
	if !sessionID.MatchString(id) {
		return "", fmt.Errorf("pexpect: unexpected start output %q", id)
	}
	return id, nil
}

// List returns the sessions the manager currently knows about.
func (c *Client) List(ctx context.Context) ([]Session, error) {
	if err := c.checkDaemon(); err != nil {
		return nil, err
	}

	out, err := c.runner.run(ctx, "list")
	if err != nil {
		return nil, err
	}

	var sessions []Session
	for _, line := range strings.Split(out, "\n") {
		m := listLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		sessions = append(sessions, Session{ID: m[1], Status: m[2], Label: m[3]})
	}
	return sessions, nil
}

// Exec streams code to a session's stdin and returns the collected output.
// The session is looked up first so an unknown id fails fast; the lookup
// races against concurrent stops, which the session manager itself
// arbitrates. A timeout forcibly terminates the exec subprocess.
func (c *Client) Exec(ctx context.Context, id, code string, timeout time.Duration) (string, error) {
	exists, err := c.sessionExists(ctx, id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("pexpect: session %s not found; run 'tb session list' to see active sessions", id)
	}

	execCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := c.runner.runWithInput(execCtx, code, "exec", id)
	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return "", err
	}
	return out, nil
}

// Stop terminates a session. Stopping an unknown session is not an error;
// the returned bool reports whether a stop was actually issued.
func (c *Client) Stop(ctx context.Context, id string) (bool, error) {
	exists, err := c.sessionExists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if _, err := c.runner.run(ctx, "stop", id); err != nil {
		return false, err
	}
	return true, nil
}

// sessionExists checks the session list for id.
func (c *Client) sessionExists(ctx context.Context, id string) (bool, error) {
	sessions, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range sessions {
		if s.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// checkDaemon verifies the pueue daemon before any subcommand is attempted.
func (c *Client) checkDaemon() error {
	if !c.runner.daemonRunning() {
		return ErrDaemonUnreachable
	}
	return nil
}
