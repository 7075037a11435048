package config

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// tokenParam matches a token field inside key=value&key=value output, as
// produced by password managers that store the full signin URL query string.
var tokenParam = regexp.MustCompile(`(?:^|[?&])token=([^&\s]+)`)

// Token executes the configured password command and returns the session
// token. Output following the key=value&... convention has its token field
// extracted; anything else is returned trimmed as-is. A failing command is
// fatal to the caller; there is no retry.
func (c *Config) Token(ctx context.Context) (string, error) {
	if c.PasswordCommand == "" {
		return "", fmt.Errorf("config: password_command is not set")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.Timeout)*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", c.PasswordCommand)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("config: run password_command: %s: %w", strings.TrimSpace(string(ee.Stderr)), err)
		}
		return "", fmt.Errorf("config: run password_command: %w", err)
	}

	return ExtractToken(string(out)), nil
}

// ExtractToken pulls the token value out of raw password-command output.
func ExtractToken(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := tokenParam.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return trimmed
}
