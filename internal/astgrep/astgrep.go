// Package astgrep wraps the ast-grep binary for structural code search.
package astgrep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotInstalled indicates the ast-grep binary could not be found.
var ErrNotInstalled = errors.New("astgrep: ast-grep is not installed; install it with 'cargo install ast-grep' or your package manager")

// Query holds the structured parameters for one structural search.
type Query struct {
	Pattern  string
	Language string
	Rewrite  string   // optional --rewrite pattern
	Paths    []string // files or directories to search, default "."
	Limit    int      // applied client-side after parsing; ast-grep has no cap flag
}

// Match is one structural match, in ast-grep's --json field shape.
type Match struct {
	File          string          `json:"file"`
	Range         Range           `json:"range"`
	Lines         string          `json:"lines"`
	Text          string          `json:"text"`
	Replacement   string          `json:"replacement,omitempty"`
	Language      string          `json:"language"`
	MetaVariables json.RawMessage `json:"metaVariables,omitempty"`
}

// Range locates a match within its file.
type Range struct {
	ByteOffset Span     `json:"byteOffset"`
	Start      Position `json:"start"`
	End        Position `json:"end"`
}

// Span is a half-open byte interval.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Position is a zero-based line/column location.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// runFunc executes a subprocess and returns its captured output.
type runFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error)

// Client searches via the ast-grep binary.
type Client struct {
	run runFunc
}

// NewClient returns a Client backed by the real ast-grep binary.
func NewClient() *Client {
	return &Client{run: runCommand}
}

// Search spawns ast-grep with the query's argument vector and parses its
// JSON output. Only exit code 0 is accepted.
func (c *Client) Search(ctx context.Context, q Query) ([]Match, error) {
	if strings.TrimSpace(q.Pattern) == "" {
		return nil, fmt.Errorf("astgrep: pattern is required")
	}

	stdout, stderr, code, err := c.run(ctx, "ast-grep", buildArgs(q)...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrNotInstalled
		}
		return nil, fmt.Errorf("astgrep: run ast-grep: %w", err)
	}
	if code != 0 {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = fmt.Sprintf("ast-grep exited with code %d", code)
		}
		return nil, fmt.Errorf("astgrep: %s", detail)
	}

	if len(bytes.TrimSpace(stdout)) == 0 {
		return nil, nil
	}
	var matches []Match
	if err := json.Unmarshal(stdout, &matches); err != nil {
		return nil, fmt.Errorf("astgrep: parse ast-grep output: %w", err)
	}
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// buildArgs assembles the ast-grep argument vector for a query.
func buildArgs(q Query) []string {
	args := []string{"run", "--pattern", q.Pattern, "--json"}
	if q.Language != "" {
		args = append(args, "--lang", q.Language)
	}
	if q.Rewrite != "" {
		args = append(args, "--rewrite", q.Rewrite)
	}
	if len(q.Paths) > 0 {
		args = append(args, q.Paths...)
	} else {
		args = append(args, ".")
	}
	return args
}

// runCommand is the production runFunc.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return stdout.Bytes(), stderr.Bytes(), ee.ExitCode(), nil
		}
		return nil, nil, -1, err
	}
	return stdout.Bytes(), stderr.Bytes(), 0, nil
}

// Format renders matches grouped by file for human consumption.
func Format(matches []Match) string {
	if len(matches) == 0 {
		return "No matches found.\n"
	}

	byFile := make(map[string][]Match)
	var order []string
	for _, m := range matches {
		if _, seen := byFile[m.File]; !seen {
			order = append(order, m.File)
		}
		byFile[m.File] = append(byFile[m.File], m)
	}

	var b strings.Builder
	for _, file := range order {
		fmt.Fprintf(&b, "%s\n", file)
		for _, m := range byFile[file] {
			fmt.Fprintf(&b, "  %d:%d\n", m.Range.Start.Line+1, m.Range.Start.Column+1)
			for _, line := range strings.Split(strings.TrimRight(m.Lines, "\n"), "\n") {
				fmt.Fprintf(&b, "    | %s\n", line)
			}
			if m.Replacement != "" {
				fmt.Fprintf(&b, "    > %s\n", m.Replacement)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
