// Package ghsearch searches GitHub code, by default through the gh CLI.
package ghsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNotInstalled indicates the gh binary could not be found.
var ErrNotInstalled = errors.New("ghsearch: gh is not installed; install it from https://cli.github.com and run 'gh auth login'")

// Query holds the structured parameters for one code search.
type Query struct {
	Text      string
	Language  string
	Owner     string
	Repo      string
	Filename  string
	Extension string
	Limit     int // passed to gh as --limit; the provider enforces it
}

// Match is one code search hit, in the gh --json field shape.
type Match struct {
	Path        string      `json:"path"`
	Repository  Repository  `json:"repository"`
	SHA         string      `json:"sha"`
	URL         string      `json:"url"`
	TextMatches []TextMatch `json:"textMatches"`
}

// Repository identifies the repository a match belongs to.
type Repository struct {
	FullName string `json:"fullName"`
	Name     string `json:"name"`
	Owner    Owner  `json:"owner"`
}

// Owner is the repository owner.
type Owner struct {
	Login string `json:"login"`
}

// TextMatch is one highlighted fragment within a matched file.
type TextMatch struct {
	Fragment string `json:"fragment"`
	Matches  []struct {
		Text string `json:"text"`
	} `json:"matches"`
}

// Searcher is the transport-neutral code search capability. The gh CLI is
// the default transport; api.go provides a direct-API alternative.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Match, error)
}

// runFunc executes a subprocess and returns its captured output.
type runFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error)

// CLISearcher searches via `gh search code`.
type CLISearcher struct {
	run runFunc
}

// NewCLISearcher returns a Searcher backed by the gh binary.
func NewCLISearcher() *CLISearcher {
	return &CLISearcher{run: runCommand}
}

// Search spawns gh with the query's argument vector and parses its JSON
// output. Exit codes 0 and 1 are accepted; gh exits 1 when the search
// matched nothing.
func (s *CLISearcher) Search(ctx context.Context, q Query) ([]Match, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, fmt.Errorf("ghsearch: query text is required")
	}

	stdout, stderr, code, err := s.run(ctx, "gh", buildArgs(q)...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrNotInstalled
		}
		return nil, fmt.Errorf("ghsearch: run gh: %w", err)
	}
	if code != 0 && code != 1 {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = fmt.Sprintf("gh exited with code %d", code)
		}
		return nil, fmt.Errorf("ghsearch: %s", detail)
	}

	if len(bytes.TrimSpace(stdout)) == 0 {
		return nil, nil
	}
	var matches []Match
	if err := json.Unmarshal(stdout, &matches); err != nil {
		return nil, fmt.Errorf("ghsearch: parse gh output: %w", err)
	}
	return matches, nil
}

// buildArgs assembles the gh argument vector for a query.
func buildArgs(q Query) []string {
	args := []string{"search", "code", q.Text, "--json", "path,repository,sha,url,textMatches"}
	if q.Language != "" {
		args = append(args, "--language", q.Language)
	}
	if q.Owner != "" {
		args = append(args, "--owner", q.Owner)
	}
	if q.Repo != "" {
		args = append(args, "--repo", q.Repo)
	}
	if q.Filename != "" {
		args = append(args, "--filename", q.Filename)
	}
	if q.Extension != "" {
		args = append(args, "--extension", q.Extension)
	}
	if q.Limit > 0 {
		args = append(args, "--limit", strconv.Itoa(q.Limit))
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

// Format renders matches grouped by repository for human consumption.
func Format(matches []Match) string {
	if len(matches) == 0 {
		return "No matches found.\n"
	}

	byRepo := make(map[string][]Match)
	var order []string
	for _, m := range matches {
		key := m.Repository.FullName
		if _, seen := byRepo[key]; !seen {
			order = append(order, key)
		}
		byRepo[key] = append(byRepo[key], m)
	}

	var b strings.Builder
	for _, repo := range order {
		fmt.Fprintf(&b, "%s\n", repo)
		for _, m := range byRepo[repo] {
			fmt.Fprintf(&b, "  %s\n", m.Path)
			for _, tm := range m.TextMatches {
				for _, line := range strings.Split(strings.TrimRight(tm.Fragment, "\n"), "\n") {
					fmt.Fprintf(&b, "    | %s\n", line)
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
