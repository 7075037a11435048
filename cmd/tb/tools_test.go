package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestToolsCmd(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"tools"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("tools failed: %v", err)
	}

	out := buf.String()
	for _, name := range []string{"kagi_search", "github_code_search", "session_exec"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected output to contain %q, got: %s", name, out)
		}
	}
}

func TestToolsCmd_NamesOnly(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"tools", "--names"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("tools --names failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 9 {
		t.Errorf("expected 9 names, got %d: %v", len(lines), lines)
	}
	for _, line := range lines {
		if strings.ContainsAny(line, " \t") {
			t.Errorf("expected bare names, got line %q", line)
		}
	}
}
