package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestSessionCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"session", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("session --help failed: %v", err)
	}

	out := buf.String()
	for _, sub := range []string{"start", "list", "exec", "stop"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestSessionExecCmd_RequiresID(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"session", "exec"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when session id is missing")
	}
}

func TestSessionExecCmd_TimeoutFlag(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"session", "exec", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("session exec --help failed: %v", err)
	}

	if !strings.Contains(buf.String(), "--timeout") {
		t.Errorf("expected --timeout flag in help, got: %s", buf.String())
	}
}
