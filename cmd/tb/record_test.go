package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecordCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"record", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("record --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "JSON-lines lifecycle events") {
		t.Errorf("expected help to describe the event stream, got: %s", out)
	}
	if !strings.Contains(out, "--quiet") {
		t.Errorf("expected --quiet flag in help, got: %s", out)
	}
}

func TestRecordCmd_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	events := strings.Join([]string{
		`{"type":"session_start","session_id":"cmd-e2e","cwd":"/work","provider":"anthropic","model":"opus"}`,
		`{"type":"turn_start"}`,
		`{"type":"turn_end","stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5,"cost_usd":0.01}}`,
		`{"type":"session_end"}`,
	}, "\n") + "\n"

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(events))
	cmd.SetArgs([]string{"record", "--config", cfgPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Session cmd-e2e finished") {
		t.Errorf("expected summary line, got: %s", out)
	}
	if !strings.Contains(out, "1 turns") {
		t.Errorf("expected turn count in summary, got: %s", out)
	}
}

func TestRecordCmd_QuietSuppressesSummary(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	events := `{"type":"session_start","session_id":"quiet-e2e","cwd":"/work","provider":"anthropic","model":"opus"}` + "\n" +
		`{"type":"session_end"}` + "\n"

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(events))
	cmd.SetArgs([]string{"record", "--config", cfgPath, "--quiet"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("record --quiet failed: %v", err)
	}

	if strings.Contains(buf.String(), "finished") {
		t.Errorf("expected no summary output with --quiet, got: %s", buf.String())
	}
}
