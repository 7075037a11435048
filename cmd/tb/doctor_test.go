package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestDoctorCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"doctor", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("doctor --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "diagnostic checks") {
		t.Errorf("expected help to mention 'diagnostic checks', got: %s", out)
	}
	if !strings.Contains(out, "--config") {
		t.Errorf("expected --config flag in help, got: %s", out)
	}
}

func TestNewDoctorCmd(t *testing.T) {
	cmd := newDoctorCmd()
	if cmd.Use != "doctor" {
		t.Errorf("Use = %q, want %q", cmd.Use, "doctor")
	}
	if cmd.Flags().Lookup("config") == nil {
		t.Fatal("expected --config flag")
	}
}

func TestCheckBinary_Missing(t *testing.T) {
	r := checkBinary("definitely-not-a-real-binary-xyz")
	if r.status != "FAIL" {
		t.Errorf("status = %q, want FAIL", r.status)
	}
	if !strings.Contains(r.detail, "not found") {
		t.Errorf("detail = %q, want mention of 'not found'", r.detail)
	}
}

func TestCheckBinary_MissingOptionalWarns(t *testing.T) {
	// Optional binaries degrade to WARN rather than failing the run.
	for _, name := range []string{"gh", "pexpect-cli", "pueue"} {
		r := checkBinary(name)
		if r.status == "FAIL" {
			t.Errorf("checkBinary(%q) = FAIL, want PASS or WARN", name)
		}
	}
}

func TestCheckManifest(t *testing.T) {
	r := checkManifest()
	if r.status != "PASS" {
		t.Fatalf("status = %q (%s), want PASS", r.status, r.detail)
	}
	if !strings.Contains(r.detail, "9 tools") {
		t.Errorf("detail = %q, want '9 tools'", r.detail)
	}
}

func TestPrintCheckResult(t *testing.T) {
	buf := new(bytes.Buffer)
	printCheckResult(buf, checkResult{"Config file", "PASS", "/tmp/config.json"})

	want := "[PASS] Config file: /tmp/config.json\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
