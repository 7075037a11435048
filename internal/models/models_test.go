package models

import (
	"strings"
	"testing"
)

func TestTruncate_UnderCap(t *testing.T) {
	s := "short content"
	if got := Truncate(s); got != s {
		t.Errorf("Truncate(%q) = %q, want unchanged", s, got)
	}
}

func TestTruncate_AtCap(t *testing.T) {
	s := strings.Repeat("x", ResultCap)
	if got := Truncate(s); got != s {
		t.Error("content exactly at cap must not be truncated")
	}
}

func TestTruncate_OverCap(t *testing.T) {
	s := strings.Repeat("x", ResultCap+1000)
	got := Truncate(s)
	if len(got) != ResultCap+len(TruncationMarker) {
		t.Errorf("len = %d, want exactly cap+marker = %d", len(got), ResultCap+len(TruncationMarker))
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Errorf("truncated content missing marker suffix")
	}
}
