package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRender_Success(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("# Example\n\nbody text\n"))
	}))
	defer srv.Close()

	c := NewClientWithOrigin(srv.URL)
	res, err := c.Render(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !res.OK() {
		t.Errorf("OK() = false, status %d", res.StatusCode)
	}
	if res.Markdown != "# Example\n\nbody text\n" {
		t.Errorf("Markdown = %q", res.Markdown)
	}
	if gotPath != "/https://example.com/page" {
		t.Errorf("proxied path = %q", gotPath)
	}
	if gotAccept != "text/markdown" {
		t.Errorf("Accept = %q, want text/markdown", gotAccept)
	}
}

func TestRender_UpstreamFailureIsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClientWithOrigin(srv.URL)
	res, err := c.Render(context.Background(), "https://example.com/missing")
	if err != nil {
		t.Fatalf("non-2xx must not be a Go error, got: %v", err)
	}
	if res.OK() {
		t.Error("OK() = true for 404")
	}
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", res.StatusCode)
	}
	if res.Markdown != "" {
		t.Errorf("Markdown = %q, want empty on failure", res.Markdown)
	}
}

func TestRender_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClientWithOrigin(srv.URL)
	_, err := c.Render(ctx, "https://example.com/slow")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
}
