// Package fetch retrieves web pages as markdown through a conversion proxy.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOrigin is the conversion proxy; it renders any URL appended to its
// path as markdown.
const DefaultOrigin = "https://r.jina.ai/"

// Result carries either the converted markdown or the upstream failure
// status. A non-2xx response is data for the caller to surface, not an
// error.
type Result struct {
	Markdown   string
	StatusCode int
	Status     string
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client fetches through a fixed conversion-service origin.
type Client struct {
	httpClient *http.Client
	origin     string
}

// NewClient returns a Client using the default proxy origin.
func NewClient() *Client {
	return NewClientWithOrigin(DefaultOrigin)
}

// NewClientWithOrigin returns a Client using an alternate origin, used by
// tests.
func NewClientWithOrigin(origin string) *Client {
	if !strings.HasSuffix(origin, "/") {
		origin += "/"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		origin:     origin,
	}
}

// Render fetches target through the proxy and returns its markdown body.
// ctx cancellation aborts the request.
func (c *Client) Render(ctx context.Context, target string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+target, nil)
	if err != nil {
		return Result{}, fmt.Errorf("fetch: build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "text/markdown")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch: request %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("fetch: read response for %s: %w", target, err)
	}

	res := Result{StatusCode: resp.StatusCode, Status: resp.Status}
	if res.OK() {
		res.Markdown = string(body)
	}
	return res, nil
}
