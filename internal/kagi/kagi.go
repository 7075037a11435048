// Package kagi implements a best-effort client for the Kagi search engine.
//
// Kagi exposes no public API; this client authenticates with a session
// token, replays the captured cookies on the HTML results endpoint, and
// extracts results with pattern matching. Upstream markup changes are an
// accepted brittleness, caught by the pinned samples in extract_test.go.
package kagi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrAuthentication indicates the session token was rejected.
var ErrAuthentication = errors.New("kagi: authentication failed")

// ErrNotAuthenticated indicates a call was made before Authenticate.
var ErrNotAuthenticated = errors.New("kagi: not authenticated")

// authCookieName is the session cookie whose value doubles as the
// authorization header on the quick-answer endpoint.
const authCookieName = "kagi_session"

// Client is a stateful Kagi client. It is not safe for concurrent use;
// callers discard it on any error and build a fresh one.
type Client struct {
	httpClient *http.Client
	baseURL    string

	cookies       []string // name=value pairs in capture order
	sessionAuth   string   // value of the kagi_session cookie
	authenticated bool
}

// Result is one ranked search result.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Answer is a synthesized quick answer with its cited references.
type Answer struct {
	Markdown   string
	References []Reference
}

// Reference is one quick-answer citation with its contribution percentage.
type Reference struct {
	Title        string
	URL          string
	Contribution float64
}

// NewClient returns a Client pointed at kagi.com.
func NewClient() *Client {
	return NewClientWithBase("https://kagi.com")
}

// NewClientWithBase returns a Client pointed at an alternate origin,
// used by tests.
func NewClientWithBase(base string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Redirects carry the authentication verdict; never follow them.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: strings.TrimRight(base, "/"),
	}
}

// Authenticate exchanges a session token for cookies. A redirect to a
// signin or welcome page means the token was rejected.
func (c *Client) Authenticate(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/signin?token="+url.QueryEscape(token), nil)
	if err != nil {
		return fmt.Errorf("kagi: build signin request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kagi: signin request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if loc := resp.Header.Get("Location"); loc != "" && isAuthRedirect(loc) {
		return ErrAuthentication
	}

	c.cookies = c.cookies[:0]
	c.sessionAuth = ""
	for _, sc := range resp.Header["Set-Cookie"] {
		pair := strings.TrimSpace(strings.SplitN(sc, ";", 2)[0])
		if pair == "" {
			continue
		}
		c.cookies = append(c.cookies, pair)
		if name, value, ok := strings.Cut(pair, "="); ok && name == authCookieName {
			c.sessionAuth = value
		}
	}
	if len(c.cookies) == 0 {
		return ErrAuthentication
	}

	c.authenticated = true
	return nil
}

// Search fetches the HTML results page for query and extracts up to limit
// results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if !c.authenticated {
		return nil, ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/html/search?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("kagi: build search request: %w", err)
	}
	req.Header.Set("Cookie", c.cookieHeader())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kagi: search request: %w", err)
	}
	defer resp.Body.Close()

	if loc := resp.Header.Get("Location"); loc != "" && isAuthRedirect(loc) {
		return nil, ErrAuthentication
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kagi: search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kagi: read search response: %w", err)
	}

	return ParseResults(string(body), limit), nil
}

// QuickAnswer requests Kagi's synthesized instant answer for query.
// Absence of an answer is not an error: a failed request, a response with
// no answer line, or an empty markdown payload all yield (nil, nil).
func (c *Client) QuickAnswer(ctx context.Context, query string) (*Answer, error) {
	if !c.authenticated {
		return nil, ErrNotAuthenticated
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mother/context", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", c.cookieHeader())
	req.Header.Set("Authorization", c.sessionAuth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil
	}

	return ParseAnswer(string(body)), nil
}

// cookieHeader joins captured cookie pairs with "; " in capture order.
func (c *Client) cookieHeader() string {
	return strings.Join(c.cookies, "; ")
}

// isAuthRedirect reports whether a redirect target indicates a rejected
// session.
func isAuthRedirect(location string) bool {
	return strings.Contains(location, "/signin") || strings.Contains(location, "/welcome")
}
