package ghsearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// APISearcher searches through the GitHub REST API instead of the gh CLI,
// for hosts where gh is unavailable but a token is. Both transports sit
// behind the Searcher interface and produce the same Match shape.
type APISearcher struct {
	client *github.Client
}

// NewAPISearcher returns a Searcher authenticated with token.
func NewAPISearcher(ctx context.Context, token string) *APISearcher {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &APISearcher{client: github.NewClient(oauth2.NewClient(ctx, ts))}
}

// Search issues one code search API call and maps the results to Match.
func (s *APISearcher) Search(ctx context.Context, q Query) ([]Match, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, fmt.Errorf("ghsearch: query text is required")
	}

	opts := &github.SearchOptions{TextMatch: true}
	if q.Limit > 0 {
		opts.ListOptions.PerPage = q.Limit
	}

	res, _, err := s.client.Search.Code(ctx, apiQuery(q), opts)
	if err != nil {
		return nil, fmt.Errorf("ghsearch: api search: %w", err)
	}

	var matches []Match
	for _, cr := range res.CodeResults {
		m := Match{
			Path: cr.GetPath(),
			SHA:  cr.GetSHA(),
			URL:  cr.GetHTMLURL(),
		}
		if repo := cr.GetRepository(); repo != nil {
			m.Repository = Repository{
				FullName: repo.GetFullName(),
				Name:     repo.GetName(),
				Owner:    Owner{Login: repo.GetOwner().GetLogin()},
			}
		}
		for _, tm := range cr.TextMatches {
			var out TextMatch
			out.Fragment = tm.GetFragment()
			for _, mt := range tm.Matches {
				out.Matches = append(out.Matches, struct {
					Text string `json:"text"`
				}{Text: mt.GetText()})
			}
			m.TextMatches = append(m.TextMatches, out)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// apiQuery renders the structured query into GitHub search qualifiers.
func apiQuery(q Query) string {
	parts := []string{q.Text}
	if q.Language != "" {
		parts = append(parts, "language:"+q.Language)
	}
	if q.Owner != "" {
		parts = append(parts, "user:"+q.Owner)
	}
	if q.Repo != "" {
		parts = append(parts, "repo:"+q.Repo)
	}
	if q.Filename != "" {
		parts = append(parts, "filename:"+q.Filename)
	}
	if q.Extension != "" {
		parts = append(parts, "extension:"+q.Extension)
	}
	return strings.Join(parts, " ")
}
