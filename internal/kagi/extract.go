package kagi

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Patterns pinned to kagi.com markup as of capture; extract_test.go carries
// literal samples so upstream drift fails loudly.
var (
	resultBlockRe = regexp.MustCompile(`<div class="_0_SRI`)
	titleLinkRe   = regexp.MustCompile(`(?s)<a[^>]*class="[^"]*__sri_title_link[^"]*"[^>]*href="([^"]+)"[^>]*>(.*?)</a>`)
	snippetRe     = regexp.MustCompile(`(?s)<div class="[^"]*__sri-desc[^"]*"[^>]*>(.*?)</div>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	spaceRe       = regexp.MustCompile(`\s+`)

	answerLinePrefix = "new_message.json:"
	referenceRe      = regexp.MustCompile(`(?m)\[([^\]\n]+)\]\((https?://[^)\s]+)\)(?:\s*\((\d+(?:\.\d+)?)%\))?`)
)

// ParseResults extracts up to limit results from a Kagi HTML results page.
// A block missing its title link is dropped; a block missing only its
// snippet is kept with an empty snippet.
func ParseResults(page string, limit int) []Result {
	locs := resultBlockRe.FindAllStringIndex(page, -1)
	var results []Result
	for i, loc := range locs {
		end := len(page)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := page[loc[0]:end]

		m := titleLinkRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		u := html.UnescapeString(m[1])
		title := cleanText(m[2])
		if u == "" || title == "" {
			continue
		}

		snippet := ""
		if sm := snippetRe.FindStringSubmatch(block); sm != nil {
			snippet = cleanText(sm[1])
		}

		results = append(results, Result{Title: title, URL: u, Snippet: snippet})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results
}

// answerPayload is the JSON document carried by a new_message.json line.
type answerPayload struct {
	Markdown   string `json:"md"`
	References string `json:"references"`
}

// ParseAnswer scans a quick-answer pseudo-stream for the first
// new_message.json line and decodes it. Returns nil when no usable answer
// is present.
func ParseAnswer(body string) *Answer {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, answerLinePrefix) {
			continue
		}

		var payload answerPayload
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, answerLinePrefix)), &payload); err != nil {
			return nil
		}
		if strings.TrimSpace(payload.Markdown) == "" {
			return nil
		}
		return &Answer{
			Markdown:   payload.Markdown,
			References: parseReferences(payload.References),
		}
	}
	return nil
}

// parseReferences extracts (title, url, contribution%) triples from the
// references sub-document of a quick answer.
func parseReferences(doc string) []Reference {
	var refs []Reference
	for _, m := range referenceRe.FindAllStringSubmatch(doc, -1) {
		ref := Reference{Title: cleanText(m[1]), URL: m[2]}
		if m[3] != "" {
			if pct, err := strconv.ParseFloat(m[3], 64); err == nil {
				ref.Contribution = pct
			}
		}
		refs = append(refs, ref)
	}
	return refs
}

// cleanText strips markup and collapses whitespace in extracted fragments.
func cleanText(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
