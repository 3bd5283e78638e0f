package websearch

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/models"
)

var tokenSplitRegex = regexp.MustCompile(`[^a-z0-9]+`)

// queryTokens lowercases the query, splits on non-alphanumerics, and returns
// unique tokens of at least minLen characters in first-seen order.
func queryTokens(query string, minLen int) []string {
	parts := tokenSplitRegex.Split(strings.ToLower(query), -1)
	seen := make(map[string]bool, len(parts))
	tokens := make([]string, 0, len(parts))
	for _, t := range parts {
		if len(t) < minLen || seen[t] {
			continue
		}
		seen[t] = true
		tokens = append(tokens, t)
	}
	return tokens
}

// ScoreResource ranks a candidate by lexical relevance to the query.
// Title matches matter most; deeper content pages beat bare homepages;
// reference-grade hosts and PDFs get boosts; denylisted terms penalize.
func ScoreResource(h *common.Heuristics, r models.ResourceRef, query string) int {
	title := strings.ToLower(r.Title)
	rawURL := strings.ToLower(r.URL)
	source := strings.ToLower(r.Source)
	snippet := strings.ToLower(r.Snippet)

	score := 0
	for _, t := range queryTokens(query, 4) {
		if strings.Contains(title, t) {
			score += 3
		}
		if strings.Contains(rawURL, t) {
			score += 1
		}
		if strings.Contains(snippet, t) {
			score += 1
		}
	}

	if u, err := url.Parse(r.URL); err == nil {
		depth := 0
		for _, seg := range strings.Split(u.Path, "/") {
			if seg != "" {
				depth++
			}
		}
		if depth >= 2 {
			score += 1
		}
		if depth == 0 || u.Path == "/" {
			score -= 2
		}
	}

	for _, b := range h.BoostTerms {
		if strings.Contains(source, b) || strings.Contains(rawURL, b) {
			score += 3
		}
	}

	if isPDF(r.URL) {
		score += 2
	}

	for _, d := range h.DenyTerms {
		if strings.Contains(title, d) || strings.Contains(rawURL, d) {
			score -= 4
		}
	}

	return score
}
