package course

import (
	"regexp"
	"strings"

	"github.com/ternarybob/discere/internal/common"
)

// maxRefinedTokens caps how many tokens a refined query keeps
const maxRefinedTokens = 6

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9\s]+`)

// RefineQuery derives a focused search query from a module title and
// learning objective: lowercase, strip non-alphanumerics, drop stopwords and
// tokens of 2 characters or fewer, deduplicate preserving first-seen order,
// and keep the first 6 tokens. Falls back to the raw title, then the raw
// objective, then empty.
func RefineQuery(h *common.Heuristics, title, objective string) string {
	combined := strings.ToLower(title + " " + objective)
	cleaned := nonAlnumRegex.ReplaceAllString(combined, " ")

	seen := make(map[string]bool)
	kept := make([]string, 0, maxRefinedTokens)
	for _, token := range strings.Fields(cleaned) {
		if len(token) <= 2 || h.IsStopword(token) || seen[token] {
			continue
		}
		seen[token] = true
		kept = append(kept, token)
		if len(kept) == maxRefinedTokens {
			break
		}
	}

	if len(kept) > 0 {
		return strings.Join(kept, " ")
	}
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if o := strings.TrimSpace(objective); o != "" {
		return o
	}
	return ""
}
