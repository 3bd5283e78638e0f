package websearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/models"
)

func fixtureHeuristics() *common.Heuristics {
	return &common.Heuristics{
		BoostTerms: []string{"docs"},
		DenyTerms:  []string{"lyrics"},
	}
}

func TestQueryTokens(t *testing.T) {
	tokens := queryTokens("Go testing, TESTING go-routines!", 4)

	// Lowercased, split on non-alphanumerics, min length 4, deduplicated,
	// first-seen order
	assert.Equal(t, []string{"testing", "routines"}, tokens)
}

func TestScoreResource_TokenMatches(t *testing.T) {
	h := fixtureHeuristics()
	r := models.ResourceRef{
		Title:   "Go Testing Guide",
		URL:     "https://example.com/go/testing",
		Source:  "example.com",
		Snippet: "testing in go",
	}

	// "testing": title +3, url +1, snippet +1; path depth 2: +1
	assert.Equal(t, 6, ScoreResource(h, r, "go testing"))
}

func TestScoreResource_RootPagePenalty(t *testing.T) {
	h := fixtureHeuristics()
	deep := models.ResourceRef{Title: "Testing", URL: "https://example.com/go/testing"}
	root := models.ResourceRef{Title: "Testing", URL: "https://example.com/"}

	assert.Greater(t, ScoreResource(h, deep, "testing"), ScoreResource(h, root, "testing"))
}

func TestScoreResource_BoostTerm(t *testing.T) {
	h := fixtureHeuristics()
	boosted := models.ResourceRef{Title: "Testing", URL: "https://example.com/docs/testing"}
	plain := models.ResourceRef{Title: "Testing", URL: "https://example.com/blog/testing"}

	assert.Equal(t, ScoreResource(h, plain, "testing")+3, ScoreResource(h, boosted, "testing"))
}

func TestScoreResource_PDFBoost(t *testing.T) {
	h := fixtureHeuristics()
	pdf := models.ResourceRef{Title: "Testing", URL: "https://example.com/go/testing.pdf"}
	page := models.ResourceRef{Title: "Testing", URL: "https://example.com/go/testing.html"}

	assert.Equal(t, ScoreResource(h, page, "testing")+2, ScoreResource(h, pdf, "testing"))
}

func TestScoreResource_DenyTermPenalty(t *testing.T) {
	h := fixtureHeuristics()
	clean := models.ResourceRef{Title: "Testing patterns", URL: "https://example.com/go/testing"}
	denied := models.ResourceRef{Title: "Testing patterns lyrics", URL: "https://example.com/go/testing"}

	assert.Equal(t, ScoreResource(h, clean, "testing")-4, ScoreResource(h, denied, "testing"))
}

func TestScoreResource_ShortTokensIgnored(t *testing.T) {
	h := fixtureHeuristics()
	r := models.ResourceRef{Title: "go api sql", URL: "https://example.com/a/b"}

	// All query tokens are under 4 characters; only the depth bonus remains
	assert.Equal(t, 1, ScoreResource(h, r, "go api sql"))
}
