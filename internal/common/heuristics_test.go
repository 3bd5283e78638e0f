package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsAnyTerm(t *testing.T) {
	terms := []string{"lyrics", "piano"}

	assert.True(t, ContainsAnyTerm("Best PIANO covers 2025", terms))
	assert.True(t, ContainsAnyTerm("song lyrics explained", terms))
	assert.False(t, ContainsAnyTerm("Go concurrency patterns", terms))
	assert.False(t, ContainsAnyTerm("", terms))
}

func TestCountMatchingTerms(t *testing.T) {
	terms := []string{"docs", "tutorial", "guide"}

	assert.Equal(t, 2, CountMatchingTerms("The official docs and tutorial", terms))
	assert.Equal(t, 0, CountMatchingTerms("unrelated text", terms))
}

func TestIsStopword(t *testing.T) {
	h := DefaultHeuristics()

	assert.True(t, h.IsStopword("introduction"))
	assert.True(t, h.IsStopword("the"))
	assert.False(t, h.IsStopword("kubernetes"))
	// Matching is exact, not case-folded; callers lowercase first
	assert.False(t, h.IsStopword("The"))
}

func TestIsSearchEngineHost(t *testing.T) {
	h := DefaultHeuristics()

	assert.True(t, h.IsSearchEngineHost("duckduckgo.com"))
	assert.True(t, h.IsSearchEngineHost("google.com"))
	assert.True(t, h.IsSearchEngineHost("html.duckduckgo.com"))
	assert.False(t, h.IsSearchEngineHost("wikipedia.org"))
	assert.False(t, h.IsSearchEngineHost("notgoogle.com"))
}

func TestIsTrustedDomain(t *testing.T) {
	h := DefaultHeuristics()

	assert.True(t, h.IsTrustedDomain("wikipedia.org"))
	assert.True(t, h.IsTrustedDomain("en.wikipedia.org"))
	assert.True(t, h.IsTrustedDomain("ocw.mit.edu"))
	assert.False(t, h.IsTrustedDomain("example.com"))
	assert.False(t, h.IsTrustedDomain("fakewikipedia.org"))
}
