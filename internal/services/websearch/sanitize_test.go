package websearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/discere/internal/models"
)

func TestNormalizeRedirectURL_UnwrapsOrganicRedirect(t *testing.T) {
	href := "//duckduckgo.com/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FGo&rut=abc123"
	// Protocol-relative links are not unwrapped; path-relative ones are
	assert.Equal(t, "", normalizeRedirectURL(href))

	href = "/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FGo&rut=abc123"
	assert.Equal(t, "https://en.wikipedia.org/wiki/Go", normalizeRedirectURL(href))
}

func TestNormalizeRedirectURL_UnwrapsInstantAnswerRedirect(t *testing.T) {
	href := "https://duckduckgo.com/r.js?u=https%3A%2F%2Fgolang.org%2Fdoc%2F"
	assert.Equal(t, "https://golang.org/doc/", normalizeRedirectURL(href))
}

func TestNormalizeRedirectURL_RejectsNonHTTPTarget(t *testing.T) {
	href := "/l/?uddg=javascript%3Aalert(1)"
	assert.Equal(t, "", normalizeRedirectURL(href))
}

func TestNormalizeRedirectURL_PassesThroughExternal(t *testing.T) {
	assert.Equal(t, "https://example.com/page", normalizeRedirectURL("https://example.com/page"))
	assert.Equal(t, "", normalizeRedirectURL(""))
	assert.Equal(t, "", normalizeRedirectURL("not-a-url"))
}

func TestNormalizeFinalURL(t *testing.T) {
	out := normalizeFinalURL("http://example.com/page?utm_source=x&utm_campaign=y&id=7&gclid=z")

	assert.True(t, strings.HasPrefix(out, "https://"))
	assert.Contains(t, out, "id=7")
	assert.NotContains(t, out, "utm_source")
	assert.NotContains(t, out, "utm_campaign")
	assert.NotContains(t, out, "gclid")
}

func TestSanitizeResources_DropsBackendHost(t *testing.T) {
	items := []models.ResourceRef{
		{Title: "Kept", URL: "https://example.com/article"},
		{Title: "Backend", URL: "https://duckduckgo.com/?q=test"},
	}

	out := SanitizeResources(items)

	require.Len(t, out, 1)
	assert.Equal(t, "Kept", out[0].Title)
	assert.Equal(t, "example.com", out[0].Source)
}

func TestSanitizeResources_ResolvesRedirectAndSetsSource(t *testing.T) {
	items := []models.ResourceRef{
		{Title: "Go &amp; Friends", URL: "/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FGo"},
	}

	out := SanitizeResources(items)

	require.Len(t, out, 1)
	assert.Equal(t, "Go & Friends", out[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Go", out[0].URL)
	assert.Equal(t, "en.wikipedia.org", out[0].Source)
}

func TestSanitizeResources_DropsUnresolvable(t *testing.T) {
	items := []models.ResourceRef{
		{Title: "Dead", URL: "/l/?uddg="},
		{Title: "Empty", URL: ""},
	}

	assert.Empty(t, SanitizeResources(items))
}

func TestSanitizeResources_TruncatesTitle(t *testing.T) {
	items := []models.ResourceRef{
		{Title: strings.Repeat("a", 200), URL: "https://example.com/x"},
	}

	out := SanitizeResources(items)

	require.Len(t, out, 1)
	assert.Len(t, out[0].Title, 160)
}

func TestCuratedFallback_Deterministic(t *testing.T) {
	first := CuratedFallback("machine learning")
	second := CuratedFallback("machine learning")

	assert.Equal(t, first, second)
	assert.Len(t, first, 8)
	for _, r := range first {
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.URL)
		assert.NotEmpty(t, r.Source)
		assert.NotEqual(t, "duckduckgo.com", r.Source)
	}
}
