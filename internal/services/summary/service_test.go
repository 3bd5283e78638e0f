package summary

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
)

func newTestService(minWords int) *Service {
	return NewService(nil, &common.GeminiConfig{}, common.DefaultHeuristics(), minWords, arbor.NewLogger())
}

func TestIsLowQuality_WordCount(t *testing.T) {
	svc := newTestService(5)

	assert.True(t, svc.IsLowQuality("too short"))
	assert.False(t, svc.IsLowQuality("this summary has exactly six words"))
}

func TestIsLowQuality_BoilerplatePhrase(t *testing.T) {
	svc := newTestService(5)

	long := strings.Repeat("solid content ", 20)
	assert.False(t, svc.IsLowQuality(long))

	// A known boilerplate phrase flags even a long summary
	flagged := long + " This module provides a clear, end-to-end narrative about things."
	assert.True(t, svc.IsLowQuality(flagged))
}

func TestSanitize_DropsMetaLines(t *testing.T) {
	svc := newTestService(5)

	in := "Good intro line\nNo transcript was provided for this\nFinal line"
	out := svc.sanitize(in)

	assert.Equal(t, "Good intro line\nFinal line", out)
}

func TestSanitize_CutsMidLineMetaPhrase(t *testing.T) {
	svc := newTestService(5)

	out := svc.sanitize("The details follow. Please provide feedback")

	assert.Equal(t, "The details follow.", out)
}

func TestSanitize_CleanTextUnchanged(t *testing.T) {
	svc := newTestService(5)

	in := "Paragraph one.\n\nParagraph two."
	assert.Equal(t, in, svc.sanitize(in))
}

func TestHeuristicSummary_ThreeParagraphs(t *testing.T) {
	svc := newTestService(5)

	out := svc.heuristicSummary("")

	paras := strings.Split(out, "\n\n")
	require.Len(t, paras, 3)
	// The fallback deliberately trips the quality gate so a later enrich
	// pass regenerates it when the model recovers
	assert.True(t, svc.IsLowQuality(out) || len(strings.Fields(out)) >= 5)
	assert.True(t, common.ContainsAnyTerm(out, svc.heuristics.BoilerplatePhrases))
}

func TestHeuristicSummary_EmbedsSourceSnippet(t *testing.T) {
	svc := newTestService(5)
	contextText := strings.Repeat("x", 300)

	out := svc.heuristicSummary(contextText)

	assert.Contains(t, out, "grounded in the following source material")
	assert.Contains(t, out, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 201))
}

func TestIsDegradable(t *testing.T) {
	assert.True(t, isDegradable(errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")))
	assert.True(t, isDegradable(errors.New("rpc error: code = 503 desc = UNAVAILABLE: model overloaded")))
	assert.True(t, isDegradable(errors.New("500 Internal Server Error")))
	assert.True(t, isDegradable(errors.New("502 Bad Gateway")))
	assert.False(t, isDegradable(errors.New("invalid request: bad prompt")))
}

func TestOrPlaceholder(t *testing.T) {
	assert.Equal(t, "(empty)", orPlaceholder(""))
	assert.Equal(t, "text", orPlaceholder("text"))
}
