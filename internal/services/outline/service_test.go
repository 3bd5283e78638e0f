package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutline_DirectJSON(t *testing.T) {
	text := `{"title":"Go","modules":[{"title":"Intro","learningObjective":"Learn basics"}]}`

	outline, err := parseOutline(text, "Go")

	require.NoError(t, err)
	assert.Equal(t, "Go", outline.Title)
	require.Len(t, outline.Modules, 1)
	assert.Equal(t, "Intro", outline.Modules[0].Title)
	assert.Equal(t, "Learn basics", outline.Modules[0].LearningObjective)
}

func TestParseOutline_FencedBlock(t *testing.T) {
	text := "Here is your outline:\n```json\n{\"modules\":[{\"title\":\"Intro\",\"learningObjective\":\"Basics\"}]}\n```\nEnjoy!"

	outline, err := parseOutline(text, "Go")

	require.NoError(t, err)
	// Missing title falls back to the topic
	assert.Equal(t, "Go", outline.Title)
	require.Len(t, outline.Modules, 1)
}

func TestParseOutline_BareFence(t *testing.T) {
	text := "```\n{\"modules\":[{\"title\":\"Intro\"}]}\n```"

	outline, err := parseOutline(text, "Go")

	require.NoError(t, err)
	require.Len(t, outline.Modules, 1)
}

func TestParseOutline_EmbeddedBraces(t *testing.T) {
	text := `Sure! The outline is {"modules":[{"title":"Intro","learningObjective":"Basics"}]} as requested.`

	outline, err := parseOutline(text, "Go")

	require.NoError(t, err)
	require.Len(t, outline.Modules, 1)
	assert.Equal(t, "Intro", outline.Modules[0].Title)
}

func TestParseOutline_SkipsEmptyTitles(t *testing.T) {
	text := `{"modules":[{"title":"  "},{"title":"Kept"}]}`

	outline, err := parseOutline(text, "Go")

	require.NoError(t, err)
	require.Len(t, outline.Modules, 1)
	assert.Equal(t, "Kept", outline.Modules[0].Title)
}

func TestParseOutline_Errors(t *testing.T) {
	_, err := parseOutline("no json here at all", "Go")
	assert.Error(t, err)

	_, err = parseOutline(`{"modules":[]}`, "Go")
	assert.Error(t, err)

	_, err = parseOutline("prose {broken json} prose", "Go")
	assert.Error(t, err)
}

func TestExtractJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONBlock("before {\"a\":1} after"))
	assert.Equal(t, "", extractJSONBlock("nothing here"))
}

func TestFallbackOutline(t *testing.T) {
	outline := FallbackOutline("Rust")

	assert.Equal(t, "Rust", outline.Title)
	require.Len(t, outline.Modules, 6)
	assert.Equal(t, "Introduction to Rust", outline.Modules[0].Title)
	assert.Equal(t, "Understand what Rust is and where it is used.", outline.Modules[0].LearningObjective)
	assert.Equal(t, "Rust Fundamentals", outline.Modules[1].Title)
	assert.Equal(t, "Hands-on Setup", outline.Modules[2].Title)
	assert.Equal(t, "Rust Core Techniques", outline.Modules[3].Title)
	assert.Equal(t, "Advanced Topics in Rust", outline.Modules[4].Title)
	assert.Equal(t, "Project & Next Steps", outline.Modules[5].Title)

	// Deterministic for retries and caching comparisons
	assert.Equal(t, outline, FallbackOutline("Rust"))
}
