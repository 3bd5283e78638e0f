package outline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/models"
	"github.com/ternarybob/discere/internal/services/llm"
	"google.golang.org/genai"
)

// overloadRetries bounds the 503 retry loop; backoff doubles from 1s.
const overloadRetries = 3

// Service generates course outlines via Gemini, degrading to a fixed
// deterministic fallback outline on quota or overload errors. Generate
// never fails.
type Service struct {
	factory *llm.ProviderFactory
	config  *common.GeminiConfig
	logger  arbor.ILogger
}

// NewService creates a new outline service
func NewService(factory *llm.ProviderFactory, geminiConfig *common.GeminiConfig, logger arbor.ILogger) *Service {
	return &Service{
		factory: factory,
		config:  geminiConfig,
		logger:  logger,
	}
}

// Generate produces an outline for the given topic. Rate-limit errors (429)
// fall back immediately; overload errors (503) are retried with 1s/2s backoff
// before falling back. Unparseable model output also falls back.
func (s *Service) Generate(ctx context.Context, topic string) *models.Outline {
	prompt := fmt.Sprintf(`Create a structured course outline for the topic: %q.
Return JSON with an array 'modules' where each module has 'title' and 'learningObjective'.`, topic)

	for attempt := 1; attempt <= overloadRetries; attempt++ {
		text, err := s.generate(ctx, prompt)
		if err == nil {
			outline, parseErr := parseOutline(text, topic)
			if parseErr == nil {
				s.logger.Info().
					Str("topic", topic).
					Int("modules", len(outline.Modules)).
					Msg("Outline generated")
				return outline
			}
			s.logger.Warn().Err(parseErr).Str("topic", topic).Msg("Outline response unparseable, using fallback")
			return FallbackOutline(topic)
		}

		if llm.IsRateLimitError(err) {
			s.logger.Warn().Str("topic", topic).Msg("Outline generation rate limited, using fallback")
			return FallbackOutline(topic)
		}

		if llm.IsOverloadedError(err) {
			if attempt == overloadRetries {
				s.logger.Warn().Str("topic", topic).Msg("Outline generation overloaded after retries, using fallback")
				return FallbackOutline(topic)
			}
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			s.logger.Warn().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Outline generation overloaded, retrying")
			select {
			case <-ctx.Done():
				return FallbackOutline(topic)
			case <-time.After(backoff):
			}
			continue
		}

		s.logger.Warn().Err(err).Str("topic", topic).Msg("Outline generation failed, using fallback")
		return FallbackOutline(topic)
	}

	return FallbackOutline(topic)
}

// generate makes a single Gemini call. Retry policy lives in Generate, not
// here, because 429 must fall back immediately rather than back off.
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	client, err := s.factory.GetGeminiClient(ctx)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}

	resp, err := client.Models.GenerateContent(ctx, s.config.Model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty outline response")
	}
	return resp.Text(), nil
}

type outlineJSON struct {
	Title   string `json:"title"`
	Modules []struct {
		Title             string `json:"title"`
		LearningObjective string `json:"learningObjective"`
	} `json:"modules"`
}

// parseOutline parses model output into an Outline. Tries a direct parse
// first, then a fenced code block, then the first brace-balanced object.
func parseOutline(text, topic string) (*models.Outline, error) {
	var parsed outlineJSON
	if err := json.Unmarshal([]byte(text), &parsed); err != nil || len(parsed.Modules) == 0 {
		candidate := extractJSONBlock(text)
		if candidate == "" {
			return nil, fmt.Errorf("no JSON object found in outline response")
		}
		parsed = outlineJSON{}
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse extracted outline JSON: %w", err)
		}
		if len(parsed.Modules) == 0 {
			return nil, fmt.Errorf("outline JSON has no modules")
		}
	}

	outline := &models.Outline{
		Title: strings.TrimSpace(parsed.Title),
	}
	if outline.Title == "" {
		outline.Title = topic
	}
	for _, m := range parsed.Modules {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			continue
		}
		outline.Modules = append(outline.Modules, models.OutlineModule{
			Title:             title,
			LearningObjective: strings.TrimSpace(m.LearningObjective),
		})
	}
	if len(outline.Modules) == 0 {
		return nil, fmt.Errorf("outline JSON has no usable modules")
	}
	return outline, nil
}

var fencedBlockRegex = regexp.MustCompile("(?i)```(?:json)?\\n([\\s\\S]*?)\\n```")

// extractJSONBlock pulls a JSON candidate out of fenced or prosey model
// output. Returns empty when no candidate is found.
func extractJSONBlock(text string) string {
	if matches := fencedBlockRegex.FindStringSubmatch(text); len(matches) > 1 {
		if fenced := strings.TrimSpace(matches[1]); fenced != "" {
			return fenced
		}
	}

	firstBrace := strings.Index(text, "{")
	lastBrace := strings.LastIndex(text, "}")
	if firstBrace != -1 && lastBrace > firstBrace {
		return strings.TrimSpace(text[firstBrace : lastBrace+1])
	}

	return ""
}

// FallbackOutline returns the fixed deterministic six-module outline used
// when the model is rate limited, overloaded, or unparseable.
func FallbackOutline(topic string) *models.Outline {
	return &models.Outline{
		Title: topic,
		Modules: []models.OutlineModule{
			{Title: fmt.Sprintf("Introduction to %s", topic), LearningObjective: fmt.Sprintf("Understand what %s is and where it is used.", topic)},
			{Title: fmt.Sprintf("%s Fundamentals", topic), LearningObjective: "Learn core terminology and key concepts."},
			{Title: "Hands-on Setup", LearningObjective: fmt.Sprintf("Set up tools and environment to practice %s.", topic)},
			{Title: fmt.Sprintf("%s Core Techniques", topic), LearningObjective: "Apply essential methods and workflows with examples."},
			{Title: fmt.Sprintf("Advanced Topics in %s", topic), LearningObjective: "Explore deeper ideas, patterns, and best practices."},
			{Title: "Project & Next Steps", LearningObjective: "Build a small project and find resources to continue learning."},
		},
	}
}
