package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/services/llm"
	"google.golang.org/genai"
)

const summaryPrompt = `You are an expert course writer. Write a comprehensive module explanation in the style of a high-quality Udemy lesson, with textbook-level depth.

Requirements:
- Write primarily in paragraphs (around 80-90%% of the content).
- You may include a single short bullet list only if it clarifies steps, pitfalls, or key takeaways.
- Add relevant code snippets if it helps explain the topic.
- Use clear, engaging, student-friendly language with smooth transitions.
- Bold a few important keywords using **markdown**.
- Target length: 700-1100 words (aim for depth and specificity, not fluff).
- Do not include meta commentary, disclaimers, or refer to transcripts or prompts.
- Separate paragraphs with a blank line.
- If the source is incomplete, infer reasonable context and stitch a coherent narrative.

Coverage checklist (weave these into cohesive prose, not headings):
- Concise definition, motivation, and when to use it.
- Mental model and core building blocks.
- Step-by-step workflow or algorithm with rationale.
- A non-trivial, end-to-end example; include a short annotated code snippet if applicable.
- Common pitfalls and edge cases, with fixes.
- Contrast with related concepts and when to prefer each.
- Practical tips for production use (performance, reliability, maintainability).

Source transcript/context (may be partial):

%s`

const rewritePrompt = `Rewrite the following to be textbook-level (700-1100 words), highly specific to the topic and context, with an annotated example and concrete pitfalls.
Do not use generic phrases like "This module provides a clear narrative" or "By the end, you should be able...".
Maintain paragraph-first style and keep only one short bullet list if necessary.

Original draft:

%s

Context again for grounding:

%s`

// Service synthesizes module summaries via Gemini. Summarize never fails:
// quota and server errors degrade to a fixed heuristic paragraph template.
type Service struct {
	factory    *llm.ProviderFactory
	config     *common.GeminiConfig
	heuristics *common.Heuristics
	minWords   int
	logger     arbor.ILogger
}

// NewService creates a new summary service
func NewService(factory *llm.ProviderFactory, geminiConfig *common.GeminiConfig, heuristics *common.Heuristics, minWords int, logger arbor.ILogger) *Service {
	if minWords <= 0 {
		minWords = 350
	}
	return &Service{
		factory:    factory,
		config:     geminiConfig,
		heuristics: heuristics,
		minWords:   minWords,
		logger:     logger,
	}
}

// Summarize generates a module summary from the given context text. Output
// failing the quality gate gets one forced rewrite pass. Quota, overload, and
// server errors return the heuristic fallback paragraphs instead of an error.
func (s *Service) Summarize(ctx context.Context, contextText string) string {
	prompt := fmt.Sprintf(summaryPrompt, contextText)

	out, err := s.generate(ctx, prompt)
	if err != nil {
		if isDegradable(err) {
			s.logger.Warn().Err(err).Msg("Summarization degraded, using heuristic summary")
			return s.heuristicSummary(contextText)
		}
		s.logger.Error().Err(err).Msg("Summarization failed")
		return "Summary could not be generated at this time."
	}

	out = s.sanitize(out)

	// One forced rewrite when the draft is short or generic
	if s.IsLowQuality(out) {
		second, rewriteErr := s.generate(ctx, fmt.Sprintf(rewritePrompt, orPlaceholder(out), contextText))
		if rewriteErr == nil {
			second = s.sanitize(second)
			if second != "" && !s.IsLowQuality(second) {
				return second
			}
			if second != "" {
				out = second
			}
		}
	}

	return out
}

// IsLowQuality reports whether a summary fails the quality gate: word count
// below the minimum, or any known boilerplate phrase present.
func (s *Service) IsLowQuality(summary string) bool {
	lower := strings.ToLower(summary)
	wordCount := len(strings.Fields(lower))
	if wordCount < s.minWords {
		return true
	}
	return common.ContainsAnyTerm(lower, s.heuristics.BoilerplatePhrases)
}

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
		return "", fmt.Errorf("empty summary response")
	}
	return resp.Text(), nil
}

// sanitize strips meta commentary the model sometimes emits despite the
// prompt. A matching phrase removes the rest of its line.
func (s *Service) sanitize(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		lower := strings.ToLower(line)
		cut := len(line)
		for _, phrase := range s.heuristics.MetaPhrases {
			if idx := strings.Index(lower, phrase); idx != -1 && idx < cut {
				cut = idx
			}
		}
		trimmed := strings.TrimRight(line[:cut], " ")
		if cut < len(line) && trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// heuristicSummary is the deterministic three-paragraph fallback returned
// when the model is unavailable. The closing paragraph embeds a short source
// snippet when context exists.
func (s *Service) heuristicSummary(contextText string) string {
	snippet := contextText
	if len(snippet) > 600 {
		snippet = snippet[:600]
	}

	para1 := "This module provides a clear, end-to-end narrative that introduces the core idea, situates it in real projects, and frames why it matters now. You will first connect the concept to familiar problems, then unpack the building blocks and mental models that make it practical. Along the way, we clarify terminology and dispel common misconceptions so you can think about the topic with precision."
	para2 := "We then transition into the workflow you will actually use: how to set things up, what decisions to make at each step, and how to evaluate trade-offs. Short, concrete examples show how the pieces fit together, and we call out subtle details that typically trip learners up. Where relevant, we highlight performance, reliability, and maintainability considerations that distinguish a quick demo from production-grade work."
	para3 := "By the end, you should be able to explain the concept to others, implement it confidently in a small project, and identify the next areas to deepen your skill."
	if snippet != "" {
		short := snippet
		ellipsis := ""
		if len(short) > 200 {
			short = short[:200]
			ellipsis = "..."
		}
		para3 = fmt.Sprintf("%s Key ideas emphasized here are grounded in the following source material: %q.", para3, short+ellipsis)
	}

	return strings.Join([]string{para1, "", para2, "", para3}, "\n")
}

func orPlaceholder(text string) string {
	if text == "" {
		return "(empty)"
	}
	return text
}

// isDegradable reports whether an error should degrade to the heuristic
// summary rather than surface as a hard failure.
func isDegradable(err error) bool {
	if llm.IsRateLimitError(err) || llm.IsOverloadedError(err) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "Internal Server Error")
}
