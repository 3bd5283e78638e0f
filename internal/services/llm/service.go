package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/interfaces"
	"google.golang.org/genai"
)

// Service implements the LLMService interface on top of the provider factory.
// Embeddings always go through Gemini; chat completions route by model name.
type Service struct {
	factory      *ProviderFactory
	geminiConfig *common.GeminiConfig
	logger       arbor.ILogger
	timeout      time.Duration
	retryConfig  *GeminiRetryConfig
}

// NewService creates a new LLM service instance
func NewService(factory *ProviderFactory, geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*Service, error) {
	if factory == nil {
		return nil, fmt.Errorf("provider factory is required")
	}

	timeout := 2 * time.Minute
	if geminiConfig.Timeout != "" {
		parsed, err := time.ParseDuration(geminiConfig.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid gemini timeout %q: %w", geminiConfig.Timeout, err)
		}
		timeout = parsed
	}

	return &Service{
		factory:      factory,
		geminiConfig: geminiConfig,
		logger:       logger,
		timeout:      timeout,
		retryConfig:  NewDefaultRetryConfig(),
	}, nil
}

// Embed generates an embedding vector for the given text using the configured
// Gemini embedding model. Empty or whitespace-only input yields an empty
// vector with no error, so callers embedding sparse metadata never fail.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return []float32{}, nil
	}

	client, err := s.factory.GetGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	outputDim := int32(s.geminiConfig.EmbedDimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	var result *genai.EmbedContentResponse
	var apiErr error

	for attempt := 0; attempt <= s.retryConfig.MaxRetries; attempt++ {
		result, apiErr = client.Models.EmbedContent(ctx, s.geminiConfig.EmbedModel, contents, embeddingConfig)
		if apiErr == nil {
			break
		}

		if attempt == s.retryConfig.MaxRetries || !IsRateLimitError(apiErr) {
			break
		}

		backoff := s.retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		s.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying embedding generation")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", apiErr)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}
	if embedding == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}

	if len(embedding) != s.geminiConfig.EmbedDimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.geminiConfig.EmbedDimension, len(embedding))
	}

	return embedding, nil
}

// Chat generates a completion response based on the conversation history.
// The provider is selected from the default model configured for the factory.
func (s *Service) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.factory.GenerateContent(ctx, &ContentRequest{
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// HealthCheck verifies the LLM service is operational by confirming an API
// client can be constructed. No billable call is made.
func (s *Service) HealthCheck(ctx context.Context) error {
	_, err := s.factory.GetGeminiClient(ctx)
	if err != nil {
		return fmt.Errorf("LLM health check failed: %w", err)
	}
	return nil
}

// GetMode returns the current operational mode of the LLM service
func (s *Service) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

// Close releases resources and performs cleanup operations
func (s *Service) Close() error {
	s.logger.Info().Msg("Closing LLM service")
	return s.factory.Close()
}

// Factory exposes the underlying provider factory for services that build
// their own ContentRequest (structured output, custom temperature).
func (s *Service) Factory() *ProviderFactory {
	return s.factory
}
