package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/discere/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Search      SearchConfig    `toml:"search"`
	YouTube     YouTubeConfig   `toml:"youtube"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Pipeline    PipelineConfig  `toml:"pipeline"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// SearchConfig contains configuration for the web resource fetcher
type SearchConfig struct {
	Concurrency   int    `toml:"concurrency"`    // Concurrent query variants (default: 4)
	OverallBudget string `toml:"overall_budget"` // Wall-clock budget across all variants (default: "12s")
	CallTimeout   string `toml:"call_timeout"`   // Per-call HTTP timeout (default: "6s")
	Region        string `toml:"region"`         // Search region hint (default: "us-en")
	UserAgent     string `toml:"user_agent"`     // User agent for HTML strategies
}

// YouTubeConfig contains YouTube Data API configuration
type YouTubeConfig struct {
	APIKey         string `toml:"api_key"`         // YouTube Data API key
	RateLimit      int    `toml:"rate_limit"`      // Requests per second (default: 5)
	RequestTimeout string `toml:"request_timeout"` // HTTP request timeout (default: "6s")
	Region         string `toml:"region"`          // Region code for search (default: "US")
	Language       string `toml:"language"`        // Relevance language (default: "en")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`         // Google Gemini API key
	Model          string  `toml:"model"`           // Chat model (default: "gemini-2.0-flash")
	EmbedModel     string  `toml:"embed_model"`     // Embedding model (default: "gemini-embedding-001")
	EmbedDimension int     `toml:"embed_dimension"` // Embedding output dimensionality (default: 768)
	Timeout        string  `toml:"timeout"`         // Operation timeout as duration string (default: "2m")
	Temperature    float32 `toml:"temperature"`     // Chat completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for chat operations
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// PipelineConfig contains course pipeline limits
type PipelineConfig struct {
	MaxVideos         int `toml:"max_videos"`         // Videos kept per module (default: 3)
	MaxResources      int `toml:"max_resources"`      // Resources kept per module (default: 10)
	ModuleConcurrency int `toml:"module_concurrency"` // Concurrent module enrichment (default: 4)
	SummaryMinWords   int `toml:"summary_min_words"`  // Quality gate for summaries (default: 350)
}

// SchedulerConfig contains stale-course refresh configuration
type SchedulerConfig struct {
	Enabled    bool   `toml:"enabled"`     // Disabled by default
	Schedule   string `toml:"schedule"`    // Cron schedule (default: "0 */6 * * *")
	StaleAfter string `toml:"stale_after"` // Courses older than this are re-enriched (default: "168h")
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in discere.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Search: SearchConfig{
			Concurrency:   4,
			OverallBudget: "12s",
			CallTimeout:   "6s",
			Region:        "us-en",
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		YouTube: YouTubeConfig{
			APIKey:         "", // User must provide API key
			RateLimit:      5,
			RequestTimeout: "6s",
			Region:         "US",
			Language:       "en",
		},
		Gemini: GeminiConfig{
			APIKey:         "", // User must provide API key
			Model:          "gemini-2.0-flash",
			EmbedModel:     "gemini-embedding-001",
			EmbedDimension: 768,
			Timeout:        "2m",
			Temperature:    0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "2m",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Pipeline: PipelineConfig{
			MaxVideos:         3,
			MaxResources:      10,
			ModuleConcurrency: 4,
			SummaryMinWords:   350,
		},
		Scheduler: SchedulerConfig{
			Enabled:    false,
			Schedule:   "0 */6 * * *",
			StaleAfter: "168h",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files.
// Later files override earlier files. Priority: CLI flags > Environment variables >
// Last config file > ... > First config file > Defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DISCERE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("DISCERE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DISCERE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("DISCERE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("DISCERE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("DISCERE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("DISCERE_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Search configuration
	if concurrency := os.Getenv("DISCERE_SEARCH_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil {
			config.Search.Concurrency = c
		}
	}
	if budget := os.Getenv("DISCERE_SEARCH_OVERALL_BUDGET"); budget != "" {
		config.Search.OverallBudget = budget
	}
	if timeout := os.Getenv("DISCERE_SEARCH_CALL_TIMEOUT"); timeout != "" {
		config.Search.CallTimeout = timeout
	}
	if userAgent := os.Getenv("DISCERE_SEARCH_USER_AGENT"); userAgent != "" {
		config.Search.UserAgent = userAgent
	}

	// YouTube configuration
	if apiKey := os.Getenv("DISCERE_YOUTUBE_API_KEY"); apiKey != "" {
		config.YouTube.APIKey = apiKey
	}
	if rateLimit := os.Getenv("DISCERE_YOUTUBE_RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.Atoi(rateLimit); err == nil {
			config.YouTube.RateLimit = rl
		}
	}
	if region := os.Getenv("DISCERE_YOUTUBE_REGION"); region != "" {
		config.YouTube.Region = region
	}

	// Gemini configuration
	if apiKey := os.Getenv("DISCERE_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("DISCERE_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if embedModel := os.Getenv("DISCERE_GEMINI_EMBED_MODEL"); embedModel != "" {
		config.Gemini.EmbedModel = embedModel
	}
	if dim := os.Getenv("DISCERE_GEMINI_EMBED_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil {
			config.Gemini.EmbedDimension = d
		}
	}
	if timeout := os.Getenv("DISCERE_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if temperature := os.Getenv("DISCERE_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("DISCERE_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // DISCERE_ prefix takes priority
	}
	if model := os.Getenv("DISCERE_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("DISCERE_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("DISCERE_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}

	// LLM provider configuration
	if provider := os.Getenv("DISCERE_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Pipeline configuration
	if maxVideos := os.Getenv("DISCERE_PIPELINE_MAX_VIDEOS"); maxVideos != "" {
		if mv, err := strconv.Atoi(maxVideos); err == nil {
			config.Pipeline.MaxVideos = mv
		}
	}
	if maxResources := os.Getenv("DISCERE_PIPELINE_MAX_RESOURCES"); maxResources != "" {
		if mr, err := strconv.Atoi(maxResources); err == nil {
			config.Pipeline.MaxResources = mr
		}
	}

	// Scheduler configuration
	if enabled := os.Getenv("DISCERE_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if schedule := os.Getenv("DISCERE_SCHEDULER_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}
	if staleAfter := os.Getenv("DISCERE_SCHEDULER_STALE_AFTER"); staleAfter != "" {
		config.Scheduler.StaleAfter = staleAfter
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables -> KV store -> config fallback -> error.
// This ensures DISCERE_* environment variables always take precedence.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"DISCERE_GEMINI_API_KEY"},
		"youtube_api_key":   {"DISCERE_YOUTUBE_API_KEY"},
		"anthropic_api_key": {"DISCERE_CLAUDE_API_KEY"},
		"claude_api_key":    {"DISCERE_CLAUDE_API_KEY"},
	}

	// For Claude, also check the standard ANTHROPIC_API_KEY env var
	if name == "anthropic_api_key" || name == "claude_api_key" {
		if envValue := os.Getenv("ANTHROPIC_API_KEY"); envValue != "" {
			return envValue, nil
		}
	}

	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	// Try to resolve from KV store (medium priority)
	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	// Fallback to config value (lowest priority)
	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
