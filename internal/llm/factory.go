package llm

import (
	"fmt"
	"strings"

	"github.com/biokg/biokg/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai", "deepseek":
		// DeepSeek and other compatible vendors go through the same
		// client with a custom BaseURL
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, fmt.Errorf("no LLM provider configured")

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, deepseek, ollama)", config.Provider)
	}
}

// NewEmbedder creates the optional embedder from configuration.
// Returns (nil, nil) when no embedding model is configured; callers
// fall back to string similarity.
func NewEmbedder(cfg model.EmbeddingConfig, llmCfg model.LLMConfig) (Embedder, error) {
	if cfg.Model == "" {
		return nil, nil
	}

	// Embedding credentials default to the chat credentials
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = llmCfg.APIKey
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = llmCfg.BaseURL
	}

	return NewOpenAIEmbedder(apiKey, baseURL, cfg.Model)
}
