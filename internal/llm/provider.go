package llm

import (
	"context"

	"github.com/biokg/biokg/internal/model"
)

// Provider defines the interface for chat-completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one chat completion and returns the generated text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Embedder computes fixed-size vector embeddings for a batch of
// strings. It is optional: when no embedding model is configured the
// deduplication stage falls back to string similarity.
type Embedder interface {
	// Embed returns one vector per input string, in input order
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// CompletionRequest contains the input for a single chat completion
type CompletionRequest struct {
	// System is the fixed system prompt
	System string

	// User is the per-call user message (an abstract, an entity list)
	User string

	// Model overrides the configured model when non-empty
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompletionResponse contains the generated text
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai" (any OpenAI-compatible endpoint), "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL for custom endpoints (DeepSeek, Ollama, proxies)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider: mc.Provider,
		Model:    mc.Model,
		APIKey:   mc.APIKey,
		BaseURL:  mc.BaseURL,
		Timeout:  mc.Timeout,
	}
}
