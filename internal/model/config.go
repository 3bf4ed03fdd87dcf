package model

import "time"

// Config holds the complete biokg configuration
type Config struct {
	PubMed     PubMedConfig     `yaml:"pubmed"`
	LLM        LLMConfig        `yaml:"llm"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Processing ProcessingConfig `yaml:"processing"`
	Network    NetworkConfig    `yaml:"network"`
	Cache      CacheConfig      `yaml:"cache"`
	Output     OutputConfig     `yaml:"output"`
}

// PubMedConfig configures the NCBI E-utilities client
type PubMedConfig struct {
	// Email is required by NCBI's usage policy and identifies the caller
	Email string `yaml:"email"`

	// APIKey is an optional NCBI API key (raises the rate limit to 10 req/s)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for E-utilities (override for testing)
	BaseURL string `yaml:"base_url,omitempty"`

	// MaxResults caps the number of PMIDs retrieved per search
	MaxResults int `yaml:"max_results"`

	// Timeout for individual HTTP requests
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerSecond for NCBI politeness (3 anonymous, 10 with API key)
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// LLMConfig configures the chat-completion provider
type LLMConfig struct {
	// Provider name: "openai" (any OpenAI-compatible endpoint) or "ollama"
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for OpenAI-compatible endpoints
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (DeepSeek, Ollama, proxies)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout in seconds for a single completion call
	Timeout int `yaml:"timeout"`

	// ExtractionMaxTokens limits causal-extraction responses
	ExtractionMaxTokens int `yaml:"extraction_max_tokens"`

	// SummaryMaxTokens limits report-summary responses
	SummaryMaxTokens int `yaml:"summary_max_tokens"`
}

// EmbeddingConfig configures the optional embedding model used for
// entity deduplication. An empty Model disables embeddings and falls
// back to string similarity.
type EmbeddingConfig struct {
	Model   string `yaml:"model,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// ProcessingConfig configures entity processing and the analysis worker pool
type ProcessingConfig struct {
	// SimilarityThreshold above which two entities are judged duplicates
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// Workers is the worker-pool size for parallel abstract analysis
	Workers int `yaml:"workers"`

	// Parallel toggles the worker pool; false analyzes row by row
	Parallel bool `yaml:"parallel"`

	// MaxSummaryEntities caps how many node names are sent to the
	// summary prompt
	MaxSummaryEntities int `yaml:"max_summary_entities"`
}

// NetworkConfig styles the interactive HTML network visualizations
type NetworkConfig struct {
	Height    string `yaml:"height"`
	Width     string `yaml:"width"`
	BgColor   string `yaml:"bg_color"`
	FontColor string `yaml:"font_color"`
}

// CacheConfig configures caching of E-utilities responses
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir,omitempty"`
	TTL     time.Duration `yaml:"ttl"`
}

// OutputConfig configures artifact output
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		PubMed: PubMedConfig{
			MaxResults:        200,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 3,
			BurstSize:         3,
		},
		LLM: LLMConfig{
			Provider:            "openai",
			Model:               "gpt-4o-mini",
			Timeout:             60,
			ExtractionMaxTokens: 2000,
			SummaryMaxTokens:    2048,
		},
		Processing: ProcessingConfig{
			SimilarityThreshold: 0.8,
			Workers:             10,
			Parallel:            true,
			MaxSummaryEntities:  1000,
		},
		Network: NetworkConfig{
			Height:    "2160px",
			Width:     "100%",
			BgColor:   "#222222",
			FontColor: "white",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			Dir: "output",
		},
	}
}
