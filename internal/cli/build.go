package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/biokg/biokg/internal/model"
	"github.com/biokg/biokg/internal/pipeline"
)

var (
	email        string
	ncbiKey      string
	maxResults   int
	outputDir    string
	exclude      []string
	depth        int
	workers      int
	sequential   bool
	noCache      bool
	buildTimeout time.Duration

	llmProvider    string
	llmModel       string
	llmBaseURL     string
	embeddingModel string
	simThreshold   float64
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build <keyword>",
	Short: "Build a knowledge graph for a search keyword",
	Long: `Build runs the full pipeline for one keyword:
- Search PubMed abstracts matching the keyword
- Extract causal entity pairs from each abstract with an LLM
- Merge near-duplicate entity names
- Assemble the network and its keyword-centered neighborhood
- Generate an analysis report with an AI summary

Example:
  biokg build "breast cancer" --email you@example.org
  biokg build BRCA1 --max-results 50 --depth 2 --exclude cell,patient
  biokg build BRCA1 --provider deepseek --base-url https://api.deepseek.com/v1`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	// PubMed flags
	buildCmd.Flags().StringVar(&email, "email", "", "contact email for NCBI E-utilities (required)")
	buildCmd.Flags().StringVar(&ncbiKey, "api-key", "", "NCBI API key (raises the rate limit)")
	buildCmd.Flags().IntVar(&maxResults, "max-results", 0, "max articles to retrieve (default from config)")

	// Processing flags
	buildCmd.Flags().IntVar(&workers, "workers", 0, "concurrent LLM workers (default from config)")
	buildCmd.Flags().BoolVar(&sequential, "sequential", false, "analyze abstracts one at a time")
	buildCmd.Flags().Float64Var(&simThreshold, "similarity-threshold", 0, "Jaccard threshold for entity merging (default from config)")
	buildCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 30*time.Minute, "overall build timeout")

	// Graph flags
	buildCmd.Flags().StringSliceVar(&exclude, "exclude", nil, "drop entities containing any of these substrings")
	buildCmd.Flags().IntVar(&depth, "depth", 1, "neighbor-expansion hops around the keyword")

	// LLM flags
	buildCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, deepseek, ollama)")
	buildCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
	buildCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "LLM endpoint base URL")
	buildCmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "embedding model for entity similarity (optional)")

	// Output flags
	buildCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory for artifacts")
}

func runBuild(cmd *cobra.Command, args []string) error {
	keyword := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Building knowledge graph: %s\n", keyword)
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	builder, err := pipeline.NewBuilder(cfg)
	if err != nil {
		return err
	}

	result := builder.Build(ctx, pipeline.BuildOptions{
		Keyword:    keyword,
		MaxResults: maxResults,
		Exclude:    exclude,
		Depth:      depth,
	})

	if result.Error != "" {
		return fmt.Errorf("build incomplete: %s", result.Error)
	}

	fmt.Fprintf(os.Stderr, "\n✓ Build complete (%d artifacts in %s)\n", len(result.Files), cfg.Output.Dir)
	return nil
}

// loadConfig builds the effective configuration: defaults overlaid
// with the config file viper discovered, then environment fallbacks.
// Flags are applied afterwards by applyFlags.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if cfg.PubMed.Email == "" {
		cfg.PubMed.Email = os.Getenv("BIOKG_EMAIL")
	}
	if cfg.PubMed.APIKey == "" {
		cfg.PubMed.APIKey = os.Getenv("NCBI_API_KEY")
	}

	return cfg, nil
}

// applyFlags overlays CLI flags onto the configuration and resolves
// the LLM credential from the environment when nothing else set it
func applyFlags(cfg *model.Config) {
	if email != "" {
		cfg.PubMed.Email = email
	}
	if ncbiKey != "" {
		cfg.PubMed.APIKey = ncbiKey
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if workers > 0 {
		cfg.Processing.Workers = workers
	}
	if sequential {
		cfg.Processing.Parallel = false
	}
	if simThreshold > 0 {
		cfg.Processing.SimilarityThreshold = simThreshold
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if llmBaseURL != "" {
		cfg.LLM.BaseURL = llmBaseURL
	}
	if embeddingModel != "" {
		cfg.Embedding.Model = embeddingModel
	}
	cfg.Output.Verbose = verbose

	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "deepseek":
			cfg.LLM.APIKey = os.Getenv("DEEPSEEK_API_KEY")
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
				cfg.LLM.BaseURL = baseURL
			}
		default:
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("BIOKG_API_KEY")
	}
}
