package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/biokg/biokg/internal/cache"
	"github.com/biokg/biokg/internal/dataset"
	"github.com/biokg/biokg/internal/pipeline"
	"github.com/biokg/biokg/internal/pubmed"
)

var searchTimeout time.Duration

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search PubMed and save abstracts without building a graph",
	Long: `Search retrieves PubMed abstracts matching the keyword and saves
them as an xlsx dataset. No LLM is involved; this is useful for
inspecting the corpus before committing to a full build.

Example:
  biokg search BRCA1 --email you@example.org --max-results 50`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&email, "email", "", "contact email for NCBI E-utilities (required)")
	searchCmd.Flags().StringVar(&ncbiKey, "api-key", "", "NCBI API key (raises the rate limit)")
	searchCmd.Flags().IntVar(&maxResults, "max-results", 0, "max articles to retrieve (default from config)")
	searchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 5*time.Minute, "overall search timeout")
	searchCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory for artifacts")
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	var store cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = filepath.Join(home, ".biokg", "cache")
		}
		store = cache.NewLayeredCache(cfg.Cache.TTL, dir, cfg.Cache.TTL)
	}

	client, err := pubmed.NewClient(cfg.PubMed, store)
	if err != nil {
		return err
	}

	max := maxResults
	if max <= 0 {
		max = cfg.PubMed.MaxResults
	}

	articles, err := client.Search(ctx, keyword, max)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	path := searchResultsPath(cfg.Output.Dir, keyword)
	if err := dataset.Write(path, articles); err != nil {
		return fmt.Errorf("save search results: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Saved %d articles to %s\n", len(articles), path)
	return nil
}

// searchResultsPath matches the filename the full pipeline uses for
// its search stage, keyword slugged the same way
func searchResultsPath(dir, keyword string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_pubmed_search_results.xlsx", pipeline.Slug(keyword)))
}
