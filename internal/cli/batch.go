package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/biokg/biokg/internal/pipeline"
	"github.com/biokg/biokg/internal/worker"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Build knowledge graphs for multiple keywords from a file",
	Long: `Batch runs the full pipeline for every keyword in the input file
(one keyword per line, blank lines and #-comments ignored). Keywords
are processed in parallel; each produces its own artifact set in the
output directory.

Example:
  biokg batch keywords.txt --email you@example.org
  biokg batch keywords.txt --concurrency 3 --output-dir ./graphs`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "number of keywords processed in parallel")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 4*time.Hour, "total timeout for batch processing")

	batchCmd.Flags().StringVar(&email, "email", "", "contact email for NCBI E-utilities (required)")
	batchCmd.Flags().StringVar(&ncbiKey, "api-key", "", "NCBI API key (raises the rate limit)")
	batchCmd.Flags().IntVar(&maxResults, "max-results", 0, "max articles to retrieve per keyword")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent LLM workers per keyword")
	batchCmd.Flags().StringSliceVar(&exclude, "exclude", nil, "drop entities containing any of these substrings")
	batchCmd.Flags().IntVar(&depth, "depth", 1, "neighbor-expansion hops around each keyword")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	batchCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, deepseek, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
	batchCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "LLM endpoint base URL")
	batchCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory for artifacts")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	keywords, err := readKeywords(file)
	if err != nil {
		return err
	}
	if len(keywords) == 0 {
		return fmt.Errorf("no keywords found in %s", file)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	fmt.Fprintf(os.Stderr, "Batch build: %d keywords, %d in parallel\n\n", len(keywords), batchConcurrency)

	builder, err := pipeline.NewBuilder(cfg)
	if err != nil {
		return err
	}

	failures := make([]string, len(keywords))
	pool := worker.NewPool(batchConcurrency)
	pool.OnProgress(func(done, total int) {
		fmt.Fprintf(os.Stderr, "Progress: %d/%d keywords\n", done, total)
	})

	pool.Run(ctx, len(keywords), func(ctx context.Context, i int) {
		result := builder.Build(ctx, pipeline.BuildOptions{
			Keyword:    keywords[i],
			MaxResults: maxResults,
			Exclude:    exclude,
			Depth:      depth,
		})
		failures[i] = result.Error
	})

	failed := 0
	for i, msg := range failures {
		if msg != "" {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", keywords[i], msg)
		}
	}

	fmt.Fprintf(os.Stderr, "\n✓ Batch complete: %d succeeded, %d failed\n", len(keywords)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d keywords failed", failed, len(keywords))
	}
	return nil
}

// readKeywords parses the input file: one keyword per line, blank
// lines and #-comments skipped
func readKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyword file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var keywords []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keywords = append(keywords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keyword file: %w", err)
	}
	return keywords, nil
}
