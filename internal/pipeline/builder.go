// Package pipeline orchestrates the knowledge-graph build: search,
// causal analysis, entity processing, graph construction, and
// reporting.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/biokg/biokg/internal/cache"
	"github.com/biokg/biokg/internal/dataset"
	"github.com/biokg/biokg/internal/dedup"
	"github.com/biokg/biokg/internal/extract"
	"github.com/biokg/biokg/internal/graph"
	"github.com/biokg/biokg/internal/llm"
	"github.com/biokg/biokg/internal/model"
	"github.com/biokg/biokg/internal/pubmed"
	"github.com/biokg/biokg/internal/report"
	"github.com/biokg/biokg/internal/viz"
)

// Builder wires the pipeline stages together
type Builder struct {
	cfg       *model.Config
	searcher  *pubmed.Client
	provider  llm.Provider
	analyzer  *extract.Analyzer
	dedup     *dedup.Deduplicator
	renderer  *viz.Renderer
	generator *report.Generator
}

// NewBuilder validates the configuration and constructs every stage.
// All configuration errors surface here, before any network call.
func NewBuilder(cfg *model.Config) (*Builder, error) {
	var store cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = filepath.Join(home, ".biokg", "cache")
		}
		store = cache.NewLayeredCache(cfg.Cache.TTL, dir, cfg.Cache.TTL)
	}

	searcher, err := pubmed.NewClient(cfg.PubMed, store)
	if err != nil {
		return nil, fmt.Errorf("pubmed: %w", err)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	embedder, err := llm.NewEmbedder(cfg.Embedding, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	return &Builder{
		cfg:       cfg,
		searcher:  searcher,
		provider:  provider,
		analyzer:  extract.NewAnalyzer(provider, cfg.Processing, cfg.LLM.ExtractionMaxTokens, cfg.Output.Verbose),
		dedup:     dedup.New(cfg.Processing.SimilarityThreshold, embedder),
		renderer:  viz.NewRenderer(cfg.Network),
		generator: report.NewGenerator(provider, cfg.LLM, cfg.Processing),
	}, nil
}

// BuildOptions are the per-invocation parameters
type BuildOptions struct {
	Keyword    string
	MaxResults int
	Exclude    []string // entities containing any of these substrings are dropped
	Depth      int      // neighbor-expansion hops around the keyword
}

// Build runs the full pipeline. It never returns an error: stage
// failures are recorded in the result's Error field and whatever was
// produced up to that point is kept, on disk and in the result.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) *model.BuildResult {
	result := &model.BuildResult{
		Keyword:     opts.Keyword,
		GeneratedAt: time.Now().UTC(),
		Files:       make(map[string]string),
	}

	if err := b.run(ctx, opts, result); err != nil {
		result.Error = err.Error()
		fmt.Fprintf(os.Stderr, "✗ Pipeline error: %v\n", err)
	}

	// The JSON summary is written even after a stage failure so
	// partial results stay inspectable
	jsonPath := b.artifactPath("%s_results.json", opts.Keyword)
	if err := report.WriteJSON(result, jsonPath); err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to write results JSON: %v\n", err)
	} else {
		result.Files["json_results"] = jsonPath
	}

	return result
}

func (b *Builder) run(ctx context.Context, opts BuildOptions, result *model.BuildResult) error {
	verbose := b.cfg.Output.Verbose

	// 1. Literature search
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = b.cfg.PubMed.MaxResults
	}
	articles, err := b.searcher.Search(ctx, opts.Keyword, maxResults)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	result.Statistics.TotalArticles = len(articles)

	searchPath := b.artifactPath("%s_pubmed_search_results.xlsx", opts.Keyword)
	if err := dataset.Write(searchPath, articles); err != nil {
		return fmt.Errorf("save search results: %w", err)
	}
	result.Files["search_results"] = searchPath

	if len(articles) == 0 {
		fmt.Fprintf(os.Stderr, "No articles found for '%s'\n", opts.Keyword)
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Retrieved %d articles\n", len(articles))
	}

	// 2. Causal analysis
	analyzed := b.analyzer.AnalyzeAll(ctx, articles)
	causalPath := b.artifactPath("updated_%s_causal.xlsx", opts.Keyword)
	if err := dataset.Write(causalPath, analyzed); err != nil {
		return fmt.Errorf("save causal analysis: %w", err)
	}
	result.Files["causal_analysis"] = causalPath

	if verbose {
		stats := extract.Statistics(analyzed)
		fmt.Fprintf(os.Stderr, "✓ Analyzed %d/%d abstracts (%.1f%%)\n", stats.Analyzed, stats.Total, stats.SuccessRate)
	}

	// 3. Entity normalization
	entities := extract.Entities(analyzed)
	canon, err := b.dedup.CanonicalMap(ctx, entities)
	if err != nil {
		return fmt.Errorf("deduplicate entities: %w", err)
	}
	processed := dedup.Substitute(analyzed, canon)
	finalEntities := extract.Entities(processed)

	processedPath := b.artifactPath("processed_%s.xlsx", opts.Keyword)
	if err := dataset.Write(processedPath, processed); err != nil {
		return fmt.Errorf("save processed data: %w", err)
	}
	result.Files["processed_data"] = processedPath
	result.Entities = finalEntities
	result.Statistics.TotalEntities = len(entities)
	result.Statistics.UniqueEntities = len(finalEntities)

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Merged %d near-duplicate entities (%d unique)\n", len(canon), len(finalEntities))
	}

	// 4. Graph construction and querying
	full := buildGraph(processed, nil)
	result.Statistics.Network = full.Stats()

	fullPath := b.artifactPath("%s_full_network.html", opts.Keyword)
	if err := b.renderer.RenderNetwork(full, opts.Keyword+" knowledge graph", fullPath); err != nil {
		return fmt.Errorf("render full network: %w", err)
	}
	result.Files["full_network"] = fullPath

	filtered := buildGraph(processed, opts.Exclude).Subgraph(opts.Keyword, opts.Depth)
	result.NodeNames = filtered.Nodes()

	if filtered.NodeCount() == 0 {
		fmt.Fprintf(os.Stderr, "No nodes found for '%s'\n", opts.Keyword)
	} else {
		filteredPath := b.artifactPath("%s_filtered_%s_network.html", opts.Keyword, opts.Keyword)
		if err := b.renderer.RenderNetwork(filtered, opts.Keyword+" neighborhood", filteredPath); err != nil {
			return fmt.Errorf("render filtered network: %w", err)
		}
		result.Files["filtered_network"] = filteredPath
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Built network (%d nodes, %d relationship observations)\n", full.NodeCount(), len(full.Edges()))
	}

	// 5. Reporting
	result.AISummary = b.generator.Summary(ctx, result.NodeNames, opts.Keyword)

	reportPath := b.artifactPath("%s_analysis_report.md", opts.Keyword)
	if err := report.WriteMarkdown(result, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	result.Files["report"] = reportPath

	return nil
}

// buildGraph turns every causal pair of every article into graph
// triples with the article title as provenance
func buildGraph(articles []model.Article, exclude []string) *graph.Graph {
	g := graph.New(exclude)
	for _, a := range articles {
		source := a.Title
		if source == "" {
			source = "Unknown"
		}
		for _, p := range extract.Pairs(a.Causal) {
			g.AddTriple(p.A, p.B, source)
		}
	}
	return g
}

// artifactPath renders a keyword-based filename template inside the
// output directory
func (b *Builder) artifactPath(pattern string, keywords ...string) string {
	args := make([]interface{}, len(keywords))
	for i, k := range keywords {
		args[i] = Slug(k)
	}
	return filepath.Join(b.cfg.Output.Dir, fmt.Sprintf(pattern, args...))
}

// Slug makes a keyword safe to embed in a filename
func Slug(s string) string {
	return strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	).Replace(s)
}
