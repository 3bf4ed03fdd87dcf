package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/biokg/biokg/internal/llm"
	"github.com/biokg/biokg/internal/model"
	"github.com/biokg/biokg/internal/worker"
)

// CausalSystemPrompt instructs the model to emit entity pairs in the
// exact format the pair extractor parses
const CausalSystemPrompt = "You are specialized for analyzing scientific paper abstracts, " +
	"focusing on identifying specific entities related to biological studies, " +
	"such as performance, species, genes, methods of genetic engineering, " +
	"enzymes, proteins, and bioprocess conditions (e.g., growth conditions), " +
	"and determining causal relationships between them. It outputs all possible " +
	"combinations of causal relationships among identified entities in structured pairs. " +
	"The output strictly follows the format: (Entity A, Entity B), with no additional text."

// Analyzer runs the per-abstract causal-extraction stage
type Analyzer struct {
	provider  llm.Provider
	maxTokens int
	workers   int
	parallel  bool
	verbose   bool
}

// NewAnalyzer creates an analyzer over the given provider
func NewAnalyzer(provider llm.Provider, cfg model.ProcessingConfig, maxTokens int, verbose bool) *Analyzer {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 10
	}
	return &Analyzer{
		provider:  provider,
		maxTokens: maxTokens,
		workers:   workers,
		parallel:  cfg.Parallel,
		verbose:   verbose,
	}
}

// AnalyzeAll fills the Causal field of every article. Rows are
// independent: a failed LLM call is logged and leaves an empty result
// for that row only. The input slice is not modified.
func (a *Analyzer) AnalyzeAll(ctx context.Context, articles []model.Article) []model.Article {
	out := make([]model.Article, len(articles))
	copy(out, articles)
	if len(out) == 0 {
		return out
	}

	analyze := func(ctx context.Context, index int) {
		out[index].Causal = a.analyzeOne(ctx, out[index].Abstract, index)
	}

	if a.parallel {
		pool := worker.NewPool(a.workers)
		if a.verbose {
			pool.OnProgress(func(done, total int) {
				fmt.Fprintf(os.Stderr, "Progress: %d/%d abstracts analyzed\n", done, total)
			})
		}
		pool.Run(ctx, len(out), analyze)
	} else {
		for i := range out {
			analyze(ctx, i)
			if a.verbose {
				fmt.Fprintf(os.Stderr, "Progress: %d/%d abstracts analyzed\n", i+1, len(out))
			}
		}
	}
	return out
}

func (a *Analyzer) analyzeOne(ctx context.Context, abstract string, index int) string {
	if abstract == "" {
		return ""
	}

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		System:    CausalSystemPrompt,
		User:      abstract,
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: causal analysis failed for row %d: %v\n", index+1, err)
		return ""
	}
	return resp.Text
}

// Stats summarizes how many rows produced a non-empty extraction
type Stats struct {
	Total       int
	Analyzed    int
	Empty       int
	SuccessRate float64
}

// Statistics computes extraction coverage over the causal column
func Statistics(articles []model.Article) Stats {
	s := Stats{Total: len(articles)}
	for _, a := range articles {
		if a.Causal != "" {
			s.Analyzed++
		}
	}
	s.Empty = s.Total - s.Analyzed
	if s.Total > 0 {
		s.SuccessRate = float64(s.Analyzed) / float64(s.Total) * 100
	}
	return s
}
