// Package report produces the human-readable Markdown report and the
// machine-readable JSON results summary.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/biokg/biokg/internal/llm"
	"github.com/biokg/biokg/internal/model"
)

// SummarySystemPrompt frames the summary request
const SummarySystemPrompt = "You are a professional biomedical research analyst."

// Generator builds reports, optionally asking an LLM to summarize the
// filtered entity set
type Generator struct {
	provider    llm.Provider
	maxTokens   int
	maxEntities int
}

// NewGenerator creates a report generator. provider may be the same
// instance used for causal analysis.
func NewGenerator(provider llm.Provider, llmCfg model.LLMConfig, procCfg model.ProcessingConfig) *Generator {
	maxEntities := procCfg.MaxSummaryEntities
	if maxEntities <= 0 {
		maxEntities = 1000
	}
	return &Generator{
		provider:    provider,
		maxTokens:   llmCfg.SummaryMaxTokens,
		maxEntities: maxEntities,
	}
}

// Summary asks the LLM to categorize and summarize the entity list.
// Failures degrade to a fixed message; they never abort the build.
func (g *Generator) Summary(ctx context.Context, nodeNames []string, keyword string) string {
	if len(nodeNames) == 0 {
		return "No relevant nodes found."
	}

	entities := nodeNames
	truncated := false
	if len(entities) > g.maxEntities {
		entities = entities[:g.maxEntities]
		truncated = true
	}

	entityText := strings.Join(entities, ", ")
	if truncated {
		entityText += "..."
	}

	prompt := fmt.Sprintf(
		"List of biomedical entities related to '%s':\n%s\n\n"+
			"Please categorize these entities and write a brief summary including: "+
			"key findings, entity categories, and research significance.",
		keyword, entityText)

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:    SummarySystemPrompt,
		User:      prompt,
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: summary generation failed: %v\n", err)
		return "Failed to generate summary."
	}
	return resp.Text
}

// WriteMarkdown renders the analysis report to path
func WriteMarkdown(result *model.BuildResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Knowledge Graph Analysis Report\n\n", result.Keyword)
	fmt.Fprintf(&b, "## Generated: %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## Overview\n")
	fmt.Fprintf(&b, "- Articles retrieved: %d\n", result.Statistics.TotalArticles)
	fmt.Fprintf(&b, "- Total entities: %d\n", result.Statistics.TotalEntities)
	fmt.Fprintf(&b, "- Unique entities: %d\n\n", result.Statistics.UniqueEntities)

	fmt.Fprintf(&b, "## Network Analysis\n")
	if net := result.Statistics.Network; net != nil {
		fmt.Fprintf(&b, "- Nodes: %d\n", net.NodeCount)
		fmt.Fprintf(&b, "- Edges: %d\n", net.EdgeCount)
		fmt.Fprintf(&b, "- Density: %.4f\n\n", net.Density)

		fmt.Fprintf(&b, "## Top Entities\n")
		for i, node := range net.TopNodesByDegree {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "%d. %s (score: %.4f)\n", i+1, node.Label, node.Centrality)
		}
	} else {
		fmt.Fprintf(&b, "- No network was built\n")
	}

	summary := result.AISummary
	if summary == "" {
		summary = "None"
	}
	fmt.Fprintf(&b, "\n## AI Summary\n%s\n", summary)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// WriteJSON renders the machine-readable results summary to path
func WriteJSON(result *model.BuildResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
