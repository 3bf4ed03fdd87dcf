package model

import "time"

// BuildResult is the machine-readable summary of a knowledge-graph build.
// It is written as {keyword}_results.json and always contains whatever
// the pipeline produced before any failure.
type BuildResult struct {
	Keyword     string            `json:"keyword"`
	GeneratedAt time.Time         `json:"generated_at"`
	Files       map[string]string `json:"files"`
	Statistics  Statistics        `json:"statistics"`
	Entities    []string          `json:"entities,omitempty"`
	NodeNames   []string          `json:"node_names,omitempty"`
	AISummary   string            `json:"ai_summary,omitempty"`

	// Error is set when a pipeline stage failed; earlier artifacts are
	// still listed in Files.
	Error string `json:"error,omitempty"`
}

// Statistics aggregates per-stage counters
type Statistics struct {
	TotalArticles  int           `json:"total_articles"`
	TotalEntities  int           `json:"total_entities"`
	UniqueEntities int           `json:"unique_entities"`
	Network        *NetworkStats `json:"network_stats,omitempty"`
}

// NetworkStats describes the collapsed simple graph built from all
// causal pairs
type NetworkStats struct {
	NodeCount           int          `json:"node_count"`
	EdgeCount           int          `json:"edge_count"`
	AverageDegree       float64      `json:"average_degree"`
	Density             float64      `json:"density"`
	ConnectedComponents int          `json:"connected_components"`
	TopNodesByDegree    []NodeDegree `json:"top_10_nodes_by_degree"`
}

// NodeDegree is one entry of the degree-centrality ranking
type NodeDegree struct {
	Label      string  `json:"label"`
	Centrality float64 `json:"centrality"`
}
