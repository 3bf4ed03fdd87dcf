// Package viz renders entity-relationship graphs as interactive HTML
// documents using the ECharts force layout.
package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/biokg/biokg/internal/graph"
	"github.com/biokg/biokg/internal/model"
)

// Renderer writes interactive network visualizations. It is purely a
// sink: nothing feeds back into the pipeline.
type Renderer struct {
	cfg model.NetworkConfig
}

// NewRenderer creates a renderer with the given style options
func NewRenderer(cfg model.NetworkConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// RenderNetwork writes the graph to path as a self-contained HTML
// document. Parallel edges collapse into one weighted link whose
// tooltip value is the number of supporting articles.
func (r *Renderer) RenderNetwork(g *graph.Graph, title, path string) error {
	chart := charts.NewGraph()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           r.cfg.Width,
			Height:          r.cfg.Height,
			BackgroundColor: r.cfg.BgColor,
			PageTitle:       title,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	nodes := make([]opts.GraphNode, 0, g.NodeCount())
	for _, label := range g.Nodes() {
		nodes = append(nodes, opts.GraphNode{
			Name:       label,
			SymbolSize: symbolSize(g.Degree(label)),
		})
	}

	links := make([]opts.GraphLink, 0, len(g.Edges()))
	for _, e := range collapseEdges(g.Edges()) {
		links = append(links, opts.GraphLink{
			Source: e.a,
			Target: e.b,
			Value:  float32(e.count),
		})
	}

	chart.AddSeries("relationships", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout: "force",
			Roam:   opts.Bool(true),
			Force: &opts.GraphForce{
				Repulsion:  8000,
				EdgeLength: 75,
				Gravity:    0.5,
			},
		}),
		charts.WithLabelOpts(opts.Label{
			Show:  opts.Bool(true),
			Color: r.cfg.FontColor,
		}),
	)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

// symbolSize maps a node degree to a bounded marker size
func symbolSize(degree int) float32 {
	size := 10 + 4*degree
	if size > 60 {
		size = 60
	}
	return float32(size)
}

type weightedEdge struct {
	a, b  string
	count int
}

// collapseEdges merges parallel edges into weighted ones, in a
// deterministic order
func collapseEdges(edges []graph.Edge) []weightedEdge {
	counts := make(map[[2]string]int)
	for _, e := range edges {
		key := [2]string{e.A, e.B}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		counts[key]++
	}

	keys := make([][2]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	out := make([]weightedEdge, 0, len(keys))
	for _, k := range keys {
		out = append(out, weightedEdge{a: k[0], b: k[1], count: counts[k]})
	}
	return out
}
