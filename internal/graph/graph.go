// Package graph implements the undirected entity-relationship graph
// built from causal pairs, with degree statistics and keyword-centered
// subgraph extraction.
package graph

import (
	"sort"
	"strings"

	"github.com/biokg/biokg/internal/model"
)

// Edge is one observed relationship with its provenance. Multiple
// edges between the same pair of entities (from different articles)
// are distinct observations.
type Edge struct {
	A      string
	B      string
	Source string // title of the article the pair came from
}

// Graph is an undirected multigraph over entity labels. Statistics
// are computed on the collapsed simple graph; the edge list keeps
// parallel edges for visualization provenance.
type Graph struct {
	adj     map[string]map[string]struct{}
	edges   []Edge
	exclude []string
}

// New creates an empty graph. Triples where either entity contains
// any of the exclude strings (case-sensitive substring match) are
// rejected by AddTriple.
func New(exclude []string) *Graph {
	return &Graph{
		adj:     make(map[string]map[string]struct{}),
		exclude: exclude,
	}
}

// AddTriple adds one observed relationship. It reports false when the
// triple is rejected: an empty entity on either side, or an excluded
// substring match.
func (g *Graph) AddTriple(a, b, source string) bool {
	if a == "" || b == "" {
		return false
	}
	for _, exc := range g.exclude {
		if strings.Contains(a, exc) || strings.Contains(b, exc) {
			return false
		}
	}

	g.ensureNode(a)
	g.ensureNode(b)
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
	g.edges = append(g.edges, Edge{A: a, B: b, Source: source})
	return true
}

func (g *Graph) ensureNode(label string) {
	if _, ok := g.adj[label]; !ok {
		g.adj[label] = make(map[string]struct{})
	}
}

// NodeCount returns the number of distinct entities
func (g *Graph) NodeCount() int {
	return len(g.adj)
}

// Nodes returns all entity labels in lexicographic order
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.adj))
	for n := range g.adj {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// Edges returns every observed relationship, including parallel edges
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Degree returns the number of distinct neighbors of a node
func (g *Graph) Degree(label string) int {
	return len(g.adj[label])
}

// simpleEdgeCount counts distinct node pairs with at least one edge
func (g *Graph) simpleEdgeCount() int {
	count := 0
	for n, neighbors := range g.adj {
		for m := range neighbors {
			if n < m {
				count++
			}
		}
	}
	return count
}

// Stats computes degree statistics on the collapsed simple graph.
// Returns nil for an empty graph. The top-10 ranking is deterministic:
// descending centrality, ascending label on ties.
func (g *Graph) Stats() *model.NetworkStats {
	n := len(g.adj)
	if n == 0 {
		return nil
	}

	edgeCount := g.simpleEdgeCount()

	degreeSum := 0
	ranking := make([]model.NodeDegree, 0, n)
	for _, node := range g.Nodes() {
		degree := len(g.adj[node])
		degreeSum += degree

		centrality := 0.0
		if n > 1 {
			centrality = float64(degree) / float64(n-1)
		}
		ranking = append(ranking, model.NodeDegree{Label: node, Centrality: centrality})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Centrality != ranking[j].Centrality {
			return ranking[i].Centrality > ranking[j].Centrality
		}
		return ranking[i].Label < ranking[j].Label
	})
	if len(ranking) > 10 {
		ranking = ranking[:10]
	}

	density := 0.0
	if n > 1 {
		density = 2 * float64(edgeCount) / float64(n*(n-1))
	}

	return &model.NetworkStats{
		NodeCount:           n,
		EdgeCount:           edgeCount,
		AverageDegree:       float64(degreeSum) / float64(n),
		Density:             density,
		ConnectedComponents: g.componentCount(),
		TopNodesByDegree:    ranking,
	}
}

func (g *Graph) componentCount() int {
	visited := make(map[string]bool, len(g.adj))
	components := 0

	for node := range g.adj {
		if visited[node] {
			continue
		}
		components++

		queue := []string{node}
		visited[node] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for neighbor := range g.adj[current] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
	}
	return components
}

// Subgraph extracts the node-induced subgraph reachable within depth
// hops from any node whose label contains keyword (case-insensitive).
// depth 0 returns exactly the seed nodes. No matching labels returns
// an empty graph; callers treat that as "no results".
//
// The result contains every parent edge between included nodes, not
// just edges traversed during expansion.
func (g *Graph) Subgraph(keyword string, depth int) *Graph {
	lower := strings.ToLower(keyword)

	included := make(map[string]struct{})
	for node := range g.adj {
		if strings.Contains(strings.ToLower(node), lower) {
			included[node] = struct{}{}
		}
	}

	sub := New(nil)
	if len(included) == 0 {
		return sub
	}

	for i := 0; i < depth; i++ {
		expansion := make([]string, 0)
		for node := range included {
			for neighbor := range g.adj[node] {
				if _, ok := included[neighbor]; !ok {
					expansion = append(expansion, neighbor)
				}
			}
		}
		for _, node := range expansion {
			included[node] = struct{}{}
		}
	}

	// Isolated seeds keep their node even with no induced edges
	for node := range included {
		sub.ensureNode(node)
	}
	for _, e := range g.edges {
		if _, okA := included[e.A]; !okA {
			continue
		}
		if _, okB := included[e.B]; !okB {
			continue
		}
		sub.edges = append(sub.edges, e)
		sub.adj[e.A][e.B] = struct{}{}
		sub.adj[e.B][e.A] = struct{}{}
	}
	return sub
}
