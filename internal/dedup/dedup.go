// Package dedup merges near-duplicate entity labels produced by
// free-form LLM extraction ("NF-kB" vs "NF-kB signaling") into a
// canonical form.
package dedup

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/biokg/biokg/internal/llm"
	"github.com/biokg/biokg/internal/model"
)

// Deduplicator finds near-duplicate entities and rewrites the dataset.
// The strategy is chosen once at construction: embedding cosine
// similarity when an embedder is configured, word-overlap string
// similarity otherwise.
type Deduplicator struct {
	threshold float64
	embedder  llm.Embedder // nil selects the string strategy
}

// New creates a Deduplicator with the given similarity threshold
func New(threshold float64, embedder llm.Embedder) *Deduplicator {
	if threshold <= 0 {
		threshold = 0.8
	}
	return &Deduplicator{
		threshold: threshold,
		embedder:  embedder,
	}
}

// CanonicalMap returns a duplicate -> canonical mapping for every pair
// of entities judged similar above the threshold. Entities must be
// unique; callers pass them sorted so the result is deterministic.
//
// The map is one-pass: transitive chains (A -> B, B -> C) are not
// closed, matching the substitution behavior downstream.
func (d *Deduplicator) CanonicalMap(ctx context.Context, entities []string) (map[string]string, error) {
	if len(entities) < 2 {
		return map[string]string{}, nil
	}

	if d.embedder != nil {
		canon, err := d.embeddingPairs(ctx, entities)
		if err == nil {
			return canon, nil
		}
		// Embedding failure degrades to the string strategy rather
		// than aborting the pipeline
		fmt.Fprintf(os.Stderr, "Warning: embedding similarity failed (%v), falling back to string matching\n", err)
	}

	return d.stringPairs(entities), nil
}

func (d *Deduplicator) embeddingPairs(ctx context.Context, entities []string) (map[string]string, error) {
	vectors, err := d.embedder.Embed(ctx, entities)
	if err != nil {
		return nil, err
	}

	canon := make(map[string]string)
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if cosine(vectors[i], vectors[j]) > d.threshold {
				recordPair(canon, entities[i], entities[j])
			}
		}
	}
	return canon, nil
}

func (d *Deduplicator) stringPairs(entities []string) map[string]string {
	canon := make(map[string]string)
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if d.similar(entities[i], entities[j]) {
				recordPair(canon, entities[i], entities[j])
			}
		}
	}
	return canon
}

// similar reports whether two entity strings are near-duplicates:
// either one contains the other case-insensitively, or the Jaccard
// similarity of their word sets exceeds the threshold. Symmetric in
// its arguments.
func (d *Deduplicator) similar(s1, s2 string) bool {
	l1, l2 := strings.ToLower(s1), strings.ToLower(s2)

	if strings.Contains(l1, l2) || strings.Contains(l2, l1) {
		return true
	}

	words1 := tokenSet(l1)
	words2 := tokenSet(l2)

	common := 0
	for w := range words1 {
		if _, ok := words2[w]; ok {
			common++
		}
	}
	total := len(words1) + len(words2) - common
	if total == 0 {
		return false
	}
	return float64(common)/float64(total) > d.threshold
}

// recordPair maps the longer string of a similar pair to the shorter.
// Equal lengths keep the lexicographically smaller string, so the
// choice is stable across runs.
func recordPair(canon map[string]string, a, b string) {
	shorter, longer := a, b
	if len(a) > len(b) || (len(a) == len(b) && a > b) {
		shorter, longer = b, a
	}
	canon[longer] = shorter
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Substitute applies the canonical map to the causal column of every
// article as a literal substring replacement, in sorted duplicate
// order so results are reproducible. A duplicate occurring inside a
// longer unrelated string is replaced too; that is the accepted
// trade-off of substring rewriting.
func Substitute(articles []model.Article, canon map[string]string) []model.Article {
	if len(canon) == 0 {
		return articles
	}

	duplicates := make([]string, 0, len(canon))
	for dup := range canon {
		duplicates = append(duplicates, dup)
	}
	sort.Strings(duplicates)

	out := make([]model.Article, len(articles))
	copy(out, articles)
	for i := range out {
		cell := out[i].Causal
		for _, dup := range duplicates {
			cell = strings.ReplaceAll(cell, dup, canon[dup])
		}
		out[i].Causal = cell
	}
	return out
}
