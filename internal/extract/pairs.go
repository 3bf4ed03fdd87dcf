package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/biokg/biokg/internal/model"
)

// pairPattern matches one "(Entity A, Entity B)" group: anything
// without a comma, a comma, optional whitespace, anything without a
// closing paren. LLM output that does not follow the format simply
// produces no matches.
var pairPattern = regexp.MustCompile(`\(([^,]+),\s*([^)]+)\)`)

// Pair is one causal entity pair extracted from LLM output
type Pair struct {
	A string
	B string
}

// Pairs returns the ordered sequence of causal pairs found in text.
// Both sides are trimmed of surrounding whitespace. Sides that are
// empty after trimming are kept here; graph construction discards
// them.
func Pairs(text string) []Pair {
	matches := pairPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	pairs := make([]Pair, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, Pair{
			A: strings.TrimSpace(m[1]),
			B: strings.TrimSpace(m[2]),
		})
	}
	return pairs
}

// Entities collects the sorted set of unique non-empty entity labels
// across the causal column of all articles. Uniqueness is by exact
// string match after trimming.
func Entities(articles []model.Article) []string {
	seen := make(map[string]struct{})
	for _, a := range articles {
		for _, p := range Pairs(a.Causal) {
			if p.A != "" {
				seen[p.A] = struct{}{}
			}
			if p.B != "" {
				seen[p.B] = struct{}{}
			}
		}
	}

	entities := make([]string, 0, len(seen))
	for e := range seen {
		entities = append(entities, e)
	}
	sort.Strings(entities)
	return entities
}
