package extract

import (
	"reflect"
	"testing"

	"github.com/biokg/biokg/internal/model"
)

func TestPairs_WellFormed(t *testing.T) {
	pairs := Pairs("(Gene1, Protein2) and (Protein2, Pathway3)")

	expected := []Pair{
		{A: "Gene1", B: "Protein2"},
		{A: "Protein2", B: "Pathway3"},
	}

	if !reflect.DeepEqual(pairs, expected) {
		t.Errorf("Expected %v, got %v", expected, pairs)
	}
}

func TestPairs_NoMatches(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"plain prose", "No causal relationships were identified in this abstract."},
		{"unbalanced paren", "(Gene1, Protein2"},
		{"missing comma", "(Gene1 Protein2)"},
		{"empty parens", "()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if pairs := Pairs(tt.text); len(pairs) != 0 {
				t.Errorf("Expected no pairs, got %v", pairs)
			}
		})
	}
}

func TestPairs_TrimsWhitespace(t *testing.T) {
	pairs := Pairs("(  TNF-alpha ,   NF-kB signaling  )")

	if len(pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].A != "TNF-alpha" || pairs[0].B != "NF-kB signaling" {
		t.Errorf("Expected trimmed pair, got (%q, %q)", pairs[0].A, pairs[0].B)
	}
}

func TestPairs_SurroundingText(t *testing.T) {
	text := "The abstract suggests: (BRCA1, DNA repair), and also (p53, apoptosis)."

	pairs := Pairs(text)
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].A != "BRCA1" || pairs[1].B != "apoptosis" {
		t.Errorf("Unexpected pairs: %v", pairs)
	}
}

func TestEntities_SortedUnique(t *testing.T) {
	articles := []model.Article{
		{Causal: "(Gene1, Protein2) (Protein2, Pathway3)"},
		{Causal: "(Gene1, Pathway3)"},
		{Causal: "no pairs here"},
	}

	entities := Entities(articles)

	expected := []string{"Gene1", "Pathway3", "Protein2"}
	if !reflect.DeepEqual(entities, expected) {
		t.Errorf("Expected %v, got %v", expected, entities)
	}
}

func TestEntities_DropsEmptySides(t *testing.T) {
	articles := []model.Article{
		{Causal: "( , Protein2)"},
	}

	entities := Entities(articles)
	if len(entities) != 1 || entities[0] != "Protein2" {
		t.Errorf("Expected [Protein2], got %v", entities)
	}
}
