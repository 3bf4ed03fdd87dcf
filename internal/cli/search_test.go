package cli

import (
	"path/filepath"
	"testing"
)

func TestSearchResultsPath_SlugsKeyword(t *testing.T) {
	got := searchResultsPath("output", "TGF-beta/Smad")
	want := filepath.Join("output", "TGF-beta_Smad_pubmed_search_results.xlsx")
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSearchResultsPath_PlainKeyword(t *testing.T) {
	got := searchResultsPath("output", "BRCA1")
	want := filepath.Join("output", "BRCA1_pubmed_search_results.xlsx")
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
