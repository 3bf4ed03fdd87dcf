package dataset

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/biokg/biokg/internal/model"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	articles := []model.Article{
		{
			PMID:     "12345678",
			Title:    "BRCA1 in DNA repair",
			Abstract: "Some abstract text.",
			Journal:  "Journal of Test Biology",
			Authors:  "Jane Doe; Alex Smith",
			PubDate:  "2023-Apr",
			Causal:   "(BRCA1, DNA repair) (BRCA1, genome stability)",
		},
		{
			PMID:     "87654321",
			Title:    "p53 and apoptosis",
			Abstract: "Another abstract.",
			Causal:   "",
		},
	}

	path := filepath.Join(t.TempDir(), "out", "BRCA1_pubmed_search_results.xlsx")
	if err := Write(path, articles); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !reflect.DeepEqual(loaded, articles) {
		t.Errorf("Round trip mismatch:\nwrote %+v\nread  %+v", articles, loaded)
	}
}

func TestWriteRead_CausalColumnPreserved(t *testing.T) {
	articles := []model.Article{
		{PMID: "1", Title: "t", Causal: "(Gene1, Protein2) and (Protein2, Pathway3)"},
		{PMID: "2", Title: "t2"},
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := Write(path, articles); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if loaded[0].Causal != articles[0].Causal {
		t.Errorf("Causal column changed: %q != %q", loaded[0].Causal, articles[0].Causal)
	}
	if loaded[1].Causal != "" {
		t.Errorf("Expected missing value to read as empty string, got %q", loaded[1].Causal)
	}
}

func TestWrite_EmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := Write(path, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Expected no articles, got %d", len(loaded))
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("Expected error for missing file")
	}
}
