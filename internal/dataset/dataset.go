// Package dataset persists the tabular article dataset as xlsx
// spreadsheets, one file per pipeline stage.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/biokg/biokg/internal/model"
)

const sheetName = "Sheet1"

var header = []string{"PMID", "Title", "Abstract", "Journal", "Authors", "PubDate", "Causal Relations"}

// Write saves the articles to an xlsx file, creating parent
// directories as needed
func Write(path string, articles []model.Article) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &row); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, a := range articles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		values := []interface{}{a.PMID, a.Title, a.Abstract, a.Journal, a.Authors, a.PubDate, a.Causal}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Read loads articles from an xlsx file written by Write. Missing
// trailing cells read back as empty strings.
func Read(path string) ([]model.Article, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	articles := make([]model.Article, 0, len(rows)-1)
	for _, row := range rows[1:] {
		articles = append(articles, model.Article{
			PMID:     cellAt(row, 0),
			Title:    cellAt(row, 1),
			Abstract: cellAt(row, 2),
			Journal:  cellAt(row, 3),
			Authors:  cellAt(row, 4),
			PubDate:  cellAt(row, 5),
			Causal:   cellAt(row, 6),
		})
	}
	return articles, nil
}

func cellAt(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}
