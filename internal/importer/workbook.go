package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/quizzy/pkg/models"
)

// WorkbookConfig defines the workbook import configuration
type WorkbookConfig struct {
	FilePath         string // Path to the Excel or CSV file
	TermColumn       string // Column with the term
	DefinitionColumn string // Column with the definition
	TitleColumn      string // Optional column splitting rows into named sets
	SheetName        string // Name of the sheet to import
	StartRow         int    // The row to start importing from (1-based index)
	DefaultTitle     string // Title used when TitleColumn is empty or unset
}

// DefaultWorkbookConfig returns the default workbook import configuration
func DefaultWorkbookConfig(path string) WorkbookConfig {
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return WorkbookConfig{
		FilePath:         path,
		TermColumn:       "A",
		DefinitionColumn: "B",
		TitleColumn:      "C",
		SheetName:        "Sheet1",
		StartRow:         2, // By default, start from the second row (skip header)
		DefaultTitle:     title,
	}
}

// WorkbookResult holds the result of a workbook import
type WorkbookResult struct {
	Sets           []models.FlashcardSet
	TotalProcessed int
	Skipped        int
	Errors         []string
}

// ImportWorkbook reads flashcard sets from an Excel or CSV file. Rows are
// grouped into sets by the title column when one is configured; rows with a
// missing term or definition are reported, not fatal. Nothing is persisted
// here; callers store the returned sets.
func ImportWorkbook(config WorkbookConfig) (*WorkbookResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel reads rows from an Excel file
func importFromExcel(config WorkbookConfig) (*WorkbookResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	return collectRows(rows, config)
}

// importFromCSV reads rows from a CSV file
func importFromCSV(config WorkbookConfig) (*WorkbookResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rows = append(rows, row)
	}

	return collectRows(rows, config)
}

// collectRows turns raw rows into flashcard sets grouped by title
func collectRows(rows [][]string, config WorkbookConfig) (*WorkbookResult, error) {
	termIdx, err := columnToIndex(config.TermColumn)
	if err != nil {
		return nil, err
	}
	defIdx, err := columnToIndex(config.DefinitionColumn)
	if err != nil {
		return nil, err
	}
	titleIdx := -1
	if config.TitleColumn != "" {
		titleIdx, err = columnToIndex(config.TitleColumn)
		if err != nil {
			return nil, err
		}
	}

	result := &WorkbookResult{
		Errors: make([]string, 0),
	}

	// Preserve first-seen set order
	setIdx := make(map[string]int)

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		// Skip fully empty rows
		if rowEmpty(row) {
			result.Skipped++
			continue
		}

		result.TotalProcessed++

		term := cellAt(row, termIdx)
		definition := cellAt(row, defIdx)
		if term == "" || definition == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: term or definition is empty", i+1))
			continue
		}

		title := config.DefaultTitle
		if titleIdx >= 0 {
			if t := cellAt(row, titleIdx); t != "" {
				title = t
			}
		}

		idx, ok := setIdx[title]
		if !ok {
			idx = len(result.Sets)
			setIdx[title] = idx
			result.Sets = append(result.Sets, models.FlashcardSet{Title: title})
		}
		result.Sets[idx].Cards = append(result.Sets[idx].Cards, models.Flashcard{
			Term:       term,
			Definition: definition,
		})
	}

	return result, nil
}

// columnToIndex converts a column letter ("A") to a 0-based index
func columnToIndex(column string) (int, error) {
	n, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %v", column, err)
	}
	return n - 1, nil
}

// cellAt returns the trimmed cell value, or "" when the row is short
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
