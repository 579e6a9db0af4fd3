package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportWorkbookCSV(t *testing.T) {
	path := writeCSV(t, "animals.csv",
		"Term,Definition,Set\n"+
			"cat,a small feline,Animals\n"+
			"dog,a loyal canine,Animals\n"+
			"oak,a sturdy tree,Plants\n")

	result, err := ImportWorkbook(DefaultWorkbookConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Sets, 2)

	assert.Equal(t, "Animals", result.Sets[0].Title)
	require.Len(t, result.Sets[0].Cards, 2)
	assert.Equal(t, "cat", result.Sets[0].Cards[0].Term)
	assert.Equal(t, "a small feline", result.Sets[0].Cards[0].Definition)

	assert.Equal(t, "Plants", result.Sets[1].Title)
	require.Len(t, result.Sets[1].Cards, 1)
}

func TestImportWorkbookCSVDefaultTitle(t *testing.T) {
	// No title column values: all rows land in one set named after the file
	path := writeCSV(t, "biology.csv",
		"Term,Definition\n"+
			"cell,the basic unit of life\n"+
			"gene,a unit of heredity\n")

	result, err := ImportWorkbook(DefaultWorkbookConfig(path))
	require.NoError(t, err)

	require.Len(t, result.Sets, 1)
	assert.Equal(t, "biology", result.Sets[0].Title)
	assert.Len(t, result.Sets[0].Cards, 2)
}

func TestImportWorkbookCSVReportsBadRows(t *testing.T) {
	path := writeCSV(t, "mixed.csv",
		"Term,Definition\n"+
			"cat,a small feline\n"+
			",missing term\n"+
			"missing definition,\n"+
			"dog,a loyal canine\n")

	result, err := ImportWorkbook(DefaultWorkbookConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Row 3")
	assert.Contains(t, result.Errors[1], "Row 4")

	require.Len(t, result.Sets, 1)
	assert.Len(t, result.Sets[0].Cards, 2)
}

func TestImportWorkbookCSVSkipsEmptyRows(t *testing.T) {
	path := writeCSV(t, "gaps.csv",
		"Term,Definition\n"+
			"cat,a small feline\n"+
			",\n"+
			"dog,a loyal canine\n")

	result, err := ImportWorkbook(DefaultWorkbookConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Empty(t, result.Errors)
}

func TestImportWorkbookExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Term", "Definition", "Set"},
		{"cat", "a small feline", "Animals"},
		{"oak", "a sturdy tree", "Plants"},
		{"dog", "a loyal canine", "Animals"},
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result, err := ImportWorkbook(DefaultWorkbookConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	require.Len(t, result.Sets, 2)

	// Sets appear in first-seen row order
	assert.Equal(t, "Animals", result.Sets[0].Title)
	assert.Equal(t, "Plants", result.Sets[1].Title)
	assert.Len(t, result.Sets[0].Cards, 2)
	assert.Len(t, result.Sets[1].Cards, 1)
}

func TestImportWorkbookMissingFile(t *testing.T) {
	_, err := ImportWorkbook(DefaultWorkbookConfig("does-not-exist.xlsx"))
	assert.Error(t, err)
}

func TestImportWorkbookInvalidColumn(t *testing.T) {
	path := writeCSV(t, "cols.csv", "cat,feline\n")

	config := DefaultWorkbookConfig(path)
	config.TermColumn = "??"

	_, err := ImportWorkbook(config)
	assert.Error(t, err)
}
