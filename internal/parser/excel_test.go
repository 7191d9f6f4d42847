package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "stocklens/internal/errors"
)

func buildWorkbook(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		if name != "Sheet1" {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExtractWorkbook(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"Sheet1": {
			{"SKU", "Quantity", "Price"},
			{"ABC-1", 5, 9.99},
			{"ABC-2", 0, 4.5},
		},
	})

	table, err := extractWorkbook(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Quantity", "Price"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "ABC-1", table.Rows[0]["SKU"])
	assert.Equal(t, "5", table.Rows[0]["Quantity"])
	assert.Equal(t, "0", table.Rows[1]["Quantity"])
}

func TestExtractWorkbook_PicksSheetWithMostRows(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"Sheet1": {
			{"Notes"},
			{"cover sheet"},
		},
		"Inventory": {
			{"SKU", "Quantity"},
			{"A1", 3},
			{"A2", 7},
			{"A3", 9},
		},
	})

	table, err := extractWorkbook(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Quantity"}, table.Headers)
	assert.Len(t, table.Rows, 3)
}

func TestExtractWorkbook_Empty(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = extractWorkbook(buf.Bytes())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrEmptyWorkbook, err)
}

func TestExtractWorkbook_NotAWorkbook(t *testing.T) {
	_, err := extractWorkbook([]byte("this is not a zip archive"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Excel parsing failed")
}
