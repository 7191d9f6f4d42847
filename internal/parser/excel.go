package parser

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	apperrors "stocklens/internal/errors"
)

// extractWorkbook decodes an Excel workbook and converts the sheet with the
// most rows into a RawTable. Ties keep the earlier sheet in workbook order.
// The first row of the chosen sheet is the header row.
func extractWorkbook(data []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.WorkbookError(err)
	}
	defer f.Close()

	var best [][]string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if len(rows) > len(best) {
			best = rows
		}
	}

	if len(best) < 2 {
		return nil, apperrors.ErrEmptyWorkbook
	}

	headers := normalizeHeaders(best[0])
	table := &RawTable{Headers: headers}
	for _, record := range best[1:] {
		row := recordToRow(headers, record)
		if !rowEmpty(row) {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}
