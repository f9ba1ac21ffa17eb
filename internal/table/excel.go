package table

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseExcel decodes an Excel workbook and converts its first sheet into a
// ParsedTable. The first row supplies the column names (trimmed and
// lower-cased, same as the CSV path); missing trailing cells default to
// empty strings so every row carries the full key set.
//
// Only the first sheet is read. Cells whose raw stored value is numeric
// are carried as number cells, matching how workbooks type their data.
func ParseExcel(data []byte) (*ParsedTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: TypeExcel, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Format: TypeExcel, Err: fmt.Errorf("workbook has no sheets")}
	}

	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Format: TypeExcel, Err: fmt.Errorf("read sheet %q: %w", sheets[0], err)}
	}
	if len(records) == 0 {
		return nil, &ParseError{Format: TypeExcel, Err: fmt.Errorf("no header row")}
	}

	headers := make([]string, 0, len(records[0]))
	for _, h := range records[0] {
		headers = append(headers, strings.ToLower(strings.TrimSpace(h)))
	}

	rows := make([]*RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := NewRow()
		for i, h := range headers {
			if i < len(record) {
				row.Set(h, excelCell(record[i]))
			} else {
				row.Set(h, TextCell(""))
			}
		}
		rows = append(rows, row)
	}

	return &ParsedTable{Headers: headers, Rows: rows}, nil
}

// excelCell classifies a raw stored value: finite decimal values become
// number cells, everything else stays text. ParseFloat also accepts
// "NaN" and "Inf" literals, which must stay text: they have no JSON
// number representation and would break row serialization.
func excelCell(raw string) Cell {
	if raw == "" {
		return TextCell("")
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return NumberCell(n)
	}
	return TextCell(raw)
}
