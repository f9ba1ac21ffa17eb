package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes the given rows to the first sheet and returns the
// serialized workbook bytes.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParseExcel(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Store Code", "Store Name", "Revenue"},
		{"S001", "Indiranagar", 1200.5},
		{"S002", "HSR"},
	})

	table, err := ParseExcel(data)
	if err != nil {
		t.Fatalf("ParseExcel: %v", err)
	}

	wantHeaders := []string{"store code", "store name", "revenue"}
	for i, h := range wantHeaders {
		if table.Headers[i] != h {
			t.Errorf("headers[%d] = %q, want %q", i, table.Headers[i], h)
		}
	}

	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}

	// Numeric cells keep their native type.
	revenue, ok := table.Rows[0].Get("revenue")
	if !ok || revenue.Kind != CellNumber || revenue.Number != 1200.5 {
		t.Errorf("revenue cell = %+v", revenue)
	}

	name, _ := table.Rows[0].Get("store name")
	if name.Kind != CellText || name.Text != "Indiranagar" {
		t.Errorf("name cell = %+v", name)
	}

	// Short rows still carry the full key set.
	missing, ok := table.Rows[1].Get("revenue")
	if !ok {
		t.Fatal("short row missing revenue key")
	}
	if !missing.IsEmpty() {
		t.Errorf("short row revenue = %+v, want empty", missing)
	}
}

func TestParseExcelInvalidBytes(t *testing.T) {
	_, err := ParseExcel([]byte("this is not a workbook"))
	if err == nil {
		t.Fatal("expected error for invalid workbook bytes")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if parseErr.Format != TypeExcel {
		t.Errorf("format = %q, want excel", parseErr.Format)
	}
}

func TestExcelCellClassification(t *testing.T) {
	tests := []struct {
		raw  string
		want Cell
	}{
		{"", TextCell("")},
		{"123", NumberCell(123)},
		{"-1.5", NumberCell(-1.5)},
		{"S001", TextCell("S001")},
		{"12%", TextCell("12%")},
		// ParseFloat accepts these literals but they are not JSON numbers.
		{"NaN", TextCell("NaN")},
		{"nan", TextCell("nan")},
		{"Inf", TextCell("Inf")},
		{"+Inf", TextCell("+Inf")},
		{"-Inf", TextCell("-Inf")},
		{"Infinity", TextCell("Infinity")},
	}
	for _, tt := range tests {
		if got := excelCell(tt.raw); got != tt.want {
			t.Errorf("excelCell(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestParseExcelNonFiniteLiteralsMarshal(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Store Code", "Revenue"},
		{"NaN", "Infinity"},
	})

	table, err := ParseExcel(data)
	if err != nil {
		t.Fatalf("ParseExcel: %v", err)
	}

	cell, _ := table.Rows[0].Get("store code")
	if cell.Kind != CellText || cell.Text != "NaN" {
		t.Errorf("cell = %+v, want text NaN", cell)
	}

	// Rows with these values must still serialize for preview responses.
	out, err := json.Marshal(table.Rows[0])
	if err != nil {
		t.Fatalf("marshal row: %v", err)
	}
	if string(out) != `{"store code":"NaN","revenue":"Infinity"}` {
		t.Errorf("marshal = %s", out)
	}
}
