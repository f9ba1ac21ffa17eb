package uploader

import (
	"math"
	"strconv"
	"strings"

	"github.com/gokul-culfit/d2c-uploader/internal/table"
)

// fields.go provides the cell-extraction helpers shared by uploader
// mapping functions. All lookups match column labels with the same
// normalization used by header validation, so per-file key drift
// (spacing, casing) never breaks a mapping that passed validation.

// NumberField extracts a numeric value for the expected column label.
//
// Coercion is total by design: number cells pass through, text cells are
// parsed after stripping thousands separators, and anything empty, absent
// or non-numeric degrades to 0 rather than rejecting the row.
func NumberField(row *table.RawRow, label string) float64 {
	cell, ok := row.Lookup(label)
	if !ok || cell.IsEmpty() {
		return 0
	}
	if cell.Kind == table.CellNumber {
		return finiteOrZero(cell.Number)
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(cell.Text, ",", ""), 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(n)
}

// StringField extracts a trimmed string value for the expected column
// label; absent cells yield "".
func StringField(row *table.RawRow, label string) string {
	cell, ok := row.Lookup(label)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cell.String())
}

// FirstString tries each label alias in priority order and returns the
// first non-empty value. Used for columns that appear under several
// spellings in the wild ("store code", "store_code", "store id").
func FirstString(row *table.RawRow, labels ...string) string {
	for _, label := range labels {
		if v := StringField(row, label); v != "" {
			return v
		}
	}
	return ""
}

func finiteOrZero(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
