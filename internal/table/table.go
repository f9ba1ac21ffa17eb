// Package table turns raw upload bytes (CSV text or Excel binary) into a
// normalized tabular structure shared by every downstream component.
//
// Both parsers produce the same ParsedTable shape: an ordered header list
// plus rows keyed by the lower-cased header names. Downstream code
// (header validation, row mapping) is therefore format-agnostic.
package table

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// CellKind discriminates the two value kinds a spreadsheet cell can hold.
type CellKind int

const (
	CellText CellKind = iota
	CellNumber
)

// Cell is a single cell value: text or number.
// CSV cells are always text; Excel cells may carry native numbers.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell wraps a string value.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell wraps a numeric value.
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// IsEmpty reports whether the cell holds no value.
// Number cells are never empty.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellText && c.Text == ""
}

// String renders the cell for display. Numbers use the shortest exact
// decimal representation.
func (c Cell) String() string {
	if c.Kind == CellNumber {
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return c.Text
}

// MarshalJSON emits the underlying value (string or number) so serialized
// rows look like the original spreadsheet data.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Kind == CellNumber {
		return json.Marshal(c.Number)
	}
	return json.Marshal(c.Text)
}

// RawRow is an ordered mapping from lower-cased column name to cell value.
// Key order follows the header order of the source file.
type RawRow struct {
	keys  []string
	cells map[string]Cell
}

// NewRow returns an empty RawRow.
func NewRow() *RawRow {
	return &RawRow{cells: make(map[string]Cell)}
}

// Set stores a cell under key, preserving first-seen key order.
func (r *RawRow) Set(key string, c Cell) {
	if _, exists := r.cells[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.cells[key] = c
}

// Get returns the cell stored under the exact key.
func (r *RawRow) Get(key string) (Cell, bool) {
	c, ok := r.cells[key]
	return c, ok
}

// Keys returns the row's column names in source order.
func (r *RawRow) Keys() []string {
	return r.keys
}

// Len returns the number of cells in the row.
func (r *RawRow) Len() int {
	return len(r.keys)
}

// Lookup finds the cell whose key matches the expected column label under
// header normalization. This is the single lookup rule shared by header
// validation and row mapping: it tolerates spacing/casing drift between
// the expected label and the actual key.
func (r *RawRow) Lookup(expected string) (Cell, bool) {
	target := NormalizeHeader(expected)
	for _, key := range r.keys {
		if NormalizeHeader(key) == target {
			return r.cells[key], true
		}
	}
	return Cell{}, false
}

// AllEmpty reports whether every cell in the row is empty.
func (r *RawRow) AllEmpty() bool {
	for _, key := range r.keys {
		if !r.cells[key].IsEmpty() {
			return false
		}
	}
	return true
}

// MarshalJSON serializes the row as a JSON object in key order.
func (r *RawRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.cells[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParsedTable is the normalized output of both parsers.
// Invariant: every row's key set matches Headers (missing trailing cells
// become empty strings, never absent keys).
type ParsedTable struct {
	Headers []string
	Rows    []*RawRow
}

// NormalizeHeader reduces a header to its canonical matching form:
// trim, lower-case, then strip all interior whitespace. Two headers name
// the same column iff their normalized forms are equal, so
// "Store Name", "storename" and " Store   Name " all match.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, h)
}
