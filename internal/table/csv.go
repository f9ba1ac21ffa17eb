package table

import (
	"fmt"
	"strings"
)

// ParseCSV parses CSV text into a ParsedTable.
//
// The first non-empty line is the header row; header cells are trimmed and
// lower-cased. Data lines are zipped against the headers positionally:
// short lines yield empty strings for missing trailing columns and cells
// beyond the header count are dropped. Fully empty lines are skipped
// wherever they appear.
func ParseCSV(data []byte) (*ParsedTable, error) {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return nil, &ParseError{Format: TypeCSV, Err: fmt.Errorf("no header row")}
	}

	headers := make([]string, 0, 8)
	for _, h := range splitFields(lines[0]) {
		headers = append(headers, strings.ToLower(strings.TrimSpace(h)))
	}

	rows := make([]*RawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := splitFields(line)
		row := NewRow()
		for i, h := range headers {
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			row.Set(h, TextCell(value))
		}
		rows = append(rows, row)
	}

	return &ParsedTable{Headers: headers, Rows: rows}, nil
}

// splitFields splits one CSV line on commas with quote awareness:
// a double quote toggles in-quotes state, "" inside quotes is a literal
// quote, and commas inside quotes do not separate fields.
func splitFields(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		if ch == '"' {
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
			continue
		}

		if ch == ',' && !inQuotes {
			result = append(result, current.String())
			current.Reset()
		} else {
			current.WriteByte(ch)
		}
	}

	result = append(result, current.String())
	return result
}
