package table

import (
	"fmt"
	"strings"
)

// FileType identifies a supported upload format.
type FileType string

const (
	TypeCSV   FileType = "csv"
	TypeExcel FileType = "excel"
)

// DetectFileType resolves the upload format from the filename extension
// first, then falls back to the MIME type. Returns false when neither
// yields a supported format.
func DetectFileType(fileName, mimeType string) (FileType, bool) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return TypeCSV, true
	case strings.HasSuffix(lower, ".xls"), strings.HasSuffix(lower, ".xlsx"):
		return TypeExcel, true
	}

	if mimeType != "" {
		mt := strings.ToLower(mimeType)
		if strings.Contains(mt, "csv") {
			return TypeCSV, true
		}
		if strings.Contains(mt, "excel") || strings.Contains(mt, "spreadsheet") {
			return TypeExcel, true
		}
	}

	return "", false
}

// Parse dispatches raw file bytes to the parser for the declared format.
func Parse(data []byte, ft FileType) (*ParsedTable, error) {
	switch ft {
	case TypeCSV:
		return ParseCSV(data)
	case TypeExcel:
		return ParseExcel(data)
	default:
		return nil, &ParseError{Format: ft, Err: fmt.Errorf("unsupported format")}
	}
}

// ParseError reports that file bytes could not be interpreted as the
// declared format. The request is rejected with no partial data.
type ParseError struct {
	Format FileType
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s file: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
