package table

import "testing"

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		want     FileType
		ok       bool
	}{
		{"csv extension", "report.csv", "", TypeCSV, true},
		{"csv extension uppercase", "REPORT.CSV", "", TypeCSV, true},
		{"xlsx extension", "report.xlsx", "", TypeExcel, true},
		{"xls extension", "legacy.xls", "", TypeExcel, true},
		{"csv mime", "upload", "text/csv", TypeCSV, true},
		{"excel mime", "upload", "application/vnd.ms-excel", TypeExcel, true},
		{"spreadsheet mime", "upload", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", TypeExcel, true},
		{"extension wins over mime", "report.csv", "application/vnd.ms-excel", TypeCSV, true},
		{"unknown", "notes.txt", "text/plain", "", false},
		{"no hints", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectFileType(tt.fileName, tt.mimeType)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DetectFileType(%q, %q) = (%q, %v), want (%q, %v)",
					tt.fileName, tt.mimeType, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("x"), FileType("pdf"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
