package table

import (
	"errors"
	"testing"
)

func TestParseCSV(t *testing.T) {
	data := []byte("Store Code,Store Name,Revenue\r\n" +
		"S001,Indiranagar,1200\r\n" +
		"\r\n" +
		"S002,\"HSR, Layout\",3400\r\n" +
		"S003,Koramangala\r\n")

	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	wantHeaders := []string{"store code", "store name", "revenue"}
	if len(table.Headers) != len(wantHeaders) {
		t.Fatalf("headers = %v, want %v", table.Headers, wantHeaders)
	}
	for i, h := range wantHeaders {
		if table.Headers[i] != h {
			t.Errorf("headers[%d] = %q, want %q", i, table.Headers[i], h)
		}
	}

	// Blank line is skipped, so three data rows remain.
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}

	if got, _ := table.Rows[1].Get("store name"); got.Text != "HSR, Layout" {
		t.Errorf("quoted comma field = %q, want %q", got.Text, "HSR, Layout")
	}

	// Short row pads missing trailing cells with empty strings.
	got, ok := table.Rows[2].Get("revenue")
	if !ok {
		t.Fatal("short row missing revenue key")
	}
	if got.Text != "" {
		t.Errorf("short row revenue = %q, want empty", got.Text)
	}
}

func TestParseCSVExtraCellsDropped(t *testing.T) {
	table, err := ParseCSV([]byte("a,b\n1,2,3,4\n"))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if table.Rows[0].Len() != 2 {
		t.Errorf("row len = %d, want 2", table.Rows[0].Len())
	}
}

func TestParseCSVEmpty(t *testing.T) {
	for _, data := range []string{"", "\n\n", "  \n \r\n"} {
		_, err := ParseCSV([]byte(data))
		if err == nil {
			t.Fatalf("ParseCSV(%q): expected error", data)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("ParseCSV(%q): error type %T, want *ParseError", data, err)
		}
		if parseErr.Format != TypeCSV {
			t.Errorf("ParseCSV(%q): format = %q, want csv", data, parseErr.Format)
		}
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"empty fields", "a,,c", []string{"a", "", "c"}},
		{"trailing comma", "a,b,", []string{"a", "b", ""}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"escaped quote", `a,"say ""hi""",c`, []string{"a", `say "hi"`, "c"}},
		{"single field", "only", []string{"only"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitFields(tt.line)
			if len(got) != len(tt.want) {
				t.Fatalf("splitFields(%q) = %v, want %v", tt.line, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
