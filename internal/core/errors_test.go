package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"unknown uploader", fmt.Errorf("%w: pricing", ErrUnknownUploader), "UPL001"},
		{"unsupported type", fmt.Errorf("%w: x.txt", ErrUnsupportedType), "FILE001"},
		{"parse failure", errors.New("failed to parse csv file: bad"), "FILE002"},
		{"no header row", errors.New("no header row"), "FILE003"},
		{"missing data", errors.New("missing file data"), "FILE004"},
		{"webhook timeout", errors.New("request timed out"), "WH001"},
		{"webhook rejection", errors.New("webhook returned 503: overloaded"), "WH002"},
		{"cancelled", errors.New("context canceled"), "REQ001"},
		{"deadline", errors.New("context deadline exceeded"), "REQ002"},
		{"unmatched", errors.New("something else entirely"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message == "" || got.Action == "" {
				t.Errorf("incomplete message: %+v", got)
			}
		})
	}
}

func TestMapErrorSpecificBeforeGeneral(t *testing.T) {
	// An empty-file parse error matches both "no header row" and "failed
	// to parse"; the more specific pattern is listed first and wins.
	got := MapError(errors.New("failed to parse csv file: no header row"))
	if got.Code != "FILE003" {
		t.Errorf("code = %q, want FILE003", got.Code)
	}
}

func TestMapErrorNil(t *testing.T) {
	if got := MapError(nil); got.Code != "" || got.Message != "" {
		t.Errorf("MapError(nil) = %+v, want zero", got)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(errors.New("request timed out"))
	if !strings.Contains(got, "WH001") {
		t.Errorf("FormatUserError = %q, want code WH001 included", got)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}
