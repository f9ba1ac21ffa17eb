// Package uploader defines per-uploader schemas and the registry that
// exposes them. An uploader pairs a spreadsheet format (expected columns)
// with a row-to-event mapping and the routing metadata for delivery.
//
// Schemas are static: the full set is declared in Definitions and loaded
// once at process start. The registry is immutable afterwards, so it is
// safe for concurrent reads without locking.
package uploader

import (
	"github.com/gokul-culfit/d2c-uploader/internal/table"
)

// MapRowFunc converts one parsed row into an event. rowIndex is 1-based.
// Returning (nil, nil) skips the row (fully blank rows); a non-nil error
// becomes a row-level error that does not stop other rows.
type MapRowFunc func(row *table.RawRow, rowIndex int) (any, error)

// KeyFunc derives a deterministic key from a mapped event. Downstream
// consumers may use it for dedup; nothing is enforced here.
type KeyFunc func(event any) string

// Config declares one uploader type.
type Config struct {
	// ID is the unique stable key ("bcase", "pricing", ...).
	ID string

	// DisplayName is the human label shown in the uploader list.
	DisplayName string

	// AcceptedFileTypes restricts which upload formats this uploader takes.
	AcceptedFileTypes []table.FileType

	// EventName and KafkaTopic route delivered events downstream.
	EventName  string
	KafkaTopic string

	// FormatHeaders lists the expected column labels in display order.
	// May contain duplicates; duplicates are removed when computing the
	// required set but preserved for template display.
	FormatHeaders []string

	MapRow   MapRowFunc
	BuildKey KeyFunc
}

// Accepts reports whether the uploader takes the given file type.
func (c *Config) Accepts(ft table.FileType) bool {
	for _, t := range c.AcceptedFileTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// RequiredHeaders returns FormatHeaders with duplicates removed,
// preserving first-occurrence order.
func (c *Config) RequiredHeaders() []string {
	seen := make(map[string]bool, len(c.FormatHeaders))
	required := make([]string, 0, len(c.FormatHeaders))
	for _, h := range c.FormatHeaders {
		if !seen[h] {
			seen[h] = true
			required = append(required, h)
		}
	}
	return required
}

// ValidateHeaders checks the actual headers against the required set and
// returns the missing labels. Matching uses header normalization, so
// spacing and casing differences never count as missing. The returned
// list follows FormatHeaders order; empty means valid.
func (c *Config) ValidateHeaders(actual []string) []string {
	present := make(map[string]bool, len(actual))
	for _, h := range actual {
		present[table.NormalizeHeader(h)] = true
	}

	var missing []string
	for _, h := range c.RequiredHeaders() {
		if !present[table.NormalizeHeader(h)] {
			missing = append(missing, h)
		}
	}
	return missing
}

// Summary is the function-free projection of a Config for listings.
type Summary struct {
	ID                string           `json:"id"`
	DisplayName       string           `json:"displayName"`
	AcceptedFileTypes []table.FileType `json:"acceptedFileTypes"`
	FormatHeaders     []string         `json:"formatHeaders"`
}

// Format describes the expected columns for template download.
type Format struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Headers     []string `json:"headers"`
}
