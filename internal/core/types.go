package core

import (
	"github.com/gokul-culfit/d2c-uploader/internal/table"
)

// Bounds for the samples returned in responses.
const (
	maxPreviewRows   = 1000
	maxPreviewEvents = 1000
	maxRowErrors     = 50
)

// UploadRequest carries one already-authenticated upload through the
// engine.
type UploadRequest struct {
	UploaderID string
	FileName   string
	MimeType   string
	Data       []byte

	// Preview requests validate and map but never deliver.
	Preview bool

	// UploadedBy is the authenticated principal, stamped onto every
	// delivered event.
	UploadedBy string
}

// UploadOutcome is the structured result of an upload request.
//
// Field presence varies by mode, matching the response contract:
// preview responses always carry missingColumns, rows, events and
// rowErrors (empty arrays when there is nothing to report), a delivery
// failure always carries rowErrors, and a successful commit omits
// rowErrors when no row failed. Slice fields are pointers so an
// intentionally empty list serializes as [] instead of being dropped.
// Invariant: SentToKafka > 0 implies ColumnsValid and successful
// delivery of every batch.
type UploadOutcome struct {
	Preview        bool             `json:"preview,omitempty"`
	Success        bool             `json:"success"`
	UploaderID     string           `json:"uploaderId"`
	TotalRows      int              `json:"totalRows"`
	ValidRows      int              `json:"validRows"`
	SentToKafka    *int             `json:"sentToKafka,omitempty"`
	ColumnsValid   *bool            `json:"columnsValid,omitempty"`
	MissingColumns *[]string        `json:"missingColumns,omitempty"`
	Rows           *[]*table.RawRow `json:"rows,omitempty"`
	Events         *[]any           `json:"events,omitempty"`
	RowErrors      *[]string        `json:"rowErrors,omitempty"`
	Error          string           `json:"error,omitempty"`

	// HTTPStatus is the suggested response status for the web glue.
	HTTPStatus int `json:"-"`
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

// stringsField and friends pin a slice into a response field, turning
// nil into an empty array so the key is emitted.
func stringsField(s []string) *[]string {
	if s == nil {
		s = []string{}
	}
	return &s
}

func rowsField(rows []*table.RawRow) *[]*table.RawRow {
	if rows == nil {
		rows = []*table.RawRow{}
	}
	return &rows
}

func eventsField(events []any) *[]any {
	if events == nil {
		events = []any{}
	}
	return &events
}
