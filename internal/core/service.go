package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gokul-culfit/d2c-uploader/internal/logging"
	"github.com/gokul-culfit/d2c-uploader/internal/table"
	"github.com/gokul-culfit/d2c-uploader/internal/uploader"
)

// Sentinel errors for request-aborting failure modes. Header validation
// failures and delivery failures are NOT errors: they come back as
// structured UploadOutcome states.
var (
	ErrUnknownUploader = errors.New("unknown uploader")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Deliverer sends enriched events downstream. Satisfied by
// *webhook.Client; narrowed to an interface so the engine is testable
// with a fake.
type Deliverer interface {
	Deliver(ctx context.Context, eventName, kafkaTopic string, events []map[string]any) error
}

// Service is the validation and mapping engine.
type Service struct {
	registry *uploader.Registry
	delivery Deliverer
}

// NewService creates the engine over an immutable registry and a
// delivery client.
func NewService(registry *uploader.Registry, delivery Deliverer) *Service {
	return &Service{registry: registry, delivery: delivery}
}

// ListUploaders returns summary projections of every registered uploader.
func (s *Service) ListUploaders() []uploader.Summary {
	return s.registry.List()
}

// GetFormat returns the expected-column description for an uploader.
func (s *Service) GetFormat(id string) (*uploader.Format, bool) {
	return s.registry.Format(id)
}

// Upload runs the full pipeline for one request.
//
// Returned errors are abort-class only (unknown uploader, unsupported
// type, parse failure); every other outcome, including header validation
// and delivery failures, is reported as a structured UploadOutcome so
// nothing already computed is lost.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*UploadOutcome, error) {
	uploadID := uuid.New().String()
	logger := logging.WithFields(ctx,
		"upload_id", uploadID,
		"uploader", req.UploaderID,
		"file", req.FileName,
	)

	cfg, ok := s.registry.Get(req.UploaderID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUploader, req.UploaderID)
	}

	fileType, ok := table.DetectFileType(req.FileName, req.MimeType)
	if !ok || !cfg.Accepts(fileType) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, req.FileName, req.MimeType)
	}

	parsed, err := table.Parse(req.Data, fileType)
	if err != nil {
		logger.Error("parse failed", "file_type", fileType, "error", err)
		return nil, err
	}

	missing := cfg.ValidateHeaders(parsed.Headers)
	columnsValid := len(missing) == 0

	// Row mapping is skipped entirely when the header set is structurally
	// wrong; mapping against a known-bad schema would only produce noise.
	var events []any
	var rowErrors []string
	if columnsValid {
		for i, row := range parsed.Rows {
			event, err := cfg.MapRow(row, i+1)
			if err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %v", i+1, err))
				continue
			}
			if event != nil {
				events = append(events, event)
			}
		}
	}

	logger.Info("upload processed",
		"file_type", fileType,
		"total_rows", len(parsed.Rows),
		"valid_rows", len(events),
		"columns_valid", columnsValid,
		"row_errors", len(rowErrors),
		"preview", req.Preview,
	)

	if req.Preview {
		return &UploadOutcome{
			Preview:        true,
			Success:        columnsValid,
			UploaderID:     req.UploaderID,
			TotalRows:      len(parsed.Rows),
			ValidRows:      len(events),
			ColumnsValid:   boolPtr(columnsValid),
			MissingColumns: stringsField(missing),
			Rows:           rowsField(capRows(parsed.Rows, maxPreviewRows)),
			Events:         eventsField(capEvents(events, maxPreviewEvents)),
			RowErrors:      stringsField(capStrings(rowErrors, maxRowErrors)),
			HTTPStatus:     http.StatusOK,
		}, nil
	}

	if !columnsValid {
		return &UploadOutcome{
			Success:        false,
			UploaderID:     req.UploaderID,
			TotalRows:      len(parsed.Rows),
			ValidRows:      0,
			SentToKafka:    intPtr(0),
			ColumnsValid:   boolPtr(false),
			MissingColumns: stringsField(missing),
			HTTPStatus:     http.StatusBadRequest,
		}, nil
	}

	enriched, err := enrichEvents(events, req.UploadedBy)
	if err != nil {
		return nil, fmt.Errorf("enrich events: %w", err)
	}

	if err := s.delivery.Deliver(ctx, cfg.EventName, cfg.KafkaTopic, enriched); err != nil {
		logger.Error("delivery failed", "error", err)
		// Rows already validated stay reported as valid; sentToKafka 0
		// plus success false means nothing was durably delivered.
		return &UploadOutcome{
			Success:     false,
			UploaderID:  req.UploaderID,
			TotalRows:   len(parsed.Rows),
			ValidRows:   len(events),
			SentToKafka: intPtr(0),
			RowErrors:   stringsField(capStrings(rowErrors, maxRowErrors)),
			Error:       err.Error(),
			HTTPStatus:  http.StatusBadGateway,
		}, nil
	}

	logger.Info("upload delivered", "sent", len(enriched))

	outcome := &UploadOutcome{
		Success:     true,
		UploaderID:  req.UploaderID,
		TotalRows:   len(parsed.Rows),
		ValidRows:   len(enriched),
		SentToKafka: intPtr(len(enriched)),
		HTTPStatus:  http.StatusOK,
	}
	// A clean commit omits rowErrors entirely.
	if len(rowErrors) > 0 {
		outcome.RowErrors = stringsField(capStrings(rowErrors, maxRowErrors))
	}
	return outcome, nil
}

// enrichEvents stamps every event with the upload timestamp and the
// uploading principal. Events are flattened to maps so the stamps land
// inside each delivered object regardless of the uploader's event type.
func enrichEvents(events []any, uploadedBy string) ([]map[string]any, error) {
	if uploadedBy == "" {
		uploadedBy = "unknown"
	}
	uploadedAt := time.Now().UTC().Format(time.RFC3339Nano)

	enriched := make([]map[string]any, 0, len(events))
	for _, event := range events {
		raw, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		m["uploadedAt"] = uploadedAt
		m["uploadedBy"] = uploadedBy
		enriched = append(enriched, m)
	}
	return enriched, nil
}

func capRows(rows []*table.RawRow, limit int) []*table.RawRow {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func capEvents(events []any, limit int) []any {
	if len(events) > limit {
		return events[:limit]
	}
	return events
}

func capStrings(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
