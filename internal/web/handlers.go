package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gokul-culfit/d2c-uploader/internal/core"
	"github.com/gokul-culfit/d2c-uploader/internal/table"
	mw "github.com/gokul-culfit/d2c-uploader/internal/web/middleware"
)

// handleHealth reports process liveness for load balancer checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListUploaders returns summaries of every registered uploader.
func (s *Server) handleListUploaders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"uploaders": s.service.ListUploaders(),
	})
}

// handleGetFormat returns the expected-column description for one uploader.
func (s *Server) handleGetFormat(w http.ResponseWriter, r *http.Request) {
	uploaderID := chi.URLParam(r, "uploaderID")

	format, ok := s.service.GetFormat(uploaderID)
	if !ok {
		writeError(w, http.StatusNotFound, core.MapError(core.ErrUnknownUploader))
		return
	}

	writeJSON(w, http.StatusOK, format)
}

// jsonUpload is the JSON-body alternative to multipart uploads. Data is
// the raw file text for CSV and base64 for Excel.
type jsonUpload struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// handleUpload runs the full upload pipeline for one file.
//
// The file arrives either as a multipart form field named "file" or as a
// JSON body. A truthy "preview" query parameter validates and maps
// without delivering.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	uploaderID := chi.URLParam(r, "uploaderID")

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	fileName, mimeType, data, ok := s.readUploadBody(w, r)
	if !ok {
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, core.MapError(errors.New("missing file data")))
		return
	}

	uploadedBy := ""
	if p, ok := mw.PrincipalFromContext(r.Context()); ok {
		uploadedBy = p.Email
	}

	preview := r.URL.Query().Get("preview")

	outcome, err := s.service.Upload(r.Context(), core.UploadRequest{
		UploaderID: uploaderID,
		FileName:   fileName,
		MimeType:   mimeType,
		Data:       data,
		Preview:    preview == "1" || preview == "true",
		UploadedBy: uploadedBy,
	})
	if err != nil {
		writeError(w, uploadErrorStatus(err), core.MapError(err))
		return
	}

	writeJSON(w, outcome.HTTPStatus, outcome)
}

// readUploadBody extracts the file from either a multipart form or a
// JSON body. On failure it writes the error response and returns ok
// false.
func (s *Server) readUploadBody(w http.ResponseWriter, r *http.Request) (fileName, mimeType string, data []byte, ok bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
			writeError(w, http.StatusBadRequest, core.UserMessage{
				Message: "File too large or invalid form",
				Action:  "Upload a smaller file",
				Code:    "FILE005",
			})
			return "", "", nil, false
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, core.MapError(errors.New("missing file data")))
			return "", "", nil, false
		}
		defer file.Close()

		data, err = io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, core.UserMessage{
				Message: "Failed to read uploaded file",
				Action:  "Try the upload again",
				Code:    "FILE006",
			})
			return "", "", nil, false
		}

		return header.Filename, header.Header.Get("Content-Type"), data, true
	}

	var body jsonUpload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, core.UserMessage{
			Message: "Invalid request body",
			Action:  "Send a multipart form or a JSON body with fileName, mimeType and data",
			Code:    "REQ003",
		})
		return "", "", nil, false
	}

	data = []byte(body.Data)

	// Excel payloads cannot ride raw JSON strings, so they come base64
	// encoded; CSV text is passed through as-is.
	if ft, ok := table.DetectFileType(body.FileName, body.MimeType); ok && ft == table.TypeExcel {
		decoded, err := base64.StdEncoding.DecodeString(body.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, core.UserMessage{
				Message: "Excel data must be base64 encoded",
				Action:  "Encode the file contents as base64 before sending",
				Code:    "FILE007",
			})
			return "", "", nil, false
		}
		data = decoded
	}

	return body.FileName, body.MimeType, data, true
}

// uploadErrorStatus maps abort-class pipeline errors to HTTP statuses.
func uploadErrorStatus(err error) int {
	var parseErr *table.ParseError

	switch {
	case errors.Is(err, core.ErrUnknownUploader):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.As(err, &parseErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
