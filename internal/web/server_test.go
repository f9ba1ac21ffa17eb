package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gokul-culfit/d2c-uploader/internal/config"
	"github.com/gokul-culfit/d2c-uploader/internal/core"
	"github.com/gokul-culfit/d2c-uploader/internal/table"
	"github.com/gokul-culfit/d2c-uploader/internal/uploader"
)

type fakeDeliverer struct {
	err    error
	calls  int
	events []map[string]any
}

func (f *fakeDeliverer) Deliver(_ context.Context, _, _ string, events []map[string]any) error {
	f.calls++
	f.events = events
	return f.err
}

func salesUploader() *uploader.Config {
	return &uploader.Config{
		ID:                "sales",
		DisplayName:       "Store Sales",
		AcceptedFileTypes: []table.FileType{table.TypeCSV},
		EventName:         "store_sales",
		KafkaTopic:        "sales_topic",
		FormatHeaders:     []string{"store code", "month", "revenue"},
		MapRow: func(row *table.RawRow, _ int) (any, error) {
			store := uploader.StringField(row, "store code")
			if store == "" && row.AllEmpty() {
				return nil, nil
			}
			if store == "" {
				return nil, fmt.Errorf("store code is required")
			}
			return map[string]any{
				"store":   store,
				"month":   uploader.StringField(row, "month"),
				"revenue": uploader.NumberField(row, "revenue"),
			}, nil
		},
		BuildKey: func(any) string { return "" },
	}
}

func testConfig(requireAuth bool) *config.Config {
	cfg := &config.Config{}
	cfg.Server.RequestTimeout = time.Minute
	cfg.Upload.MaxFileSize = 1 << 20
	cfg.Auth.Require = requireAuth
	cfg.Auth.Secret = "test-secret"
	return cfg
}

func testServer(requireAuth bool, fake *fakeDeliverer) *Server {
	service := core.NewService(uploader.NewRegistry(salesUploader()), fake)
	return NewServer(testConfig(requireAuth), service)
}

func sessionToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ops@example.com",
		"name":  "Ops User",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

const salesCSV = "Store Code,Month,Revenue\nS001,M1,100\nS002,M2,200\n"

func TestHealthz(t *testing.T) {
	srv := testServer(true, &fakeDeliverer{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// Health stays reachable without a session token.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	srv := testServer(true, &fakeDeliverer{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploaders", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestListUploaders(t *testing.T) {
	srv := testServer(false, &fakeDeliverer{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploaders", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Uploaders []uploader.Summary `json:"uploaders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Uploaders) != 1 || body.Uploaders[0].ID != "sales" {
		t.Errorf("uploaders = %+v", body.Uploaders)
	}
}

func TestGetFormat(t *testing.T) {
	srv := testServer(false, &fakeDeliverer{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploaders/sales/format", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploaders/nope/format", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown uploader status = %d, want 404", rec.Code)
	}
}

func multipartBody(t *testing.T, fileName, contents string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestUploadMultipartPreview(t *testing.T) {
	fake := &fakeDeliverer{}
	srv := testServer(false, fake)

	body, contentType := multipartBody(t, "sales.csv", salesCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/sales?preview=1", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if fake.calls != 0 {
		t.Error("preview must not deliver")
	}

	var outcome core.UploadOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !outcome.Preview || outcome.ValidRows != 2 {
		t.Errorf("outcome = %+v", outcome)
	}
}

func TestUploadJSONCommit(t *testing.T) {
	fake := &fakeDeliverer{}
	srv := testServer(true, fake)

	payload, _ := json.Marshal(map[string]string{
		"fileName": "sales.csv",
		"mimeType": "text/csv",
		"data":     salesCSV,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/upload/sales", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sessionToken(t))

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if fake.calls != 1 {
		t.Fatalf("delivery calls = %d, want 1", fake.calls)
	}
	if len(fake.events) != 2 {
		t.Fatalf("delivered events = %d, want 2", len(fake.events))
	}
	// The authenticated principal is stamped onto delivered events.
	if fake.events[0]["uploadedBy"] != "ops@example.com" {
		t.Errorf("uploadedBy = %v", fake.events[0]["uploadedBy"])
	}

	var outcome core.UploadOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if outcome.SentToKafka == nil || *outcome.SentToKafka != 2 {
		t.Errorf("sentToKafka = %v, want 2", outcome.SentToKafka)
	}
}

func TestUploadUnknownUploader(t *testing.T) {
	srv := testServer(false, &fakeDeliverer{})

	body, contentType := multipartBody(t, "sales.csv", salesCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/nope", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "UPL001") {
		t.Errorf("body = %s, want error code UPL001", rec.Body.String())
	}
}

func TestUploadUnsupportedType(t *testing.T) {
	srv := testServer(false, &fakeDeliverer{})

	body, contentType := multipartBody(t, "notes.txt", "hello")
	req := httptest.NewRequest(http.MethodPost, "/api/upload/sales", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadBadHeadersCommit(t *testing.T) {
	fake := &fakeDeliverer{}
	srv := testServer(false, fake)

	body, contentType := multipartBody(t, "sales.csv", "Wrong,Columns\na,b\n")
	req := httptest.NewRequest(http.MethodPost, "/api/upload/sales", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if fake.calls != 0 {
		t.Error("bad headers must not deliver")
	}

	var outcome core.UploadOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if outcome.ColumnsValid == nil || *outcome.ColumnsValid {
		t.Error("columnsValid should be false")
	}
	if outcome.MissingColumns == nil || len(*outcome.MissingColumns) == 0 {
		t.Error("missingColumns should be reported")
	}
}

func TestUploadDeliveryFailure(t *testing.T) {
	fake := &fakeDeliverer{err: fmt.Errorf("webhook returned 503: overloaded")}
	srv := testServer(false, fake)

	body, contentType := multipartBody(t, "sales.csv", salesCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/sales", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestUploadMissingFile(t *testing.T) {
	srv := testServer(false, &fakeDeliverer{})

	payload := []byte(`{"fileName":"sales.csv","mimeType":"text/csv","data":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/sales", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FILE004") {
		t.Errorf("body = %s, want error code FILE004", rec.Body.String())
	}
}
