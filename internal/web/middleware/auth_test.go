package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gokul-culfit/d2c-uploader/internal/config"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: "ops@example.com",
		Name:  "Ops User",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authedHandler(cfg *config.AuthConfig, captured *Principal) http.Handler {
	return SessionAuth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFromContext(r.Context()); ok {
			*captured = p
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestSessionAuthValidToken(t *testing.T) {
	cfg := &config.AuthConfig{Require: true, Secret: testSecret}
	var principal Principal
	handler := authedHandler(cfg, &principal)

	req := httptest.NewRequest(http.MethodGet, "/api/uploaders", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if principal.Email != "ops@example.com" || principal.Name != "Ops User" {
		t.Errorf("principal = %+v", principal)
	}
}

func TestSessionAuthRejections(t *testing.T) {
	cfg := &config.AuthConfig{Require: true, Secret: testSecret}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", time.Now().Add(time.Hour))},
		{"expired", "Bearer " + signToken(t, testSecret, time.Now().Add(-time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var principal Principal
			handler := authedHandler(cfg, &principal)

			req := httptest.NewRequest(http.MethodGet, "/api/uploaders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if principal.Email != "" {
				t.Error("handler should not run for rejected requests")
			}
		})
	}
}

func TestSessionAuthDisabled(t *testing.T) {
	cfg := &config.AuthConfig{Require: false}
	var principal Principal
	handler := authedHandler(cfg, &principal)

	req := httptest.NewRequest(http.MethodGet, "/api/uploaders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if principal.Email != "" {
		t.Error("no principal expected when auth is disabled")
	}
}
