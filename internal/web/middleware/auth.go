package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gokul-culfit/d2c-uploader/internal/config"
)

// Principal identifies the authenticated caller of an API request.
type Principal struct {
	Email string
	Name  string
}

// sessionClaims are the claims carried by a session JWT issued after the
// OAuth login flow.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type principalKey struct{}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// SessionAuth returns middleware that validates the Bearer session JWT
// on every request and injects the caller's Principal into the request
// context. If cfg.Require is false, requests pass through without a
// principal (local development).
func SessionAuth(cfg *config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Require {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				unauthorized(w, r, "Authentication required")
				return
			}

			claims, err := verifySession(token, cfg.Secret)
			if err != nil {
				unauthorized(w, r, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, Principal{
				Email: claims.Email,
				Name:  claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..."
// header; empty when absent or malformed.
func bearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// verifySession parses and validates a session JWT with the HMAC secret.
func verifySession(tokenString, secret string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	slog.Warn("auth: rejected request",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"success":false,"error":%q}`, message)
}
