package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"later/internal/auth"
	"later/internal/domain"
	"later/internal/httputil"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*auth.SupabaseClaims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	claims := &auth.SupabaseClaims{Role: "authenticated"}
	claims.Subject = "user-1"
	return claims, nil
}

func (stubVerifier) Close() error { return nil }

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, httputil.GetUserID(r))
	})
}

func TestAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := AuthMiddleware(stubVerifier{}, logger)(echoUser())

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{name: "valid token", path: "/api/workspaces", header: "Bearer good", status: http.StatusOK, body: "user-1"},
		{name: "invalid token", path: "/api/workspaces", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "missing header", path: "/api/workspaces", status: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/api/workspaces", header: "Basic good", status: http.StatusUnauthorized},
		{name: "health is public", path: "/health", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	DevAuthMiddleware("dev-user")(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Body.String() != "dev-user" {
		t.Errorf("user = %q", rec.Body.String())
	}
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRequestLogger_PreservesFlusher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, ok := w.(http.Flusher); !ok {
			t.Error("wrapped writer should implement http.Flusher")
		}
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}
