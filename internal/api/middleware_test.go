package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func authProbe(gotUserID *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := GetUserID(r.Context()); ok {
			*gotUserID = userID
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	var gotUserID uuid.UUID
	handler := AuthMiddleware(testSecret)(authProbe(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != userID {
		t.Fatalf("expected user id %s in context, got %s", userID, gotUserID)
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	tests := []struct {
		name   string
		header func(t *testing.T) string
	}{
		{name: "missing header", header: func(t *testing.T) string { return "" }},
		{name: "not a bearer token", header: func(t *testing.T) string { return "Basic abc123" }},
		{name: "garbage token", header: func(t *testing.T) string { return "Bearer not.a.token" }},
		{name: "wrong signing key", header: func(t *testing.T) string {
			return "Bearer " + signToken(t, "other-secret", uuid.NewString())
		}},
		{name: "expired token", header: func(t *testing.T) string {
			claims := jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			if err != nil {
				t.Fatalf("failed to sign token: %v", err)
			}
			return "Bearer " + token
		}},
		{name: "non-uuid subject", header: func(t *testing.T) string {
			return "Bearer " + signToken(t, testSecret, "not-a-uuid")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID uuid.UUID
			handler := AuthMiddleware(testSecret)(authProbe(&gotUserID))
			req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
			if header := tt.header(t); header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if gotUserID != uuid.Nil {
				t.Fatal("expected no user id to reach the handler")
			}
		})
	}
}

func TestAdminKeyMiddleware(t *testing.T) {
	handler := AdminKeyMiddleware("admin-key")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/earnings/run", nil)
	req.Header.Set("X-Api-Key", "admin-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/earnings/run", nil)
	req.Header.Set("X-Api-Key", "wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with wrong key, got %d", rec.Code)
	}
}

func TestAdminKeyMiddlewareDisabledWithoutKey(t *testing.T) {
	handler := AdminKeyMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/earnings/run", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when no admin key is configured, got %d", rec.Code)
	}
}
