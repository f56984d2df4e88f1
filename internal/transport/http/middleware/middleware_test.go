package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maplehr/internal/domain/auth"
	"maplehr/internal/platform/metrics"
)

func TestAuthAttachesUser(t *testing.T) {
	token, err := auth.GenerateToken("test-secret", auth.Claims{UserID: "u1", Role: auth.RoleManager}, time.Hour)
	require.NoError(t, err)

	var seen auth.UserContext
	var found bool
	handler := Auth("test-secret", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, found = GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer  "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, found)
	assert.Equal(t, auth.UserContext{UserID: "u1", Role: auth.RoleManager}, seen)
}

func TestAuthIgnoresUnusableTokens(t *testing.T) {
	expired, err := auth.GenerateToken("secret", auth.Claims{UserID: "u1", Role: auth.RoleAdmin}, -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("other", auth.Claims{UserID: "u1", Role: auth.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	handler := Auth("secret", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := GetUser(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusNoContent)
	}))
	for _, header := range []string{"", "Bearer", "Bearer not-a-jwt", "Basic dXNlcjpwYXNz", "Bearer " + expired, "Bearer " + foreign} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		assert.Equal(t, http.StatusNoContent, send(handler, req).Code, header)
	}
}

func TestRequireRole(t *testing.T) {
	gate := RequireRole(auth.RoleAdmin, auth.RoleManager)(http.HandlerFunc(noContent))

	rec := send(gate, httptest.NewRequest(http.MethodPut, "/api/settings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodPut, "/api/settings", nil)
	req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u3", Role: auth.RoleEmployee}))
	rec = send(gate, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "forbidden", body["code"])

	req = httptest.NewRequest(http.MethodPut, "/api/settings", nil)
	req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u2", Role: auth.RoleAdmin}))
	assert.Equal(t, http.StatusNoContent, send(gate, req).Code)
}

func TestRequestIDPropagatesOrMints(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := send(handler, req)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	send(handler, req)
	assert.Len(t, seen, 36)
}

func TestBodyLimit(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	handler := BodyLimit(8)(echo)

	declared := httptest.NewRequest(http.MethodPost, "/api/claims", strings.NewReader(`{"description":"far too long"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, send(handler, declared).Code)

	undeclared := httptest.NewRequest(http.MethodPost, "/api/claims", io.NopCloser(bytes.NewReader(bytes.Repeat([]byte("a"), 32))))
	undeclared.ContentLength = -1
	assert.Equal(t, http.StatusRequestEntityTooLarge, send(handler, undeclared).Code)

	small := httptest.NewRequest(http.MethodPost, "/api/claims", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusNoContent, send(handler, small).Code)
}

func TestSecureHeaders(t *testing.T) {
	rec := send(SecureHeaders(false)(http.HandlerFunc(noContent)), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = send(SecureHeaders(true)(http.HandlerFunc(noContent)), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	assert.Equal(t, http.StatusInternalServerError, send(handler, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestLoggerFeedsCollector(t *testing.T) {
	collector := metrics.New()
	r := chi.NewRouter()
	r.Use(Logger(zap.NewNop(), collector))
	r.Get("/claims/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	send(r, httptest.NewRequest(http.MethodGet, "/claims/1", nil))
	send(r, httptest.NewRequest(http.MethodGet, "/claims/2", nil))
	send(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.InDelta(t, 2, testutil.ToFloat64(collector.Requests(http.MethodGet, "/claims/{id}", http.StatusTeapot)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.Requests(http.MethodGet, metrics.UnmatchedRoute, http.StatusNotFound)), 0)
}
