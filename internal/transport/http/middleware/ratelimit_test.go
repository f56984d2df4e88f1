package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maplehr/internal/domain/auth"
)

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func send(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitKeysOnUserAcrossAddresses(t *testing.T) {
	limited := RateLimit(1, time.Minute, nil)(http.HandlerFunc(noContent))
	userCtx := WithUser(context.Background(), auth.UserContext{UserID: "user-1", Role: auth.RoleEmployee})

	first := httptest.NewRequest(http.MethodPost, "/api/claims", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	require.Equal(t, http.StatusNoContent, send(limited, first).Code)

	second := httptest.NewRequest(http.MethodPost, "/api/claims", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	rec := send(limited, second)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitKeysOnAddressWhenAnonymous(t *testing.T) {
	limited := RateLimit(1, time.Minute, nil)(http.HandlerFunc(noContent))

	first := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	require.Equal(t, http.StatusNoContent, send(limited, first).Code)

	samePort := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	samePort.RemoteAddr = "203.0.113.10:5555"
	assert.Equal(t, http.StatusTooManyRequests, send(limited, samePort).Code)

	other := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	other.RemoteAddr = "203.0.113.99:5555"
	assert.Equal(t, http.StatusNoContent, send(limited, other).Code)
}

func TestQuotaWindowCloses(t *testing.T) {
	q := newQuota(2, time.Minute)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	ok, remaining, until := q.take("a", start)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, start.Add(time.Minute), until)

	ok, _, _ = q.take("a", start.Add(10*time.Second))
	assert.True(t, ok)
	ok, remaining, _ = q.take("a", start.Add(20*time.Second))
	assert.False(t, ok)
	assert.Zero(t, remaining)

	ok, remaining, _ = q.take("a", start.Add(time.Minute))
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
}

func TestQuotaSweepsExpiredWindows(t *testing.T) {
	q := newQuota(1, time.Second)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range sweepThreshold {
		q.take(strconv.Itoa(i), start)
	}
	q.take("late", start.Add(2*time.Second))
	assert.Len(t, q.windows, 1)
}

func TestRateLimitDisabled(t *testing.T) {
	limited := RateLimit(0, time.Minute, nil)(http.HandlerFunc(noContent))
	for range 5 {
		assert.Equal(t, http.StatusNoContent, send(limited, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}
