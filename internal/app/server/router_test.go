package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maplehr/internal/platform/config"
	"maplehr/internal/platform/metrics"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func testDeps(ready error) Deps {
	return Deps{
		Config: config.Config{
			Environment:        "test",
			OrganizationKey:    "default",
			MaxBodyBytes:       1024,
			RateLimitPerMinute: 2,
		},
		Metrics: metrics.New(),
		Ready:   pinger{err: ready},
	}
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	h := NewRouter(testDeps(nil))
	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(h, "/readyz").Code)

	down := NewRouter(testDeps(errors.New("no db")))
	assert.Equal(t, http.StatusServiceUnavailable, get(down, "/readyz").Code)
}

func TestResponsesCarryRequestIDAndSecurityHeaders(t *testing.T) {
	rec := get(NewRouter(testDeps(nil)), "/healthz")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestMetricsCountsRequests(t *testing.T) {
	deps := testDeps(nil)
	h := NewRouter(deps)
	get(h, "/healthz")
	get(h, "/nope")

	assert.InDelta(t, 1, testutil.ToFloat64(deps.Metrics.Requests(http.MethodGet, "/healthz", http.StatusOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(deps.Metrics.Requests(http.MethodGet, metrics.UnmatchedRoute, http.StatusNotFound)), 0)

	rec := get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `maplehr_http_requests_total{code="200",method="GET",route="/healthz"} 1`)
}

func TestAPIIsRateLimited(t *testing.T) {
	h := NewRouter(testDeps(nil))
	var last int
	for range 3 {
		req := httptest.NewRequest(http.MethodPut, "/api/settings", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
