package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"maplehr/internal/transport/http/api"
)

// sweepThreshold is the number of tracked callers above which expired windows are purged.
const sweepThreshold = 1024

type window struct {
	used  int
	until time.Time
}

// quota is a fixed-window request counter per caller key.
type quota struct {
	mu      sync.Mutex
	limit   int
	span    time.Duration
	windows map[string]*window
}

func newQuota(limit int, span time.Duration) *quota {
	return &quota{limit: limit, span: span, windows: make(map[string]*window)}
}

// take counts one request for key at now. It reports whether the request fits, how many
// remain in the current window and when the window closes.
func (q *quota) take(key string, now time.Time) (ok bool, remaining int, until time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()

	win := q.windows[key]
	if win == nil || !now.Before(win.until) {
		if len(q.windows) >= sweepThreshold {
			for k, w := range q.windows {
				if !now.Before(w.until) {
					delete(q.windows, k)
				}
			}
		}
		win = &window{until: now.Add(q.span)}
		q.windows[key] = win
	}
	win.used++
	return win.used <= q.limit, max(q.limit-win.used, 0), win.until
}

// RateLimit allows limit requests per span for each caller: the authenticated user when
// there is one, the client address otherwise. limit <= 0 disables the check.
func RateLimit(limit int, span time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := newQuota(limit, span)
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := callerKey(r)
			now := time.Now()
			ok, remaining, until := q.take(key, now)
			resetIn := int(math.Ceil(until.Sub(now).Seconds()))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
			if !ok {
				h.Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
				logger.Warn("rate limit exceeded",
					zap.String("caller", key),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("requestId", GetRequestID(r.Context())))
				api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func callerKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	if fwd, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(fwd) != "" {
		return "ip:" + strings.TrimSpace(fwd)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return "ip:" + host
	}
	return "ip:" + r.RemoteAddr
}
