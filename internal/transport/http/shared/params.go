package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/middleware"
)

// PathID parses the integer route parameter name.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// OptionalInt64 reads an integer query parameter. ok is false when present but malformed.
func OptionalInt64(r *http.Request, name string) (value *int64, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// ModelAPIKey returns the caller-supplied model key from the X-Model-Api-Key header or an
// optional {"modelApiKey": "..."} body. An empty body is fine.
func ModelAPIKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	if key := strings.TrimSpace(r.Header.Get("X-Model-Api-Key")); key != "" {
		return key, true
	}
	if r.Body == nil || r.ContentLength == 0 {
		return "", true
	}
	var body struct {
		ModelAPIKey string `json:"modelApiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return strings.TrimSpace(body.ModelAPIKey), true
}
