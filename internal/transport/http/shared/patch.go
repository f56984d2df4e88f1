package shared

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	domain "maplehr/internal/domain/shared"
	"maplehr/internal/transport/http/middleware"
)

// DecodePatch reads a PATCH body into a column patch. A body "version" wins over an If-Match
// header carrying the same value. Failures are written to w.
func DecodePatch(w http.ResponseWriter, r *http.Request, logger *zap.Logger, columns map[string]domain.Column) (domain.Patch, bool) {
	var body map[string]json.RawMessage
	if !DecodeJSON(w, r, &body) {
		return domain.Patch{}, false
	}
	patch, err := domain.DecodePatch(body, columns)
	if err != nil {
		WriteError(w, r, logger, err)
		return domain.Patch{}, false
	}
	if patch.Version == nil {
		raw := strings.TrimPrefix(strings.TrimSpace(r.Header.Get("If-Match")), "W/")
		if raw = strings.Trim(raw, `"`); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 {
				FailValidation(w, middleware.GetRequestID(r.Context()), []ValidationIssue{{Field: "If-Match", Reason: "must be a positive version number"}})
				return domain.Patch{}, false
			}
			patch.Version = &v
		}
	}
	return patch, true
}
