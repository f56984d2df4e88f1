package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	domain "maplehr/internal/domain/shared"
	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/middleware"
)

// DecodeJSON reads the request body into dst and writes the 400/413 response itself on failure.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	requestID := middleware.GetRequestID(r.Context())
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
	case errors.Is(err, io.EOF):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body is empty", requestID)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
	}
	return false
}

// WriteError maps domain and database errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	requestID := middleware.GetRequestID(r.Context())

	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		FailValidation(w, requestID, []ValidationIssue{{Field: fieldErr.Field, Reason: fieldErr.Reason}})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", notFoundMessage(err), requestID)
		return
	case errors.Is(err, domain.ErrVersionConflict):
		api.Fail(w, http.StatusConflict, "version_conflict", "record was modified by another request", requestID)
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			api.Fail(w, http.StatusBadRequest, "invalid_reference", "referenced record does not exist", requestID)
			return
		case "23505":
			api.Fail(w, http.StatusConflict, "already_exists", "record already exists", requestID)
			return
		case "22P02", "22003", "22007", "22008", "23514":
			api.Fail(w, http.StatusBadRequest, "invalid_value", "value rejected by the database", requestID)
			return
		}
	}

	if logger != nil {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("requestId", requestID),
			zap.Error(err))
	}
	api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
}

// notFoundMessage turns "claim: record not found" into "claim not found".
func notFoundMessage(err error) string {
	entity, ok := strings.CutSuffix(err.Error(), ": "+domain.ErrNotFound.Error())
	if !ok {
		return domain.ErrNotFound.Error()
	}
	return entity + " not found"
}
