package performancehandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"maplehr/internal/domain/performance"
	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/middleware"
	"maplehr/internal/transport/http/shared"
)

type Handler struct {
	Store  performance.StoreAPI
	Logger *zap.Logger
}

func NewHandler(store performance.StoreAPI, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance-reviews", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/summary", h.handleSummary)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
	})
}

type createRequest struct {
	EmployeeID   int64           `json:"employeeId"`
	ReviewerID   string          `json:"reviewerId"`
	Period       string          `json:"period"`
	Goals        json.RawMessage `json:"goals"`
	Achievements json.RawMessage `json:"achievements"`
	Rating       *int            `json:"rating"`
	Feedback     *string         `json:"feedback"`
	Status       string          `json:"status"`
	DueDate      *string         `json:"dueDate"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.Page(r)
	employeeID, ok := shared.OptionalInt64(r, "employeeId")
	if !ok {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "employeeId", Reason: "must be an integer"}})
		return
	}
	reviews, err := h.Store.List(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, reviews)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Store.Summary(r.Context())
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, summary)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "review id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	review, err := h.Store.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, review)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	reviewer := strings.TrimSpace(payload.ReviewerID)
	if reviewer == "" {
		if user, ok := middleware.GetUser(r.Context()); ok {
			reviewer = user.UserID
		}
	}

	v := shared.NewValidator()
	v.Positive("employeeId", payload.EmployeeID)
	v.Required("reviewerId", reviewer)
	v.Required("period", payload.Period)
	v.Enum("status", payload.Status, performance.Statuses)
	if payload.Rating != nil && (*payload.Rating < 1 || *payload.Rating > 5) {
		v.Add("rating", "must be between 1 and 5")
	}
	for field, raw := range map[string]json.RawMessage{"goals": payload.Goals, "achievements": payload.Achievements} {
		if len(raw) > 0 && !json.Valid(raw) {
			v.Add(field, "must be valid JSON")
		}
	}
	dueDate := v.OptionalDate("dueDate", payload.DueDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	review, err := h.Store.Create(r.Context(), performance.NewReview{
		EmployeeID:   payload.EmployeeID,
		ReviewerID:   reviewer,
		Period:       payload.Period,
		Goals:        payload.Goals,
		Achievements: payload.Achievements,
		Rating:       payload.Rating,
		Feedback:     payload.Feedback,
		Status:       payload.Status,
		DueDate:      dueDate,
	})
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Created(w, review)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "review id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	patch, ok := shared.DecodePatch(w, r, h.Logger, performance.Columns)
	if !ok {
		return
	}
	review, err := h.Store.Update(r.Context(), id, patch)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, review)
}
