package leavehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"maplehr/internal/domain/adjudication"
	"maplehr/internal/domain/leave"
	"maplehr/internal/domain/settings"
	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/middleware"
	"maplehr/internal/transport/http/shared"
)

type Handler struct {
	Store       leave.StoreAPI
	Adjudicator *adjudication.Service
	Settings    settings.StoreAPI
	OrgKey      string
	Logger      *zap.Logger
}

func NewHandler(store leave.StoreAPI, adjudicator *adjudication.Service, settingsStore settings.StoreAPI, orgKey string, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Adjudicator: adjudicator, Settings: settingsStore, OrgKey: orgKey, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave-requests", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Patch("/", h.handleUpdate)
			r.Post("/analyze", h.handleAnalyze)
			r.Post("/adjudicate", h.handleAdjudicate)
			r.Get("/decisions", h.handleDecisions)
		})
	})
}

type listResponse struct {
	LeaveRequests []leave.LeaveRequestWithEmployee `json:"leaveRequests"`
	Stats         leave.Stats                      `json:"stats"`
}

type adjudicateResponse struct {
	adjudication.Result
	LeaveRequest *leave.LeaveRequestWithEmployee `json:"leaveRequest"`
}

type createRequest struct {
	EmployeeID int64   `json:"employeeId"`
	Type       string  `json:"type"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Days       *int    `json:"days"`
	Reason     *string `json:"reason"`
	Status     string  `json:"status"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.Page(r)
	employeeID, ok := shared.OptionalInt64(r, "employeeId")
	if !ok {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "employeeId", Reason: "must be an integer"}})
		return
	}
	filter := leave.Filter{Status: r.URL.Query().Get("status"), EmployeeID: employeeID}

	list, err := h.Store.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	stats, err := h.Store.Stats(r.Context())
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, listResponse{LeaveRequests: list, Stats: stats})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	api.Success(w, req)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	v.Positive("employeeId", payload.EmployeeID)
	v.Required("type", payload.Type)
	v.Enum("status", payload.Status, leave.Statuses)
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)

	var days int
	if startOK && endOK && !end.Before(start) {
		days, _ = leave.CalculateDays(start, end)
	}
	if payload.Days != nil {
		if *payload.Days <= 0 {
			v.Add("days", "must be positive")
		}
		days = *payload.Days
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Store.Create(r.Context(), leave.NewLeaveRequest{
		EmployeeID: payload.EmployeeID,
		Type:       payload.Type,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     payload.Reason,
		Status:     payload.Status,
	})
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Created(w, req)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "leave request id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	patch, ok := shared.DecodePatch(w, r, h.Logger, leave.Columns)
	if !ok {
		return
	}
	req, err := h.Store.Update(r.Context(), id, patch)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, req)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	key, ok := shared.ModelAPIKey(w, r)
	if !ok {
		return
	}
	res, err := h.Adjudicator.AnalyzeLeave(r.Context(), *req, adjudication.Call{APIKey: key, RequestID: middleware.GetRequestID(r.Context())})
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, res)
}

func (h *Handler) handleAdjudicate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	key, ok := shared.ModelAPIKey(w, r)
	if !ok {
		return
	}
	org, err := h.Settings.Get(r.Context(), h.OrgKey)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	res, current, err := h.Adjudicator.AdjudicateLeave(r.Context(), *req, org, adjudication.Call{APIKey: key, RequestID: middleware.GetRequestID(r.Context())})
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, adjudicateResponse{Result: res, LeaveRequest: current})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*leave.LeaveRequestWithEmployee, bool) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "leave request id must be an integer", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	req, err := h.Store.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return nil, false
	}
	return req, true
}

func (h *Handler) handleDecisions(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "leave request id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	if _, err := h.Store.Get(r.Context(), id); err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	history, err := h.Adjudicator.History(r.Context(), adjudication.SubjectLeaveRequest, id)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, map[string]any{"decisions": history})
}
