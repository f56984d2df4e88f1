package claimshandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"maplehr/internal/domain/adjudication"
	"maplehr/internal/domain/claims"
	"maplehr/internal/domain/settings"
	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/middleware"
	"maplehr/internal/transport/http/shared"
)

type Handler struct {
	Store       claims.StoreAPI
	Adjudicator *adjudication.Service
	Settings    settings.StoreAPI
	OrgKey      string
	Logger      *zap.Logger
}

func NewHandler(store claims.StoreAPI, adjudicator *adjudication.Service, settingsStore settings.StoreAPI, orgKey string, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Adjudicator: adjudicator, Settings: settingsStore, OrgKey: orgKey, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/claims", func(r chi.Router) {
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
	Claims []claims.ClaimWithEmployee `json:"claims"`
	Stats  claims.Stats               `json:"stats"`
}

type adjudicateResponse struct {
	adjudication.Result
	Claim *claims.ClaimWithEmployee `json:"claim"`
}

type createRequest struct {
	EmployeeID  int64           `json:"employeeId"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	ReceiptURL  *string         `json:"receiptUrl"`
	ClaimDate   string          `json:"claimDate"`
	Status      string          `json:"status"`
	Notes       *string         `json:"notes"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.Page(r)
	employeeID, ok := shared.OptionalInt64(r, "employeeId")
	if !ok {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "employeeId", Reason: "must be an integer"}})
		return
	}
	filter := claims.Filter{Status: r.URL.Query().Get("status"), EmployeeID: employeeID}

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
	api.Success(w, listResponse{Claims: list, Stats: stats})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	claim, ok := h.load(w, r)
	if !ok {
		return
	}
	api.Success(w, claim)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	v.Positive("employeeId", payload.EmployeeID)
	v.Required("category", payload.Category)
	v.Required("description", payload.Description)
	v.Enum("status", payload.Status, claims.Statuses)
	claimDate, _ := v.Date("claimDate", payload.ClaimDate)
	amount, _ := v.Decimal("amount", payload.Amount, true)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	claim, err := h.Store.Create(r.Context(), claims.NewClaim{
		EmployeeID:  payload.EmployeeID,
		Category:    strings.TrimSpace(payload.Category),
		Description: payload.Description,
		Amount:      amount,
		ReceiptURL:  payload.ReceiptURL,
		ClaimDate:   claimDate,
		Status:      payload.Status,
		Notes:       payload.Notes,
	})
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Created(w, claim)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "claim id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	patch, ok := shared.DecodePatch(w, r, h.Logger, claims.Columns)
	if !ok {
		return
	}
	claim, err := h.Store.Update(r.Context(), id, patch)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, claim)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	claim, ok := h.load(w, r)
	if !ok {
		return
	}
	key, ok := shared.ModelAPIKey(w, r)
	if !ok {
		return
	}
	res, err := h.Adjudicator.AnalyzeClaim(r.Context(), *claim, adjudication.Call{APIKey: key, RequestID: middleware.GetRequestID(r.Context())})
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, res)
}

func (h *Handler) handleAdjudicate(w http.ResponseWriter, r *http.Request) {
	claim, ok := h.load(w, r)
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
	res, current, err := h.Adjudicator.AdjudicateClaim(r.Context(), *claim, org, adjudication.Call{APIKey: key, RequestID: middleware.GetRequestID(r.Context())})
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, adjudicateResponse{Result: res, Claim: current})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*claims.ClaimWithEmployee, bool) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "claim id must be an integer", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	claim, err := h.Store.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return nil, false
	}
	return claim, true
}

func (h *Handler) handleDecisions(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "claim id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	if _, err := h.Store.Get(r.Context(), id); err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	history, err := h.Adjudicator.History(r.Context(), adjudication.SubjectClaim, id)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, map[string]any{"decisions": history})
}
