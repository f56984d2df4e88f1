package ticketshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"maplehr/internal/domain/tickets"
	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/middleware"
	"maplehr/internal/transport/http/shared"
)

type Handler struct {
	Store  tickets.StoreAPI
	Logger *zap.Logger
}

func NewHandler(store tickets.StoreAPI, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
	})
}

type listResponse struct {
	Tickets []tickets.TicketWithEmployee `json:"tickets"`
	Stats   tickets.Stats                `json:"stats"`
}

type createRequest struct {
	EmployeeID  int64   `json:"employeeId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	AssignedTo  *string `json:"assignedTo"`
	DueDate     *string `json:"dueDate"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.Page(r)
	employeeID, ok := shared.OptionalInt64(r, "employeeId")
	if !ok {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "employeeId", Reason: "must be an integer"}})
		return
	}
	q := r.URL.Query()
	filter := tickets.Filter{Status: q.Get("status"), Priority: q.Get("priority"), EmployeeID: employeeID}

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
	api.Success(w, listResponse{Tickets: list, Stats: stats})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "ticket id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	ticket, err := h.Store.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, ticket)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	v.Positive("employeeId", payload.EmployeeID)
	v.Required("title", payload.Title)
	v.Required("description", payload.Description)
	v.Required("category", payload.Category)
	v.Enum("priority", payload.Priority, tickets.Priorities)
	v.Enum("status", payload.Status, tickets.Statuses)
	dueDate := v.OptionalDate("dueDate", payload.DueDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	ticket, err := h.Store.Create(r.Context(), tickets.NewTicket{
		EmployeeID:  payload.EmployeeID,
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Priority:    payload.Priority,
		Status:      payload.Status,
		AssignedTo:  payload.AssignedTo,
		DueDate:     dueDate,
	})
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Created(w, ticket)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "ticket id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	patch, ok := shared.DecodePatch(w, r, h.Logger, tickets.Columns)
	if !ok {
		return
	}
	ticket, err := h.Store.Update(r.Context(), id, patch)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, ticket)
}
