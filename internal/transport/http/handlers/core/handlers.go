package corehandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"maplehr/internal/domain/core"
	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/middleware"
	"maplehr/internal/transport/http/shared"
)

type Handler struct {
	Store  core.StoreAPI
	Logger *zap.Logger
}

func NewHandler(store core.StoreAPI, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
	})
}

type listResponse struct {
	Employees []core.EmployeeWithUser `json:"employees"`
	Total     int                     `json:"total"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.Page(r)
	search := r.URL.Query().Get("search")

	var (
		employees []core.EmployeeWithUser
		total     int
		err       error
	)
	if search != "" {
		employees, err = h.Store.Search(r.Context(), search, page.Limit, page.Offset)
		if err == nil {
			total, err = h.Store.CountMatching(r.Context(), search)
		}
	} else {
		employees, err = h.Store.List(r.Context(), page.Limit, page.Offset)
		if err == nil {
			total, err = h.Store.Count(r.Context())
		}
	}
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, listResponse{Employees: employees, Total: total})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	emp, err := h.Store.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, emp)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload core.NewEmployee
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID)
	v.Required("department", payload.Department)
	v.Required("position", payload.Position)
	v.Date("joinDate", payload.JoinDate)
	v.Enum("status", payload.Status, core.Statuses)
	if payload.User == nil {
		v.Required("userId", payload.UserID)
	} else {
		v.Enum("user.role", payload.User.Role, core.Roles)
		if payload.User.Email != nil && !strings.Contains(*payload.User.Email, "@") {
			v.Add("user.email", "must be an email address")
		}
	}
	v.Decimal("salary", payload.Salary, false)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp, err := h.Store.Create(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Created(w, emp)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be an integer", middleware.GetRequestID(r.Context()))
		return
	}
	patch, ok := shared.DecodePatch(w, r, h.Logger, core.Columns)
	if !ok {
		return
	}
	emp, err := h.Store.Update(r.Context(), id, patch)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, emp)
}
