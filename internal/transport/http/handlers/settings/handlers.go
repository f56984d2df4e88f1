package settingshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"maplehr/internal/domain/auth"
	"maplehr/internal/domain/settings"
	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/middleware"
	"maplehr/internal/transport/http/shared"
)

type Handler struct {
	Store  settings.StoreAPI
	OrgKey string
	Logger *zap.Logger
}

func NewHandler(store settings.StoreAPI, orgKey string, logger *zap.Logger) *Handler {
	return &Handler{Store: store, OrgKey: orgKey, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Put("/settings", h.handlePut)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	out, err := h.Store.Get(r.Context(), h.OrgKey)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, out)
}

// handlePut replaces the whole settings row; omitted fields fall back to their defaults.
func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	payload := settings.Defaults()
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	payload.UpdatedBy = nil
	payload.UpdatedAt = nil
	if err := payload.Validate(); err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}

	user, _ := middleware.GetUser(r.Context())
	out, err := h.Store.Put(r.Context(), h.OrgKey, payload, user.UserID)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	h.Logger.Info("organization settings updated", zap.String("updatedBy", user.UserID),
		zap.String("requestId", middleware.GetRequestID(r.Context())))
	api.Success(w, out)
}
