package reportshandler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"maplehr/internal/domain/reports"
	"maplehr/internal/domain/settings"
	"maplehr/internal/transport/http/api"
	"maplehr/internal/transport/http/shared"
)

// Reporter is implemented by reports.Service.
type Reporter interface {
	Dashboard(ctx context.Context) (reports.Dashboard, error)
	Headcount(ctx context.Context) (reports.Headcount, error)
	HeadcountPDF(ctx context.Context, companyName string) ([]byte, error)
}

type Handler struct {
	Reports  Reporter
	Settings settings.StoreAPI
	OrgKey   string
	Logger   *zap.Logger
}

func NewHandler(reporter Reporter, settingsStore settings.StoreAPI, orgKey string, logger *zap.Logger) *Handler {
	return &Handler{Reports: reporter, Settings: settingsStore, OrgKey: orgKey, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.handleDashboard)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/headcount", h.handleHeadcount)
		r.Get("/headcount.pdf", h.handleHeadcountPDF)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reports.Dashboard(r.Context())
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, stats)
}

func (h *Handler) handleHeadcount(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.Headcount(r.Context())
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	api.Success(w, report)
}

func (h *Handler) handleHeadcountPDF(w http.ResponseWriter, r *http.Request) {
	org, err := h.Settings.Get(r.Context(), h.OrgKey)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	pdf, err := h.Reports.HeadcountPDF(r.Context(), org.CompanyName)
	if err != nil {
		shared.WriteError(w, r, h.Logger, err)
		return
	}
	name := fmt.Sprintf("headcount-%s.pdf", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.Logger.Warn("write headcount pdf", zap.Error(err))
	}
}
