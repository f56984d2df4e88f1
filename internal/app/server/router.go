package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"maplehr/internal/domain/adjudication"
	"maplehr/internal/domain/chat"
	"maplehr/internal/domain/claims"
	"maplehr/internal/domain/core"
	"maplehr/internal/domain/leave"
	"maplehr/internal/domain/performance"
	"maplehr/internal/domain/settings"
	"maplehr/internal/domain/tickets"
	"maplehr/internal/platform/config"
	"maplehr/internal/platform/metrics"
	chathandler "maplehr/internal/transport/http/handlers/chat"
	claimshandler "maplehr/internal/transport/http/handlers/claims"
	corehandler "maplehr/internal/transport/http/handlers/core"
	leavehandler "maplehr/internal/transport/http/handlers/leave"
	performancehandler "maplehr/internal/transport/http/handlers/performance"
	reportshandler "maplehr/internal/transport/http/handlers/reports"
	settingshandler "maplehr/internal/transport/http/handlers/settings"
	ticketshandler "maplehr/internal/transport/http/handlers/tickets"
	"maplehr/internal/transport/http/middleware"
)

// Pinger reports database readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router needs. New fills it from Postgres; tests fill it with fakes.
type Deps struct {
	Config      config.Config
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	Ready       Pinger
	Employees   core.StoreAPI
	Claims      claims.StoreAPI
	Tickets     tickets.StoreAPI
	Leave       leave.StoreAPI
	Reviews     performance.StoreAPI
	Settings    settings.StoreAPI
	Chat        chat.StoreAPI
	Assistant   chathandler.Assistant
	Adjudicator *adjudication.Service
	Reports     reportshandler.Reporter
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	collector := d.Metrics
	if collector == nil {
		collector = metrics.New()
	}
	cfg := d.Config
	orgKey := cfg.OrganizationKey

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, collector))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if d.Ready == nil || d.Ready.Ping(ctx) != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Method(http.MethodGet, "/metrics", collector.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, logger))

		corehandler.NewHandler(d.Employees, logger).RegisterRoutes(r)
		claimshandler.NewHandler(d.Claims, d.Adjudicator, d.Settings, orgKey, logger).RegisterRoutes(r)
		ticketshandler.NewHandler(d.Tickets, logger).RegisterRoutes(r)
		leavehandler.NewHandler(d.Leave, d.Adjudicator, d.Settings, orgKey, logger).RegisterRoutes(r)
		performancehandler.NewHandler(d.Reviews, logger).RegisterRoutes(r)
		chathandler.NewHandler(d.Chat, d.Assistant, logger).RegisterRoutes(r)
		settingshandler.NewHandler(d.Settings, orgKey, logger).RegisterRoutes(r)
		reportshandler.NewHandler(d.Reports, d.Settings, orgKey, logger).RegisterRoutes(r)
	})

	return router
}
