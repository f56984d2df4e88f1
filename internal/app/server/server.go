package server

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"maplehr/internal/domain/adjudication"
	"maplehr/internal/domain/chat"
	"maplehr/internal/domain/claims"
	"maplehr/internal/domain/core"
	"maplehr/internal/domain/leave"
	"maplehr/internal/domain/performance"
	"maplehr/internal/domain/reports"
	"maplehr/internal/domain/settings"
	"maplehr/internal/domain/tickets"
	"maplehr/internal/platform/config"
	cryptoutil "maplehr/internal/platform/crypto"
	"maplehr/internal/platform/db"
	"maplehr/internal/platform/llm"
	"maplehr/internal/platform/metrics"
	"maplehr/migrations"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Config config.Config
	DB     *db.Pool
	Router http.Handler
	Logger *zap.Logger
}

// New connects to Postgres, applies migrations and seed data as configured, and wires every
// store and handler into the router.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, migrations.FS, logger); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "apply migrations")
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "seed database")
		}
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "init field encryption")
	}
	if !crypto.Enabled() {
		logger.Warn("DATA_ENCRYPTION_KEY not set; salaries are stored in plaintext")
	}

	policy, err := adjudication.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		pool.Close()
		return nil, err
	}

	coreStore := core.NewStore(pool, crypto)
	claimStore := claims.NewStore(pool, crypto)
	ticketStore := tickets.NewStore(pool, crypto)
	leaveStore := leave.NewStore(pool, crypto)
	reviewStore := performance.NewStore(pool)
	settingsStore := settings.NewStore(pool)

	model := llm.New(cfg, logger)
	adjudicator := adjudication.NewService(adjudication.Options{
		Policy:          policy,
		Advisor:         adjudication.NewAdvisor(model, policy, logger),
		Mode:            cfg.AdvisorMode,
		ModelConfigured: cfg.ModelConfigured(),
		Claims:          claimStore,
		Leave:           leaveStore,
		Decisions:       adjudication.NewDecisionStore(pool),
		Logger:          logger,
	})

	deps := Deps{
		Config:      cfg,
		Logger:      logger,
		Metrics:     metrics.New(),
		Ready:       pool,
		Employees:   coreStore,
		Claims:      claimStore,
		Tickets:     ticketStore,
		Leave:       leaveStore,
		Reviews:     reviewStore,
		Settings:    settingsStore,
		Chat:        chat.NewStore(pool),
		Assistant:   adjudication.NewAssistant(model, coreStore, claimStore, ticketStore, leaveStore, logger),
		Adjudicator: adjudicator,
		Reports:     reports.NewService(reports.NewStore(pool), coreStore, reviewStore, leaveStore),
	}

	logger.Info("application initialised",
		zap.String("environment", cfg.Environment),
		zap.String("modelProvider", cfg.ModelProvider),
		zap.Bool("modelConfigured", cfg.ModelConfigured()),
		zap.String("advisorMode", cfg.AdvisorMode),
		zap.String("policyVersion", policy.Version))

	return &App{Config: cfg, DB: pool, Router: NewRouter(deps), Logger: logger}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// replies wait on the model, so the write deadline must outlast it
		WriteTimeout: a.Config.ModelTimeout + 30*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("maplehr listening", zap.String("addr", a.Config.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	return nil
}
