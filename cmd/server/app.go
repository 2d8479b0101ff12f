package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	apiMiddleware "github.com/phrazzld/taskr-api/internal/api/middleware"
	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/platform/metrics"
	"github.com/phrazzld/taskr-api/internal/platform/postgres"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// dependencies are the infrastructure pieces an application is built from.
type dependencies struct {
	accounts store.AccountStore
	tasks    store.TaskStore
	txdb     store.TxBeginner
	hasher   service.PasswordHasher
	jwt      auth.JWTService
	closer   io.Closer
}

// application holds the wired services shared by the router and the server.
type application struct {
	config *config.Config
	logger *slog.Logger

	registry *prometheus.Registry
	metrics  *metrics.Collector

	jwtService     auth.JWTService
	accountService service.AccountService
	taskService    service.TaskService
	loginLimiter   *apiMiddleware.RateLimiter

	closer io.Closer
}

// newApplication wires the PostgreSQL stores, bcrypt and the JWT codec.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return buildApplication(cfg, logger, dependencies{
		accounts: postgres.NewPostgresAccountStore(db, logger),
		tasks:    postgres.NewPostgresTaskStore(db, logger),
		txdb:     db,
		hasher:   auth.NewBcrypt(cfg.Auth.BCryptCost),
		jwt:      jwtService,
		closer:   db,
	}), nil
}

func buildApplication(cfg *config.Config, logger *slog.Logger, deps dependencies) *application {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	return &application{
		config:     cfg,
		logger:     logger,
		registry:   registry,
		metrics:    collector,
		jwtService: deps.jwt,
		accountService: service.NewAccountService(
			deps.accounts,
			deps.txdb,
			deps.hasher,
			cfg.Pagination,
			logger,
			service.WithMetrics(collector),
		),
		taskService: service.NewTaskService(deps.tasks, cfg.Pagination, logger),
		loginLimiter: apiMiddleware.NewLoginRateLimiter(cfg.RateLimit,
			apiMiddleware.WithRateLimitObserver(collector)),
		closer: deps.closer,
	}
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	app.loginLimiter.Stop()
	if app.closer != nil {
		if err := app.closer.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
