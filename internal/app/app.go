package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/dealpulse/config"
	"github.com/guttosm/dealpulse/internal/api"
	"github.com/guttosm/dealpulse/internal/ingestion"
	"github.com/guttosm/dealpulse/internal/logger"
	"github.com/guttosm/dealpulse/internal/service"
	"github.com/guttosm/dealpulse/internal/storage"
)

// Components are the services shared by the HTTP and CLI modes.
type Components struct {
	Analysis service.AnalysisService
	Runs     service.RunHistoryService

	// DBPing is nil when the run journal is disabled.
	DBPing  func(ctx context.Context) error
	Cleanup func()
}

// NewFetcher builds the archive fetcher from upstream settings.
func NewFetcher(cfg config.Config) *ingestion.ArchiveFetcher {
	return ingestion.NewArchiveFetcher(
		cfg.Upstream.BaseURL,
		ingestion.WithTimeout(cfg.Upstream.Timeout),
		ingestion.WithRateLimit(cfg.Upstream.RatePerSecond),
		ingestion.WithHeader("User-Agent", cfg.Upstream.UserAgent),
		ingestion.WithHeader("Referer", cfg.Upstream.Referer),
	)
}

// NewComponents wires fetcher, optional journal and services.
//
// With POSTGRES_ENABLED the journal database is opened, migrated and pinged;
// any failure there is returned. Otherwise runs are not recorded.
func NewComponents(cfg config.Config) (*Components, error) {
	var (
		repo    storage.RunsRepository = storage.NoopRunsRepository{}
		dbPing  func(ctx context.Context) error
		cleanup = func() {}
	)

	if cfg.Postgres.Enabled {
		conn, err := postgresOpener(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		if err := journalMigrate(conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to migrate run journal: %w", err)
		}
		repo = storage.NewRunsRepository(conn)
		dbPing = conn.PingContext
		cleanup = func() { _ = conn.Close() }
		log := logger.With("app")
		log.Info().Str("host", cfg.Postgres.Host).Str("db", cfg.Postgres.DBName).Msg("run journal enabled")
	}

	analysis := service.NewAnalysisService(NewFetcher(cfg), repo, service.AnalysisOptions{
		Days:     cfg.Analysis.Days,
		Parallel: cfg.Analysis.Parallel,
	})

	return &Components{
		Analysis: analysis,
		Runs:     service.NewRunHistoryService(repo),
		DBPing:   dbPing,
		Cleanup:  cleanup,
	}, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the pipeline components from config.AppConfig.
//   - Creates the HTTP handler layer and configures the Gin router.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	c, err := NewComponents(cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := api.NewHandler(c.Analysis, c.Runs)
	router := api.NewRouter(handler, api.RouterOptions{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RequestTimeout:     cfg.Server.RequestTimeout,
	})

	api.NewHealthHandler(c.DBPing).Register(router)

	return router, c.Cleanup, nil
}
