// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/api"
	"github.com/andresuchdata/marginsight/backend-go/internal/cache"
	"github.com/andresuchdata/marginsight/backend-go/internal/config"
	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/andresuchdata/marginsight/backend-go/internal/refresh"
	"github.com/andresuchdata/marginsight/backend-go/internal/repository"
	"github.com/andresuchdata/marginsight/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/marginsight/backend-go/internal/service"
	"github.com/andresuchdata/marginsight/backend-go/internal/sheets"
	"github.com/andresuchdata/marginsight/backend-go/internal/sink"
	"github.com/andresuchdata/marginsight/backend-go/internal/source"
	"github.com/andresuchdata/marginsight/backend-go/internal/storage"
	"github.com/andresuchdata/marginsight/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, sheetsSvc := buildProvider(ctx, cfg)
	refresher := refresh.NewRefresher(provider)

	// Persistence is optional: the API can serve straight from memory.
	var derivedRepo repository.DerivedRepository
	if db, err := postgres.NewDB(&cfg.Database); err != nil {
		logger.Log.Warn().Err(err).Msg("Database unavailable, serving without persistence")
	} else {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to apply schema")
		}
		snapshotRepo := postgres.NewSnapshotRepository(db)
		repo := postgres.NewDerivedRepository(db)
		derivedRepo = repo

		refresher.OnComputed(func(derived engine.Derived) {
			saveCtx, saveCancel := context.WithTimeout(context.Background(), time.Minute)
			defer saveCancel()
			if err := snapshotRepo.ReplaceSnapshot(saveCtx, refresher.Snapshot()); err != nil {
				logger.Log.Error().Err(err).Msg("Failed to persist snapshot")
			}
			if err := repo.SaveDerived(saveCtx, derived, time.Now().UTC()); err != nil {
				logger.Log.Error().Err(err).Msg("Failed to persist derived pass")
			}
		})
	}

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, falling back to noop")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	var debouncer *sink.Debouncer
	if cfg.Sink.Enabled && sheetsSvc != nil {
		debouncer = sink.NewDebouncer(
			sink.NewSheetsSink(sheetsSvc),
			time.Duration(cfg.Sink.DebounceSeconds)*time.Second,
			time.Duration(cfg.Sink.JitterSeconds)*time.Second,
		)
		refresher.OnComputed(debouncer.Schedule)
	}

	if cfg.Archive.Enabled {
		s3, err := storage.NewS3Client(cfg.Archive)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize archive storage")
		}
		archiver := storage.NewArchiver(s3)
		refresher.OnComputed(func(derived engine.Derived) {
			exportCtx, exportCancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer exportCancel()
			if err := archiver.Export(exportCtx, derived, time.Now()); err != nil {
				logger.Log.Error().Err(err).Msg("Failed to archive pass")
			}
		})
	}

	// Background refresh loop
	go refresher.Run(ctx, time.Duration(cfg.App.RefreshIntervalSeconds)*time.Second)

	analytics := service.NewAnalyticsService(refresher, derivedRepo, dashboardCache)

	// Initialize HTTP server
	router := api.NewRouter(analytics, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")
	cancel()

	if debouncer != nil {
		debouncer.Flush()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// buildProvider prefers the Sheets workbook when configured and falls
// back to the CSV drop directory for offline runs.
func buildProvider(ctx context.Context, cfg *config.Config) (source.Provider, *sheets.Service) {
	if cfg.Sheets.SpreadsheetID != "" {
		svc, err := sheets.NewService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize Sheets service")
		}
		return source.NewSheetsProvider(svc), svc
	}

	logger.Log.Info().Str("dir", cfg.App.DataDir).Msg("No spreadsheet configured, reading CSV drops")
	return source.NewCSVProvider(cfg.App.DataDir), nil
}
