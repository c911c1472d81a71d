package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/config"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/database"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/repository"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/selectiontoken"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/source"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/version"
)

func main() {
	if err := run(); err != nil {
		logging.New(logging.DefaultConfig()).Error("server stopped", logging.FieldError, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:     cfg.Log.Level,
		Component: logging.ComponentApp,
		Output:    os.Stdout,
		JSON:      cfg.Log.JSON,
	})
	logging.SetDefault(logger)

	// Open database connection and bring the schema up to date
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := database.Migrate(context.Background(), db)
	if err != nil {
		return err
	}
	logger.WithComponent(logging.ComponentStorage).Info("connected to database",
		"path", cfg.Database.Path,
		"migrations_applied", applied,
	)

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	gainsRepo := repository.NewCapitalGainsRepository(db)

	codec, err := selectiontoken.NewCodec(cfg.Selection.TokenKey, cfg.Selection.TokenTTL)
	if err != nil {
		return err
	}
	if cfg.Selection.TokenKey == "" {
		logger.Warn("SELECTION_TOKEN_KEY not set; selection tokens will not survive a restart")
	}

	// Create services
	harvestService := service.NewHarvestService(db, portfolioRepo, holdingRepo, gainsRepo)
	selectionService := service.NewSelectionService(harvestService, cfg.Selection.TTL, logger)
	syncService := service.NewSyncService(
		portfolioRepo,
		harvestService,
		source.NewClient(source.Options{
			Timeout:      cfg.Source.Timeout,
			HoldingsPath: cfg.Source.HoldingsPath,
			GainsPath:    cfg.Source.GainsPath,
		}),
		logger,
	)
	services := api.Services{
		System:    service.NewSystemService(db, map[string]bool{"selection_tokens": true, "scheduled_sync": cfg.Sync.Schedule != ""}),
		Portfolio: service.NewPortfolioService(portfolioRepo, cfg.Report.Currency),
		Harvest:   harvestService,
		Selection: selectionService,
		Sync:      syncService,
	}

	// Scheduled jobs
	scheduler := service.NewScheduler(logger, 5*time.Minute)
	if err := scheduler.Add("sync", cfg.Sync.Schedule, func(ctx context.Context) error {
		_, err := syncService.SyncAll(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := scheduler.Add("selection-sweep", cfg.Selection.SweepSchedule, func(context.Context) error {
		selectionService.Sweep(time.Now())
		return nil
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, codec, logger, cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr, "version", version.Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
