package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mrops-br/catalog-store/internal/app/service"
	"github.com/mrops-br/catalog-store/internal/domain"
	"github.com/mrops-br/catalog-store/internal/infrastructure/catalog"
	"github.com/mrops-br/catalog-store/internal/infrastructure/config"
	"github.com/mrops-br/catalog-store/internal/infrastructure/http"
	"github.com/mrops-br/catalog-store/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-store/internal/infrastructure/persistence"
	"github.com/mrops-br/catalog-store/internal/infrastructure/repository/leveldb"
	"github.com/mrops-br/catalog-store/internal/infrastructure/repository/memory"
	"github.com/mrops-br/catalog-store/internal/infrastructure/telemetry"
)

const instrumentationName = "catalog-store"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(ctx, cfg, os.Stdout)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(cfg, os.Stdout)
	}
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	code := 0
	if err := run(ctx, cfg, telem); err != nil {
		telem.Logger.Error("Catalog store stopped with error", slog.String("error", err.Error()))
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := telem.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
	cancel()

	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, telem *telemetry.Telemetry) error {
	tracer := telem.TracerProvider.Tracer(instrumentationName)
	meter := telem.MeterProvider.Meter(instrumentationName)
	logger := telem.Logger

	logger.InfoContext(ctx, "Starting catalog store",
		slog.String("catalog", cfg.Catalog.BaseURL),
		slog.String("snapshot_backend", cfg.Store.SnapshotBackend),
	)

	// Snapshot storage
	var blobs domain.BlobStore
	switch cfg.Store.SnapshotBackend {
	case config.BackendLevelDB:
		db, err := leveldb.Open(cfg.Store.SnapshotPath, tracer, logger)
		if err != nil {
			return fmt.Errorf("open snapshot store: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close snapshot store", slog.String("error", err.Error()))
			}
		}()
		blobs = db
	default:
		blobs = memory.NewBlobStore(tracer, logger)
	}
	bridge := persistence.NewBridge(blobs, cfg.Store.SnapshotKey, logger)

	// Store, seeded from the last snapshot
	client := catalog.NewClient(&cfg.Catalog, tracer, logger)
	store := service.NewStore(client, service.Options{
		PageSize:  cfg.Store.PageSize,
		ListLimit: cfg.Catalog.ListLimit,
	}, tracer, meter, logger)

	if state, ok := bridge.Load(ctx); ok {
		store.Restore(state)
	}

	unsubscribe := store.Subscribe(func(state domain.StoreState) {
		bridge.Save(context.Background(), state)
	})
	defer unsubscribe()

	var loads sync.WaitGroup
	loads.Add(1)
	go func() {
		defer loads.Done()
		if err := store.Products.EnsureLoaded(ctx); err != nil {
			logger.WarnContext(ctx, "Initial catalog load failed", slog.String("error", err.Error()))
		}
	}()

	// HTTP server
	storefront := handler.NewStorefrontHandler(store, logger)
	server := http.NewServer(&cfg.Server, storefront, telem.MetricsHandler(), telem.MeterProvider, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error("Server error", slog.String("error", serveErr.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", slog.String("error", err.Error()))
	}

	// Final snapshot, once the startup load has settled
	loads.Wait()
	bridge.Save(shutdownCtx, store.Snapshot())
	logger.Info("Server stopped")

	return serveErr
}
