package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/varsonalia/internal/config"
	"github.com/playperu/varsonalia/internal/evidence"
	"github.com/playperu/varsonalia/internal/game"
	"github.com/playperu/varsonalia/internal/handler/health"
	"github.com/playperu/varsonalia/internal/metrics"
	"github.com/playperu/varsonalia/internal/server"
	"github.com/playperu/varsonalia/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Game state ---
	st, closeStore, err := store.Open(ctx, cfg.StoreBackend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreBackend, err)
	}
	defer closeStore()
	logger.Info("opened game store", "backend", cfg.StoreBackend, "dir", cfg.DataDir)

	// --- Evidence ---
	ev, err := evidence.New(cfg.UploadsDir, cfg.UploadMaxBytes)
	if err != nil {
		return fmt.Errorf("opening uploads dir: %w", err)
	}

	engine := game.NewEngine(st, cfg.Credentials(),
		game.WithPurger(ev),
		game.WithTaskCatalog(cfg.TaskCatalog()),
		game.WithSerializedWrites(cfg.SerializeWrites),
	)
	if !cfg.SerializeWrites {
		logger.Warn("write serialization disabled; concurrent updates may be lost")
	}

	rec := metrics.New()
	initial, err := engine.State(ctx)
	if err != nil {
		return fmt.Errorf("loading game state: %w", err)
	}
	rec.ObserveState(initial)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Engine:   engine,
		Evidence: ev,
		Metrics:  rec,
		Checks: map[string]health.Checker{
			"store":   st,
			"uploads": ev,
		},
		PublicDir:   cfg.PublicDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
