package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/app"
	"github.com/kapu/anilist-explorer-go/internal/config"
	"github.com/kapu/anilist-explorer-go/internal/constants"
	"github.com/kapu/anilist-explorer-go/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("AniList Explorer starting...",
		zap.String("version", "1.0.0"),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("favorites_backend", cfg.Favorites.Backend),
	)

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		os.Exit(1)
	}

	term, err := container.NewConsole(os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("Failed to initialize console", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- term.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		if err != nil {
			logger.Error("Console error", zap.Error(err))
		}
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.FavoritesConfig.FlushTimeout)
	defer shutdownCancel()

	if err := container.Close(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	logger.Info("Shutdown complete",
		zap.Int64("favorites_persist_failures", container.Favorites.PersistFailures()))
}
