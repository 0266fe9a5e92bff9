package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/app"
	"github.com/kapu/anilist-explorer-go/internal/config"
	"github.com/kapu/anilist-explorer-go/internal/favorites"
	"github.com/kapu/anilist-explorer-go/internal/util"
)

// CLI flags. Connection settings come from the environment (see config.Load).
var (
	from     = flag.String("from", config.BackendFile, "Source backend: file, redis or postgres")
	to       = flag.String("to", config.BackendPostgres, "Destination backend: file, redis or postgres")
	fromPath = flag.String("from-path", "", "Source file (file backend); defaults to FAVORITES_PATH")
	toPath   = flag.String("to-path", "", "Destination file (file backend); defaults to FAVORITES_PATH")
	dryRun   = flag.Bool("dry-run", false, "Decode and report without writing the destination")
	verbose  = flag.Bool("verbose", false, "Verbose output")
)

func main() {
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger, err := util.NewLogger(level, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if *from == *to && *fromPath == *toPath {
		return fmt.Errorf("source and destination are the same")
	}

	srcCfg := *cfg
	if *fromPath != "" {
		srcCfg.Favorites.Path = *fromPath
	}
	dstCfg := *cfg
	if *toPath != "" {
		dstCfg.Favorites.Path = *toPath
	}

	src, closeSrc, err := app.OpenBackend(ctx, *from, &srcCfg, logger)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	if closeSrc != nil {
		defer closeSrc()
	}

	dst, closeDst, err := app.OpenBackend(ctx, *to, &dstCfg, logger)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	if closeDst != nil {
		defer closeDst()
	}

	count, version, err := favorites.Migrate(ctx, src, dst, *dryRun)
	if err != nil {
		return err
	}

	logger.Info("Favorites migrated",
		zap.String("from", *from),
		zap.String("to", *to),
		zap.Int("records", count),
		zap.Int("source_version", version),
		zap.Bool("dry_run", *dryRun),
	)
	return nil
}
