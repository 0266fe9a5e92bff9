package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/adapter"
	"github.com/kapu/anilist-explorer-go/internal/anilist"
	"github.com/kapu/anilist-explorer-go/internal/config"
	"github.com/kapu/anilist-explorer-go/internal/console"
	"github.com/kapu/anilist-explorer-go/internal/explorer"
	"github.com/kapu/anilist-explorer-go/internal/favorites"
	"github.com/kapu/anilist-explorer-go/internal/util"
)

// Container bundles the assembled services for constructing the console.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Explorer  *explorer.Explorer
	Favorites *favorites.Store

	messageAdapter *adapter.MessageAdapter
	formatter      *adapter.ResponseFormatter
	closers        []func()
}

// NewConsole instantiates a console session reading from in and writing to out.
func (c *Container) NewConsole(in io.Reader, out io.Writer) (*console.Console, error) {
	if c == nil || c.Explorer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return console.New(console.Dependencies{
		Explorer:       c.Explorer,
		Favorites:      c.Favorites,
		MessageAdapter: c.messageAdapter,
		Formatter:      c.formatter,
		Logger:         c.Logger,
	}, in, out)
}

// Close stops in-flight loads, flushes pending favorites and releases the
// storage backend.
func (c *Container) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}

	var err error
	if c.Explorer != nil {
		c.Explorer.Close()
	}
	if c.Favorites != nil {
		err = c.Favorites.Close(ctx)
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
	return err
}

// Build assembles the catalog client, the favorites backend and the explorer.
// Favorites start loading here; the console is usable before the load ends.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Catalog
	catalogLogger := logger.Named("anilist")
	breaker := util.NewCircuitBreaker(cfg.AniList.CircuitThreshold, cfg.AniList.CircuitReset, catalogLogger)
	client := anilist.NewClient(cfg.AniList.Endpoint, catalogLogger,
		anilist.WithHTTPClient(&http.Client{Timeout: cfg.AniList.Timeout}),
		anilist.WithRateLimit(cfg.AniList.RequestsPerMinute, cfg.AniList.Burst),
		anilist.WithCircuitBreaker(breaker),
	)
	catalog := anilist.NewService(client, catalogLogger)

	// Favorites
	favoritesLogger := logger.Named("favorites")
	storage, closeStorage, err := OpenStorage(ctx, cfg, favoritesLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites storage: %w", err)
	}
	if closeStorage != nil {
		closers = append(closers, closeStorage)
	}

	store := favorites.NewStore(storage, favoritesLogger, favorites.WithErrorHandler(func(err error) {
		favoritesLogger.Warn("Favorites persistence problem", zap.Error(err))
	}))
	store.Open(context.WithoutCancel(ctx))

	exp := explorer.New(context.WithoutCancel(ctx), catalog, store, explorer.Options{
		SearchPageSize: cfg.AniList.SearchPageSize,
		CastPageSize:   cfg.AniList.CastPageSize,
	}, logger)

	logger.Info("Explorer assembled",
		zap.String("endpoint", cfg.AniList.Endpoint),
		zap.String("favorites_backend", cfg.Favorites.Backend),
		zap.Int("search_page_size", cfg.AniList.SearchPageSize),
		zap.Int("cast_page_size", cfg.AniList.CastPageSize),
	)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Explorer:       exp,
		Favorites:      store,
		messageAdapter: adapter.NewMessageAdapter(cfg.CLI.Prefix),
		formatter:      adapter.NewResponseFormatter(cfg.CLI.Prefix),
		closers:        closers,
	}, nil
}

// OpenStorage connects the favorites backend selected by cfg. The returned
// closer is nil for backends without a connection.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (favorites.Storage, func(), error) {
	return OpenBackend(ctx, cfg.Favorites.Backend, cfg, logger)
}

// OpenBackend is OpenStorage for an explicit backend name.
func OpenBackend(ctx context.Context, backend string, cfg *config.Config, logger *zap.Logger) (favorites.Storage, func(), error) {
	switch backend {
	case config.BackendFile:
		return favorites.NewFileStorage(cfg.Favorites.Path, logger), nil, nil

	case config.BackendMemory:
		return favorites.NewMemoryStorage(nil), nil, nil

	case config.BackendRedis:
		rs, err := favorites.NewRedisStorage(ctx, favorites.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Favorites.Key, logger)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil

	case config.BackendPostgres:
		ps, err := favorites.NewPostgresStorage(ctx, favorites.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, cfg.Favorites.Key, logger)
		if err != nil {
			return nil, nil, err
		}
		return ps, func() { _ = ps.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown favorites backend %q", backend)
	}
}
