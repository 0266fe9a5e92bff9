package favorites

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/constants"
	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisStorage keeps the snapshot as a plain string value under one key.
type RedisStorage struct {
	client *redis.Client
	key    string
	owned  bool
	logger *zap.Logger
}

// NewRedisStorage dials Redis and verifies the connection before returning.
func NewRedisStorage(ctx context.Context, cfg RedisConfig, key string, logger *zap.Logger) (*RedisStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  constants.RedisConfig.DialTimeout,
		ReadTimeout:  constants.RedisConfig.ReadTimeout,
		WriteTimeout: constants.RedisConfig.WriteTimeout,
		PoolSize:     constants.RedisConfig.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, constants.RedisConfig.PingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.NewPersistenceError("failed to connect to Redis", "ping", key, err)
	}

	logger.Info("Redis connected",
		zap.String("addr", addr),
		zap.Int("db", cfg.DB),
		zap.String("key", key),
	)

	return &RedisStorage{client: client, key: key, owned: true, logger: logger}, nil
}

// NewRedisStorageWithClient uses an existing client; Close leaves it open.
func NewRedisStorageWithClient(client *redis.Client, key string, logger *zap.Logger) *RedisStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStorage{client: client, key: key, logger: logger}
}

func (r *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	value, err := r.client.Get(ctx, r.key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Favorites get failed", zap.String("key", r.key), zap.Error(err))
		return nil, errors.NewPersistenceError("get failed", "load", r.key, err)
	}
	return value, nil
}

func (r *RedisStorage) Save(ctx context.Context, payload []byte) error {
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		r.logger.Error("Favorites set failed", zap.String("key", r.key), zap.Error(err))
		return errors.NewPersistenceError("set failed", "save", r.key, err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if r.owned && r.client != nil {
		return r.client.Close()
	}
	return nil
}
