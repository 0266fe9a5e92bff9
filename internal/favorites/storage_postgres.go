package favorites

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

const (
	createSnapshotTable = `CREATE TABLE IF NOT EXISTS favorites_snapshot (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	selectSnapshot = `SELECT payload FROM favorites_snapshot WHERE key = $1`
	upsertSnapshot = `INSERT INTO favorites_snapshot (key, payload, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
)

// PostgresStorage keeps the snapshot as one row of favorites_snapshot.
type PostgresStorage struct {
	db     *sql.DB
	key    string
	owned  bool
	logger *zap.Logger
}

// NewPostgresStorage opens a pool, pings it and creates the snapshot table.
func NewPostgresStorage(ctx context.Context, cfg PostgresConfig, key string, logger *zap.Logger) (*PostgresStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewPersistenceError("failed to open postgres", "open", key, err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.NewPersistenceError("failed to ping postgres", "ping", key, err)
	}

	storage := &PostgresStorage{db: db, key: key, owned: true, logger: logger}
	if err := storage.EnsureSchema(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)
	return storage, nil
}

// NewPostgresStorageWithDB uses an existing pool; Close leaves it open.
func NewPostgresStorageWithDB(db *sql.DB, key string, logger *zap.Logger) *PostgresStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStorage{db: db, key: key, logger: logger}
}

func (p *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createSnapshotTable); err != nil {
		return errors.NewPersistenceError("failed to create favorites_snapshot", "migrate", p.key, err)
	}
	return nil
}

func (p *PostgresStorage) Load(ctx context.Context) ([]byte, error) {
	var payload string
	err := p.db.QueryRowContext(ctx, selectSnapshot, p.key).Scan(&payload)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		p.logger.Error("Favorites select failed", zap.String("key", p.key), zap.Error(err))
		return nil, errors.NewPersistenceError("select failed", "load", p.key, err)
	}
	return []byte(payload), nil
}

func (p *PostgresStorage) Save(ctx context.Context, payload []byte) error {
	if _, err := p.db.ExecContext(ctx, upsertSnapshot, p.key, string(payload)); err != nil {
		p.logger.Error("Favorites upsert failed", zap.String("key", p.key), zap.Error(err))
		return errors.NewPersistenceError("upsert failed", "save", p.key, err)
	}
	return nil
}

func (p *PostgresStorage) Close() error {
	if p.owned && p.db != nil {
		return p.db.Close()
	}
	return nil
}
