package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/kapu/anilist-explorer-go/internal/constants"
)

type Config struct {
	AniList   AniListConfig   `envPrefix:"ANILIST_"`
	Favorites FavoritesConfig `envPrefix:"FAVORITES_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Postgres  PostgresConfig  `envPrefix:"POSTGRES_"`
	Logging   LoggingConfig   `envPrefix:"LOG_"`
	CLI       CLIConfig       `envPrefix:"CLI_"`
}

type AniListConfig struct {
	Endpoint          string        `env:"ENDPOINT" envDefault:"https://graphql.anilist.co"`
	Timeout           time.Duration `env:"TIMEOUT" envDefault:"10s"`
	RequestsPerMinute int           `env:"REQUESTS_PER_MINUTE" envDefault:"90"`
	Burst             int           `env:"BURST" envDefault:"5"`
	SearchPageSize    int           `env:"SEARCH_PAGE_SIZE" envDefault:"12"`
	CastPageSize      int           `env:"CAST_PAGE_SIZE" envDefault:"25"`
	CircuitThreshold  int           `env:"CIRCUIT_THRESHOLD" envDefault:"3"`
	CircuitReset      time.Duration `env:"CIRCUIT_RESET" envDefault:"30s"`
}

// Favorites storage backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type FavoritesConfig struct {
	Backend string `env:"BACKEND" envDefault:"file"`
	Path    string `env:"PATH"`
	Key     string `env:"KEY" envDefault:"@favorites"`
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type PostgresConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"explorer"`
	Password string `env:"PASSWORD"`
	Database string `env:"DATABASE" envDefault:"explorer"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type LoggingConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
	File  string `env:"FILE" envDefault:"logs/explorer.log"`
}

type CLIConfig struct {
	Prefix string `env:"PREFIX"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Favorites.Backend = strings.ToLower(strings.TrimSpace(cfg.Favorites.Backend))
	if cfg.Favorites.Path == "" {
		cfg.Favorites.Path = DefaultFavoritesPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AniList.Endpoint == "" {
		return fmt.Errorf("ANILIST_ENDPOINT is required")
	}
	if c.AniList.SearchPageSize <= 0 || c.AniList.CastPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive")
	}
	if c.AniList.Timeout <= 0 {
		return fmt.Errorf("ANILIST_TIMEOUT must be positive")
	}

	switch c.Favorites.Backend {
	case BackendFile:
		if c.Favorites.Path == "" {
			return fmt.Errorf("FAVORITES_PATH is required for the file backend")
		}
	case BackendRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis backend")
		}
	case BackendPostgres:
		if c.Postgres.Database == "" {
			return fmt.Errorf("POSTGRES_DATABASE is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown FAVORITES_BACKEND %q", c.Favorites.Backend)
	}

	if c.Favorites.Key == "" {
		return fmt.Errorf("FAVORITES_KEY must not be empty")
	}
	return nil
}

// DefaultFavoritesPath places the favorites file under the OS config dir:
// ~/.config on Linux, %APPDATA% on Windows, ~/Library/Application Support on macOS.
func DefaultFavoritesPath() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = "."
	}
	return filepath.Join(base, constants.FavoritesConfig.AppDirName, constants.FavoritesConfig.FileName)
}
