package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://graphql.anilist.co", cfg.AniList.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.AniList.Timeout)
	assert.Equal(t, 12, cfg.AniList.SearchPageSize)
	assert.Equal(t, 25, cfg.AniList.CastPageSize)
	assert.Equal(t, BackendFile, cfg.Favorites.Backend)
	assert.Equal(t, "@favorites", cfg.Favorites.Key)
	assert.NotEmpty(t, cfg.Favorites.Path)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANILIST_CAST_PAGE_SIZE", "10")
	t.Setenv("ANILIST_CIRCUIT_RESET", "1m")
	t.Setenv("FAVORITES_BACKEND", " Redis ")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.AniList.CastPageSize)
	assert.Equal(t, time.Minute, cfg.AniList.CircuitReset)
	assert.Equal(t, BackendRedis, cfg.Favorites.Backend)
	assert.Equal(t, 6380, cfg.Redis.Port)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("FAVORITES_BACKEND", "sqlite")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown FAVORITES_BACKEND")
}

func TestValidatePageSizes(t *testing.T) {
	cfg := &Config{
		AniList:   AniListConfig{Endpoint: "http://x", Timeout: time.Second, SearchPageSize: 0, CastPageSize: 25},
		Favorites: FavoritesConfig{Backend: BackendMemory, Key: "@favorites"},
	}
	assert.Error(t, cfg.Validate())

	cfg.AniList.SearchPageSize = 12
	assert.NoError(t, cfg.Validate())
}
