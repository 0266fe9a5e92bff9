package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

func TestMigrateUpgradesLegacySnapshot(t *testing.T) {
	src := NewMemoryStorage([]byte(`[{"id":5,"name":"Ichigo","image":""},{"id":5,"name":"dup","image":""},{"id":6,"name":"Rukia","image":""}]`))
	dst := NewMemoryStorage(nil)

	count, version, err := Migrate(context.Background(), src, dst, false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, LegacyVersion, version)

	payload, err := dst.Load(context.Background())
	require.NoError(t, err)
	records, v, err := DecodeSnapshot(payload)
	require.NoError(t, err)
	assert.NotEqual(t, LegacyVersion, v)
	assert.Equal(t, []domain.FavoriteRecord{{ID: 5, Name: "Ichigo"}, {ID: 6, Name: "Rukia"}}, records)
}

func TestMigrateDryRunLeavesDestination(t *testing.T) {
	src := NewMemoryStorage([]byte(`[{"id":1,"name":"Kon","image":""}]`))
	dst := NewMemoryStorage(nil)

	count, _, err := Migrate(context.Background(), src, dst, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, dst.Saves())
}

func TestMigrateRejectsCorruptSource(t *testing.T) {
	src := NewMemoryStorage([]byte(`"nope"`))

	_, _, err := Migrate(context.Background(), src, NewMemoryStorage(nil), false)
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
}

func TestMigrateRefusesEmptySource(t *testing.T) {
	existing, err := EncodeSnapshot([]domain.FavoriteRecord{{ID: 5, Name: "Ichigo"}, {ID: 6, Name: "Rukia"}})
	require.NoError(t, err)
	dst := NewMemoryStorage(existing)

	count, _, err := Migrate(context.Background(), NewMemoryStorage(nil), dst, false)
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, dst.Saves())

	payload, err := dst.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, existing, payload)
}
