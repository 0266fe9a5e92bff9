package favorites

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kapu/anilist-explorer-go/internal/constants"
	"github.com/kapu/anilist-explorer-go/internal/domain"
)

// LegacyVersion marks a snapshot written as a bare JSON array of records.
const LegacyVersion = 0

type snapshot struct {
	Version   int                     `json:"version"`
	Favorites []domain.FavoriteRecord `json:"favorites"`
}

// EncodeSnapshot serializes records in order under the current version tag.
func EncodeSnapshot(records []domain.FavoriteRecord) ([]byte, error) {
	if records == nil {
		records = []domain.FavoriteRecord{}
	}
	return json.Marshal(snapshot{
		Version:   constants.FavoritesConfig.SnapshotVersion,
		Favorites: records,
	})
}

// DecodeSnapshot parses a stored snapshot and reports the version it was
// written with. Empty input decodes to no records. Duplicate ids keep their
// first occurrence.
func DecodeSnapshot(data []byte) ([]domain.FavoriteRecord, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, constants.FavoritesConfig.SnapshotVersion, nil
	}

	var (
		records []domain.FavoriteRecord
		version int
	)
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, 0, fmt.Errorf("decode legacy favorites: %w", err)
		}
		version = LegacyVersion
	case '{':
		var snap snapshot
		if err := json.Unmarshal(trimmed, &snap); err != nil {
			return nil, 0, fmt.Errorf("decode favorites snapshot: %w", err)
		}
		if snap.Version > constants.FavoritesConfig.SnapshotVersion || snap.Version < LegacyVersion {
			return nil, snap.Version, fmt.Errorf("unsupported favorites snapshot version %d", snap.Version)
		}
		records = snap.Favorites
		version = snap.Version
	default:
		return nil, 0, fmt.Errorf("favorites snapshot is neither an array nor an object")
	}

	return dedupe(records), version, nil
}

func dedupe(records []domain.FavoriteRecord) []domain.FavoriteRecord {
	seen := make(map[int]struct{}, len(records))
	out := make([]domain.FavoriteRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
