package favorites

import (
	"context"

	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

// Migrate copies the snapshot held by src into dst, rewriting it in the
// current format. Legacy array snapshots are upgraded on the way. It returns
// the number of records and the version the source was written with. With
// dryRun the destination is left untouched. A source holding no snapshot is
// an error so a wrong source never blanks the destination.
func Migrate(ctx context.Context, src, dst Storage, dryRun bool) (int, int, error) {
	data, err := src.Load(ctx)
	if err != nil {
		return 0, 0, err
	}
	if data == nil {
		return 0, 0, errors.NewPersistenceError("source has no snapshot", "migrate", "", nil)
	}

	records, version, err := DecodeSnapshot(data)
	if err != nil {
		return 0, 0, errors.NewPersistenceError("source snapshot is unreadable", "migrate", "", err)
	}
	if dryRun {
		return len(records), version, nil
	}

	payload, err := EncodeSnapshot(records)
	if err != nil {
		return 0, version, errors.NewPersistenceError("failed to encode snapshot", "migrate", "", err)
	}
	if err := dst.Save(ctx, payload); err != nil {
		return 0, version, err
	}
	return len(records), version, nil
}
