package favorites

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

// FileStorage keeps the snapshot in one JSON file. Saves go through a
// temporary file in the same directory and a rename, so a crash mid-write
// leaves the previous snapshot intact.
type FileStorage struct {
	path   string
	logger *zap.Logger
}

func NewFileStorage(path string, logger *zap.Logger) *FileStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStorage{path: path, logger: logger}
}

func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewPersistenceError("load cancelled", "load", f.path, err)
	}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		f.logger.Error("Favorites file read failed", zap.String("path", f.path), zap.Error(err))
		return nil, errors.NewPersistenceError("read failed", "load", f.path, err)
	}
	return data, nil
}

func (f *FileStorage) Save(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.NewPersistenceError("save cancelled", "save", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewPersistenceError("create directory failed", "save", f.path, err)
	}

	tmp, err := os.CreateTemp(dir, ".favorites-*.tmp")
	if err != nil {
		return errors.NewPersistenceError("create temp file failed", "save", f.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return errors.NewPersistenceError("write failed", "save", f.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.NewPersistenceError("sync failed", "save", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewPersistenceError("close failed", "save", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.NewPersistenceError("rename failed", "save", f.path, err)
	}
	return nil
}
