package favorites

import (
	"context"
	"sync"
)

// Storage holds one serialized favorites snapshot under a single key.
type Storage interface {
	// Load returns the stored snapshot, or nil and no error when nothing was
	// saved yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

// MemoryStorage keeps the snapshot in process memory.
type MemoryStorage struct {
	mu      sync.Mutex
	payload []byte
	saves   int
}

func NewMemoryStorage(initial []byte) *MemoryStorage {
	return &MemoryStorage{payload: cloneBytes(initial)}
}

func (m *MemoryStorage) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneBytes(m.payload), nil
}

func (m *MemoryStorage) Save(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = cloneBytes(payload)
	m.saves++
	return nil
}

// Saves reports how many snapshots were written.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
