// Package favorites keeps the user's favorite characters in memory and
// mirrors every change to durable storage in the background.
package favorites

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/constants"
	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

// Store is the process-wide favorites set. Reads and mutations are served from
// memory; each mutation queues the full snapshot for a single background
// writer, which only ever writes the latest one.
//
// The persisted snapshot is loaded once by Open. Until it arrives the set
// reflects only mutations made in this session; when it arrives the loaded
// records come first, followed by those mutations, and ids removed in the
// meantime stay removed. Nothing is written before the load completes.
type Store struct {
	storage Storage
	logger  *zap.Logger
	onError func(error)

	mu         sync.Mutex
	records    map[int]domain.FavoriteRecord
	order      []int
	loaded     bool
	dirty      bool
	removed    map[int]struct{}
	cleared    bool
	closed     bool
	pending    []byte
	queuedGen  uint64
	pendingGen uint64
	savedGen   uint64
	savedCh    chan struct{}

	ready    chan struct{}
	signal   chan struct{}
	stop     chan struct{}
	openOnce sync.Once
	wg       conc.WaitGroup

	persistFailures atomic.Int64
}

type Option func(*Store)

// WithErrorHandler receives every swallowed persistence error.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Store) {
		s.onError = fn
	}
}

func NewStore(storage Storage, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		logger:  logger,
		records: make(map[int]domain.FavoriteRecord),
		removed: make(map[int]struct{}),
		savedCh: make(chan struct{}),
		ready:   make(chan struct{}),
		signal:  make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts the background load and the writer. It does not block; use
// Ready to wait for the load. Calling Open more than once has no effect.
func (s *Store) Open(ctx context.Context) {
	s.openOnce.Do(func() {
		s.wg.Go(func() {
			s.load(ctx)
		})
		s.wg.Go(s.runWriter)
	})
}

// Ready is closed once the persisted snapshot has been merged, or the load
// has failed.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Add inserts r unless its id is already present. It reports whether the set changed.
func (s *Store) Add(r domain.FavoriteRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(r)
}

// Remove deletes id if present. It reports whether the set changed. Before
// the snapshot has loaded, the removal is recorded against it and reported
// as a change; it is applied to the loaded records and persisted afterwards.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

// Toggle removes r when present and adds it otherwise. It returns whether r
// is a favorite afterwards.
func (s *Store) Toggle(r domain.FavoriteRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, present := s.records[r.ID]; present {
		s.removeLocked(r.ID)
		return false
	}
	s.addLocked(r)
	return true
}

func (s *Store) addLocked(r domain.FavoriteRecord) bool {
	if _, ok := s.records[r.ID]; ok {
		return false
	}
	s.records[r.ID] = r
	s.order = append(s.order, r.ID)
	delete(s.removed, r.ID)
	s.changedLocked()
	return true
}

func (s *Store) removeLocked(id int) bool {
	pending := false
	if !s.loaded {
		s.removed[id] = struct{}{}
		s.dirty = true
		pending = true
	}
	if _, ok := s.records[id]; !ok {
		return pending
	}
	delete(s.records, id)
	s.order = removeID(s.order, id)
	s.changedLocked()
	return true
}

func (s *Store) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	return ok
}

// List returns the records in insertion order.
func (s *Store) List() []domain.FavoriteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Clear removes every record, including persisted ones not loaded yet.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.cleared = true
		s.removed = make(map[int]struct{})
		s.dirty = true
	}
	if len(s.order) == 0 {
		return
	}
	s.records = make(map[int]domain.FavoriteRecord)
	s.order = nil
	s.changedLocked()
}

// PersistFailures counts load and save errors swallowed so far.
func (s *Store) PersistFailures() int64 {
	return s.persistFailures.Load()
}

// Flush blocks until every snapshot queued so far has been handed to storage.
func (s *Store) Flush(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.savedGen >= s.queuedGen {
			s.mu.Unlock()
			return nil
		}
		ch := s.savedCh
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops the writer after it has written the latest queued snapshot.
// Mutations after Close stay in memory only.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	close(s.stop)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("Favorites writer did not finish before shutdown deadline")
		return ctx.Err()
	}
}

func (s *Store) load(ctx context.Context) {
	defer close(s.ready)

	loadCtx, cancel := context.WithTimeout(ctx, constants.FavoritesConfig.LoadTimeout)
	defer cancel()

	var loaded []domain.FavoriteRecord
	payload, err := s.storage.Load(loadCtx)
	if err == nil {
		var version int
		loaded, version, err = DecodeSnapshot(payload)
		if err == nil && payload != nil && version != constants.FavoritesConfig.SnapshotVersion {
			s.logger.Info("Older favorites snapshot loaded; rewritten on next change", zap.Int("from_version", version))
		}
		if err != nil {
			err = errors.NewPersistenceError("snapshot decode failed", "load", "", err)
		}
	}
	if err != nil {
		s.reportFailure("Favorites load failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mergeLocked(loaded)
	s.loaded = true
	s.removed = nil
	if s.dirty {
		s.enqueueLocked()
	}
	s.logger.Info("Favorites loaded",
		zap.Int("loaded", len(loaded)),
		zap.Int("total", len(s.order)),
	)
}

// mergeLocked puts loaded records ahead of the ones added before the load.
func (s *Store) mergeLocked(loaded []domain.FavoriteRecord) {
	records := make(map[int]domain.FavoriteRecord, len(loaded)+len(s.order))
	order := make([]int, 0, len(loaded)+len(s.order))

	if s.cleared {
		loaded = nil
	}
	for _, r := range loaded {
		if _, gone := s.removed[r.ID]; gone {
			continue
		}
		if _, dup := records[r.ID]; dup {
			continue
		}
		records[r.ID] = r
		order = append(order, r.ID)
	}
	for _, id := range s.order {
		if _, dup := records[id]; dup {
			continue
		}
		records[id] = s.records[id]
		order = append(order, id)
	}

	s.records = records
	s.order = order
}

func (s *Store) changedLocked() {
	if !s.loaded {
		s.dirty = true
		return
	}
	s.enqueueLocked()
}

func (s *Store) enqueueLocked() {
	if s.closed {
		s.logger.Debug("Favorites store closed; change kept in memory only")
		return
	}
	payload, err := EncodeSnapshot(s.listLocked())
	if err != nil {
		s.reportFailure("Favorites encode failed", errors.NewPersistenceError("encode failed", "save", "", err))
		return
	}
	s.queuedGen++
	s.pending = payload
	s.pendingGen = s.queuedGen

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *Store) runWriter() {
	for {
		select {
		case <-s.signal:
			s.writePending()
		case <-s.stop:
			s.writePending()
			return
		}
	}
}

func (s *Store) writePending() {
	s.mu.Lock()
	payload, gen := s.pending, s.pendingGen
	s.pending = nil
	s.mu.Unlock()

	if payload == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.FavoritesConfig.SaveTimeout)
	err := s.storage.Save(ctx, payload)
	cancel()
	if err != nil {
		s.reportFailure("Favorites save failed", err)
	}

	s.mu.Lock()
	if gen > s.savedGen {
		s.savedGen = gen
	}
	close(s.savedCh)
	s.savedCh = make(chan struct{})
	s.mu.Unlock()
}

func (s *Store) reportFailure(msg string, err error) {
	s.persistFailures.Add(1)
	s.logger.Warn(msg, zap.Error(err))
	if s.onError != nil {
		s.onError(err)
	}
}

func (s *Store) listLocked() []domain.FavoriteRecord {
	out := make([]domain.FavoriteRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

func removeID(order []int, id int) []int {
	for i, v := range order {
		if v == id {
			return append(order[:i:i], order[i+1:]...)
		}
	}
	return order
}
