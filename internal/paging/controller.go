// Package paging drives page-by-page loading of a remote listing into an
// append-only, observable item list.
package paging

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/domain"
)

type Mode int

const (
	ModeReset Mode = iota
	ModeAppend
)

func (m Mode) String() string {
	if m == ModeAppend {
		return "append"
	}
	return "reset"
}

// Outcome reports what a fetch did to the controller state.
type Outcome int

const (
	// OutcomeSkipped: no request was made.
	OutcomeSkipped Outcome = iota
	OutcomeApplied
	// OutcomeFailed: items and cursor were left untouched.
	OutcomeFailed
	// OutcomeStale: a newer Start/Fetch superseded this one; its result was discarded.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "skipped"
	}
}

// FetchFunc loads one page of the listing for q.
type FetchFunc[Q any, T any] func(ctx context.Context, q Q, page, perPage int) (domain.Page[T], error)

// Entry pairs an item with its display key. Keys are unique within one
// listing even when the server repeats an item; identity comparisons use the
// item's own id.
type Entry[T any] struct {
	Key  string
	Item T
}

type State[Q any, T any] struct {
	Query      Q
	Items      []Entry[T]
	Cursor     domain.PageCursor
	IsLoading  bool
	HasStarted bool
	ErrorCount int
	LastErr    error
}

// Values returns the items without their display keys.
func (s State[Q, T]) Values() []T {
	values := make([]T, len(s.Items))
	for i, e := range s.Items {
		values[i] = e.Item
	}
	return values
}

// Task is the asynchronous half of a fetch. It blocks until the page is
// loaded and applied (or discarded) and is safe to run on any goroutine.
type Task func(ctx context.Context) Outcome

func skipped(context.Context) Outcome { return OutcomeSkipped }

// Controller owns the state of one listing. A monotonically increasing
// sequence number is taken by every Start and Fetch; a completing fetch
// applies its result only when its number is still the latest.
type Controller[Q any, T any] struct {
	fetch    FetchFunc[Q, T]
	isEmpty  func(Q) bool
	identify func(T) int
	perPage  int
	logger   *zap.Logger

	mu          sync.Mutex
	state       State[Q, T]
	seq         uint64
	subscribers map[int]func(State[Q, T])
	nextSubID   int
}

func NewController[Q any, T any](
	fetch FetchFunc[Q, T],
	isEmpty func(Q) bool,
	identify func(T) int,
	perPage int,
	logger *zap.Logger,
) *Controller[Q, T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[Q, T]{
		fetch:       fetch,
		isEmpty:     isEmpty,
		identify:    identify,
		perPage:     perPage,
		logger:      logger,
		state:       State[Q, T]{Items: []Entry[T]{}},
		subscribers: make(map[int]func(State[Q, T])),
	}
}

// State returns a snapshot safe to read without holding the controller.
func (c *Controller[Q, T]) State() State[Q, T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function unregisters it.
func (c *Controller[Q, T]) Subscribe(fn func(State[Q, T])) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// Start switches the controller to q. An empty q lands directly in the empty
// terminal state without a request. Otherwise items are cleared, the loading
// flag is raised and the returned Task loads page 1.
func (c *Controller[Q, T]) Start(q Q) Task {
	c.mu.Lock()
	c.seq++
	c.state = State[Q, T]{
		Query:      q,
		Items:      []Entry[T]{},
		HasStarted: true,
		ErrorCount: c.state.ErrorCount,
	}

	if c.isEmpty(q) {
		c.mu.Unlock()
		c.publish()
		return skipped
	}

	task := c.beginLocked(ModeReset)
	c.mu.Unlock()
	c.publish()
	return task
}

// Begin performs the synchronous part of a fetch (raising IsLoading) and
// returns the work that completes it. Append is skipped when the cursor has
// no next page or a load is already running; any fetch is skipped before
// Start or for an empty query.
func (c *Controller[Q, T]) Begin(mode Mode) Task {
	c.mu.Lock()
	if !c.state.HasStarted || c.isEmpty(c.state.Query) {
		c.mu.Unlock()
		return skipped
	}
	if mode == ModeAppend && (!c.state.Cursor.HasNextPage || c.state.IsLoading) {
		c.mu.Unlock()
		return skipped
	}
	task := c.beginLocked(mode)
	c.mu.Unlock()
	c.publish()
	return task
}

// Fetch is Begin followed by running the task on the calling goroutine.
func (c *Controller[Q, T]) Fetch(ctx context.Context, mode Mode) Outcome {
	return c.Begin(mode)(ctx)
}

// Clear returns the controller to its initial state and invalidates any
// in-flight fetch.
func (c *Controller[Q, T]) Clear() {
	c.mu.Lock()
	c.seq++
	c.state = State[Q, T]{Items: []Entry[T]{}, ErrorCount: c.state.ErrorCount}
	c.mu.Unlock()
	c.publish()
}

func (c *Controller[Q, T]) beginLocked(mode Mode) Task {
	c.seq++
	token := c.seq
	query := c.state.Query

	page := 1
	if mode == ModeAppend {
		page = c.state.Cursor.NextPage()
	}
	c.state.IsLoading = true

	return func(ctx context.Context) (outcome Outcome) {
		defer func() {
			c.mu.Lock()
			changed := false
			if token == c.seq && c.state.IsLoading {
				c.state.IsLoading = false
				changed = true
			}
			c.mu.Unlock()
			if changed {
				c.publish()
			}
		}()

		result, err := c.load(ctx, query, page)

		c.mu.Lock()
		if token != c.seq {
			c.mu.Unlock()
			c.logger.Debug("Discarding stale page",
				zap.String("mode", mode.String()),
				zap.Int("page", page),
			)
			return OutcomeStale
		}

		if err != nil {
			c.state.ErrorCount++
			c.state.LastErr = err
			c.state.IsLoading = false
			count := c.state.ErrorCount
			c.mu.Unlock()
			c.logger.Warn("Page fetch failed",
				zap.String("mode", mode.String()),
				zap.Int("page", page),
				zap.Int("error_count", count),
				zap.Error(err),
			)
			c.publish()
			return OutcomeFailed
		}

		c.applyLocked(mode, result)
		c.mu.Unlock()
		c.publish()
		return OutcomeApplied
	}
}

// load runs the fetch function, turning a panic into an error.
func (c *Controller[Q, T]) load(ctx context.Context, q Q, page int) (domain.Page[T], error) {
	var (
		result domain.Page[T]
		err    error
		pc     panics.Catcher
	)
	pc.Try(func() {
		result, err = c.fetch(ctx, q, page, c.perPage)
	})
	if recovered := pc.Recovered(); recovered != nil {
		return domain.Page[T]{}, recovered.AsError()
	}
	return result, err
}

func (c *Controller[Q, T]) applyLocked(mode Mode, result domain.Page[T]) {
	var base []Entry[T]
	if mode == ModeAppend {
		base = c.state.Items
	}

	items := make([]Entry[T], 0, len(base)+len(result.Items))
	items = append(items, base...)
	for _, item := range result.Items {
		items = append(items, Entry[T]{
			Key:  fmt.Sprintf("%d-%d", c.identify(item), len(items)),
			Item: item,
		})
	}

	c.state.Items = items
	c.state.Cursor = result.Cursor
	c.state.LastErr = nil
	c.state.IsLoading = false
}

func (c *Controller[Q, T]) snapshotLocked() State[Q, T] {
	s := c.state
	s.Items = append([]Entry[T](nil), c.state.Items...)
	if s.Items == nil {
		s.Items = []Entry[T]{}
	}
	return s
}

func (c *Controller[Q, T]) publish() {
	c.mu.Lock()
	if len(c.subscribers) == 0 {
		c.mu.Unlock()
		return
	}
	snapshot := c.snapshotLocked()
	listeners := make([]func(State[Q, T]), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
