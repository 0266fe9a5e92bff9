package explorer

import (
	"context"

	"github.com/sourcegraph/conc"

	"github.com/kapu/anilist-explorer-go/internal/paging"
)

// scope owns the goroutines started by one view model. Closing it cancels
// their context and waits for them, so no fetch outlives its screen.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

func newScope(parent context.Context) *scope {
	ctx, cancel := context.WithCancel(parent)
	return &scope{ctx: ctx, cancel: cancel}
}

func (s *scope) run(task paging.Task) {
	s.wg.Go(func() {
		task(s.ctx)
	})
}

func (s *scope) goFunc(fn func(ctx context.Context)) {
	s.wg.Go(func() {
		fn(s.ctx)
	})
}

func (s *scope) wait() {
	s.wg.Wait()
}

func (s *scope) close() {
	s.cancel()
	s.wg.Wait()
}
