package explorer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/constants"
	"github.com/kapu/anilist-explorer-go/internal/domain"
)

type Options struct {
	SearchPageSize int
	CastPageSize   int
}

func (o Options) withDefaults() Options {
	if o.SearchPageSize <= 0 {
		o.SearchPageSize = constants.PageSize.Search
	}
	if o.CastPageSize <= 0 {
		o.CastPageSize = constants.PageSize.Cast
	}
	return o
}

// Explorer is the surface presentation layers call: search, drill into an
// anime's cast, open a character and manage favorites. Fetch methods return
// immediately; Wait blocks until the work they started has settled.
type Explorer struct {
	catalog Catalog
	logger  *zap.Logger

	search    *SearchVM
	cast      *CastVM
	detail    *DetailVM
	favorites *FavoritesVM

	mu       sync.Mutex
	selected int
}

func New(ctx context.Context, catalog Catalog, store FavoriteSet, opts Options, logger *zap.Logger) *Explorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	logger = logger.Named("explorer")

	return &Explorer{
		catalog:   catalog,
		logger:    logger,
		search:    NewSearchVM(ctx, catalog, opts.SearchPageSize, logger),
		cast:      NewCastVM(ctx, catalog, opts.CastPageSize, logger),
		detail:    NewDetailVM(ctx, catalog, logger),
		favorites: NewFavoritesVM(store),
	}
}

// Search starts a new search. Any selected anime and its cast are cleared,
// including when term is blank.
func (e *Explorer) Search(term string) {
	e.mu.Lock()
	e.selected = 0
	e.mu.Unlock()

	e.cast.Clear()
	e.search.Search(term)
}

func (e *Explorer) LoadMoreResults() {
	e.search.LoadMore()
}

// RefreshResults reloads the current search from its first page, keeping the
// selected anime.
func (e *Explorer) RefreshResults() {
	e.search.Refresh()
}

// SelectMedia makes mediaID the current anime and loads the first page of its cast.
func (e *Explorer) SelectMedia(mediaID int) {
	e.mu.Lock()
	e.selected = mediaID
	e.mu.Unlock()

	e.logger.Debug("Media selected", zap.Int("media_id", mediaID))
	e.cast.Select(mediaID)
}

func (e *Explorer) LoadMoreCast() {
	e.cast.LoadMore()
}

// SelectedMedia returns the selected anime when it is part of the current results.
func (e *Explorer) SelectedMedia() (domain.MediaSummary, bool) {
	e.mu.Lock()
	id := e.selected
	e.mu.Unlock()

	if id == 0 {
		return domain.MediaSummary{}, false
	}
	for _, entry := range e.search.State().Items {
		if entry.Item.ID == id {
			return entry.Item, true
		}
	}
	return domain.MediaSummary{ID: id}, true
}

// CharacterDetail loads one character and returns when it arrives.
func (e *Explorer) CharacterDetail(ctx context.Context, characterID int) (*domain.CharacterDetail, error) {
	return e.catalog.CharacterDetail(ctx, characterID)
}

// OpenCharacter loads one character into the detail screen state.
func (e *Explorer) OpenCharacter(characterID int) {
	e.detail.Open(characterID)
}

// ToggleFavorite flips r in the favorites set and reports whether it is a
// favorite afterwards.
func (e *Explorer) ToggleFavorite(r domain.FavoriteRecord) bool {
	return e.favorites.Toggle(r)
}

func (e *Explorer) IsFavorite(id int) bool {
	return e.favorites.IsFavorite(id)
}

func (e *Explorer) ListFavorites() []domain.FavoriteRecord {
	return e.favorites.List()
}

func (e *Explorer) RemoveFavorite(id int) bool {
	return e.favorites.Remove(id)
}

func (e *Explorer) SearchState() SearchState { return e.search.State() }
func (e *Explorer) CastState() CastState     { return e.cast.State() }
func (e *Explorer) DetailState() DetailState { return e.detail.State() }

func (e *Explorer) SubscribeSearch(fn func(SearchState)) func() {
	return e.search.Subscribe(fn)
}

func (e *Explorer) SubscribeCast(fn func(CastState)) func() {
	return e.cast.Subscribe(fn)
}

// Wait blocks until every fetch started so far has completed or been discarded.
func (e *Explorer) Wait() {
	e.search.Wait()
	e.cast.Wait()
	e.detail.Wait()
}

// Close cancels in-flight fetches and waits for them to return.
func (e *Explorer) Close() {
	e.search.Close()
	e.cast.Close()
	e.detail.Close()
}
