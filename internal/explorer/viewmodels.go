package explorer

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/internal/paging"
	"github.com/kapu/anilist-explorer-go/internal/util"
)

type (
	SearchState = paging.State[string, domain.MediaSummary]
	CastState   = paging.State[int, domain.CharacterSummary]
)

// SearchVM backs the catalog search screen.
type SearchVM struct {
	controller *paging.Controller[string, domain.MediaSummary]
	scope      *scope
}

func NewSearchVM(ctx context.Context, catalog Catalog, perPage int, logger *zap.Logger) *SearchVM {
	return &SearchVM{
		controller: paging.NewController[string, domain.MediaSummary](
			catalog.SearchMedia,
			func(term string) bool { return term == "" },
			domain.MediaSummary.Key,
			perPage,
			logger.Named("search"),
		),
		scope: newScope(ctx),
	}
}

// Search starts a new search for term. Blank terms end in the empty state
// without a request.
func (vm *SearchVM) Search(term string) {
	vm.scope.run(vm.controller.Start(util.NormalizeSearchTerm(term)))
}

func (vm *SearchVM) LoadMore() {
	vm.scope.run(vm.controller.Begin(paging.ModeAppend))
}

// Refresh reloads the current search from its first page.
func (vm *SearchVM) Refresh() {
	vm.scope.run(vm.controller.Begin(paging.ModeReset))
}

func (vm *SearchVM) State() SearchState {
	return vm.controller.State()
}

func (vm *SearchVM) Subscribe(fn func(SearchState)) func() {
	return vm.controller.Subscribe(fn)
}

func (vm *SearchVM) Wait()  { vm.scope.wait() }
func (vm *SearchVM) Close() { vm.scope.close() }

// CastVM backs the cast list of one anime.
type CastVM struct {
	controller *paging.Controller[int, domain.CharacterSummary]
	scope      *scope
}

func NewCastVM(ctx context.Context, catalog Catalog, perPage int, logger *zap.Logger) *CastVM {
	return &CastVM{
		controller: paging.NewController[int, domain.CharacterSummary](
			catalog.MediaCharacters,
			func(mediaID int) bool { return mediaID <= 0 },
			domain.CharacterSummary.Key,
			perPage,
			logger.Named("cast"),
		),
		scope: newScope(ctx),
	}
}

// Select loads the cast of mediaID from its first page.
func (vm *CastVM) Select(mediaID int) {
	vm.scope.run(vm.controller.Start(mediaID))
}

func (vm *CastVM) LoadMore() {
	vm.scope.run(vm.controller.Begin(paging.ModeAppend))
}

func (vm *CastVM) Clear() {
	vm.controller.Clear()
}

func (vm *CastVM) State() CastState {
	return vm.controller.State()
}

func (vm *CastVM) Subscribe(fn func(CastState)) func() {
	return vm.controller.Subscribe(fn)
}

func (vm *CastVM) Wait()  { vm.scope.wait() }
func (vm *CastVM) Close() { vm.scope.close() }

type DetailState struct {
	CharacterID int
	Loading     bool
	Character   *domain.CharacterDetail
	Err         error
}

// DetailVM backs the character detail screen. Opening another character
// discards the result of the previous one.
type DetailVM struct {
	catalog Catalog
	logger  *zap.Logger
	scope   *scope

	mu    sync.Mutex
	state DetailState
	seq   uint64
}

func NewDetailVM(ctx context.Context, catalog Catalog, logger *zap.Logger) *DetailVM {
	return &DetailVM{
		catalog: catalog,
		logger:  logger.Named("detail"),
		scope:   newScope(ctx),
	}
}

func (vm *DetailVM) Open(characterID int) {
	vm.mu.Lock()
	vm.seq++
	token := vm.seq
	vm.state = DetailState{CharacterID: characterID, Loading: true}
	vm.mu.Unlock()

	vm.scope.goFunc(func(ctx context.Context) {
		var (
			detail *domain.CharacterDetail
			err    error
			pc     panics.Catcher
		)
		pc.Try(func() {
			detail, err = vm.catalog.CharacterDetail(ctx, characterID)
		})
		if recovered := pc.Recovered(); recovered != nil {
			detail, err = nil, recovered.AsError()
		}

		vm.mu.Lock()
		defer vm.mu.Unlock()
		if token != vm.seq {
			return
		}
		vm.state.Loading = false
		if err != nil {
			vm.logger.Warn("Character detail failed",
				zap.Int("character_id", characterID),
				zap.Error(err),
			)
			vm.state.Err = err
			return
		}
		vm.state.Character = detail
	})
}

func (vm *DetailVM) State() DetailState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

func (vm *DetailVM) Wait()  { vm.scope.wait() }
func (vm *DetailVM) Close() { vm.scope.close() }

// FavoritesVM backs the favorites screen.
type FavoritesVM struct {
	store FavoriteSet
}

func NewFavoritesVM(store FavoriteSet) *FavoritesVM {
	return &FavoritesVM{store: store}
}

func (vm *FavoritesVM) List() []domain.FavoriteRecord {
	return vm.store.List()
}

func (vm *FavoritesVM) Remove(id int) bool {
	return vm.store.Remove(id)
}

func (vm *FavoritesVM) Toggle(r domain.FavoriteRecord) bool {
	return vm.store.Toggle(r)
}

func (vm *FavoritesVM) IsFavorite(id int) bool {
	return vm.store.Contains(id)
}
