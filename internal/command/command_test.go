package command

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/adapter"
	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/internal/explorer"
	"github.com/kapu/anilist-explorer-go/internal/favorites"
	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

type stubCatalog struct {
	searchErr error
	calls     int
}

func strPtr(s string) *string { return &s }

func (s *stubCatalog) SearchMedia(_ context.Context, term string, page, perPage int) (domain.Page[domain.MediaSummary], error) {
	s.calls++
	if s.searchErr != nil {
		return domain.Page[domain.MediaSummary]{}, s.searchErr
	}
	if term != "Bleach" {
		return domain.Page[domain.MediaSummary]{Items: []domain.MediaSummary{}, Cursor: domain.PageCursor{CurrentPage: 1}}, nil
	}
	return domain.Page[domain.MediaSummary]{
		Items: []domain.MediaSummary{
			{ID: 269, Title: domain.MediaTitle{English: strPtr("Bleach")}},
		},
		Cursor: domain.PageCursor{CurrentPage: 1},
	}, nil
}

func (s *stubCatalog) MediaCharacters(_ context.Context, mediaID, page, perPage int) (domain.Page[domain.CharacterSummary], error) {
	s.calls++
	return domain.Page[domain.CharacterSummary]{
		Items: []domain.CharacterSummary{
			{ID: 5, Name: "Ichigo Kurosaki", Role: domain.RoleMain},
			{ID: 6, Name: "Rukia Kuchiki", Role: domain.RoleSupporting},
		},
		Cursor: domain.PageCursor{CurrentPage: 1},
	}, nil
}

func (s *stubCatalog) CharacterDetail(_ context.Context, id int) (*domain.CharacterDetail, error) {
	s.calls++
	if id != 5 {
		return nil, errors.NewMappingError("character not found in payload", "Character")
	}
	return &domain.CharacterDetail{
		ID:          5,
		Name:        "Ichigo Kurosaki",
		Image:       "https://img/5.jpg",
		Description: "Substitute <i>Soul Reaper</i>.",
	}, nil
}

type harness struct {
	dispatcher Dispatcher
	adapter    *adapter.MessageAdapter
	catalog    *stubCatalog
	store      *favorites.Store
	messages   []string
	errors     []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{catalog: &stubCatalog{}, adapter: adapter.NewMessageAdapter("")}

	h.store = favorites.NewStore(favorites.NewMemoryStorage(nil), zap.NewNop())
	h.store.Open(context.Background())
	<-h.store.Ready()

	e := explorer.New(context.Background(), h.catalog, h.store, explorer.Options{}, zap.NewNop())
	t.Cleanup(func() {
		e.Close()
		_ = h.store.Close(context.Background())
	})

	deps := &Dependencies{
		Explorer:  e,
		Formatter: adapter.NewResponseFormatter(""),
		SendMessage: func(_, message string) error {
			h.messages = append(h.messages, message)
			return nil
		},
		SendError: func(_, message string) error {
			h.errors = append(h.errors, message)
			return nil
		},
		Logger: zap.NewNop(),
	}
	registry := NewRegistry()
	RegisterDefaults(registry, deps)
	h.dispatcher = NewSequentialDispatcher(registry, nil)
	return h
}

func (h *harness) run(t *testing.T, line string) {
	t.Helper()
	parsed := h.adapter.ParseMessage(line)
	_, err := h.dispatcher.Publish(context.Background(), domain.NewCommandContext("test", line),
		CommandEvent{Type: parsed.Type, Params: parsed.Params})
	require.NoError(t, err)
}

func (h *harness) last() string {
	if len(h.messages) == 0 {
		return ""
	}
	return h.messages[len(h.messages)-1]
}

func TestRegisterDefaults(t *testing.T) {
	registry := NewRegistry()
	RegisterDefaults(registry, &Dependencies{})
	assert.Equal(t, 10, registry.Count())
	assert.Contains(t, registry.Names(), "refresh")
	assert.Contains(t, registry.Names(), "search")
	assert.Contains(t, registry.Names(), "unfav")
}

func TestRegistryUnknownKey(t *testing.T) {
	registry := NewRegistry()
	err := registry.Execute(context.Background(), domain.NewCommandContext("s", ""), "nope", nil)
	assert.True(t, stderrors.Is(err, ErrUnknownCommand))
}

func TestBrowseAndFavoriteFlow(t *testing.T) {
	h := newHarness(t)

	h.run(t, "Bleach")
	assert.Contains(t, h.last(), `Results for "Bleach" (1)`)
	assert.Contains(t, h.last(), "Bleach  #269")

	h.run(t, "select 1")
	assert.Contains(t, h.last(), "Cast of Bleach (2)")
	assert.Contains(t, h.last(), "Ichigo Kurosaki (main)")
	assert.Contains(t, h.last(), "Rukia Kuchiki (supporting)")

	h.run(t, "detail 1")
	assert.Contains(t, h.last(), "Ichigo Kurosaki")
	assert.Contains(t, h.last(), "Substitute _Soul Reaper_.")
	assert.Contains(t, h.last(), "Birthday: -")

	h.run(t, "fav")
	assert.Equal(t, "Added Ichigo Kurosaki to favorites.", h.last())
	assert.Equal(t, []domain.FavoriteRecord{{ID: 5, Name: "Ichigo Kurosaki", Image: "https://img/5.jpg"}}, h.store.List())

	h.run(t, "fav 2")
	h.run(t, "favs")
	assert.Contains(t, h.last(), "Favorites (2)")
	assert.Contains(t, h.last(), "1. Ichigo Kurosaki  #5")
	assert.Contains(t, h.last(), "2. Rukia Kuchiki  #6")

	h.run(t, "unfav 1")
	assert.Equal(t, "Removed Ichigo Kurosaki from favorites.", h.last())
	assert.False(t, h.store.Contains(5))
	assert.Empty(t, h.errors)
}

func TestEmptySearchShowsOnboarding(t *testing.T) {
	h := newHarness(t)

	h.run(t, "search")
	assert.Contains(t, h.last(), "Type a title to search")
	assert.Equal(t, 0, h.catalog.calls)
}

func TestFailedSearchDiffersFromNoResults(t *testing.T) {
	h := newHarness(t)

	h.run(t, "search Naruto")
	assert.Equal(t, `No results for "Naruto".`, h.last())

	h.catalog.searchErr = errors.NewTransportError("request failed", 0, "", nil)
	h.run(t, "search Bleach")
	assert.Equal(t, "! Search failed. Try again.", h.last())
}

func TestSelectOutOfRangeReportsError(t *testing.T) {
	h := newHarness(t)

	h.run(t, "Bleach")
	h.run(t, "select 4")
	require.Len(t, h.errors, 1)
	assert.Contains(t, h.errors[0], "There is no result 4.")
}

func TestFavWithoutOpenCharacter(t *testing.T) {
	h := newHarness(t)

	h.run(t, "fav")
	require.Len(t, h.errors, 1)
	assert.Contains(t, h.errors[0], "Open a character first")
}

func TestFavByIDLoadsDetail(t *testing.T) {
	h := newHarness(t)

	h.run(t, "fav #5")
	assert.Equal(t, "Added Ichigo Kurosaki to favorites.", h.last())
	assert.True(t, h.store.Contains(5))

	h.run(t, "fav #404")
	require.Len(t, h.errors, 1)
	assert.Contains(t, h.errors[0], "Could not load character #404.")
}

func TestFavoritesEmptyMessage(t *testing.T) {
	h := newHarness(t)

	h.run(t, "favs")
	assert.Contains(t, h.last(), "No favorites yet")
}

func TestHelpListsCommands(t *testing.T) {
	h := newHarness(t)

	h.run(t, "help")
	assert.Contains(t, h.last(), "search <title>")
	assert.Contains(t, h.last(), "unfav <n|#id>")
}

func TestRefreshRecoversFailedSearch(t *testing.T) {
	h := newHarness(t)

	h.run(t, "refresh")
	require.Len(t, h.errors, 1)
	assert.Contains(t, h.errors[0], "Search for a title first.")

	h.catalog.searchErr = errors.NewTransportError("request failed", 0, "", nil)
	h.run(t, "search Bleach")
	assert.Equal(t, "! Search failed. Try again.", h.last())

	h.catalog.searchErr = nil
	h.run(t, "retry")
	assert.Contains(t, h.last(), `Results for "Bleach" (1)`)
}

func TestListingKeysAddressEntries(t *testing.T) {
	h := newHarness(t)

	h.run(t, "Bleach")
	h.run(t, "select 269-0")
	assert.Contains(t, h.last(), "Cast of Bleach (2)")

	h.run(t, "detail 6-1")
	require.Len(t, h.errors, 1)
	assert.Contains(t, h.errors[0], "Could not load the character.")

	h.run(t, "fav 6-1")
	assert.Equal(t, "Added Rukia Kuchiki to favorites.", h.last())

	h.run(t, "detail 5-9")
	require.Len(t, h.errors, 2)
	assert.Contains(t, h.errors[1], "There is no character 5-9.")

	h.run(t, "unfav 6-1")
	assert.Contains(t, h.errors[len(h.errors)-1], "Use a position or #id")
	assert.True(t, h.store.Contains(6))
}
