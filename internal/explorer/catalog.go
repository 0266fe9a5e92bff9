// Package explorer holds the screen view models and the Explorer facade that
// presentation layers drive.
package explorer

import (
	"context"

	"github.com/kapu/anilist-explorer-go/internal/domain"
)

// Catalog is the remote anime catalog as the screens consume it.
type Catalog interface {
	SearchMedia(ctx context.Context, term string, page, perPage int) (domain.Page[domain.MediaSummary], error)
	MediaCharacters(ctx context.Context, mediaID, page, perPage int) (domain.Page[domain.CharacterSummary], error)
	CharacterDetail(ctx context.Context, characterID int) (*domain.CharacterDetail, error)
}

// FavoriteSet is the shared favorites store.
type FavoriteSet interface {
	Add(r domain.FavoriteRecord) bool
	Remove(id int) bool
	Toggle(r domain.FavoriteRecord) bool
	Contains(id int) bool
	List() []domain.FavoriteRecord
}
