package command

import (
	"context"
	"fmt"

	"github.com/kapu/anilist-explorer-go/internal/domain"
)

type FavoritesCommand struct {
	deps *Dependencies
}

func NewFavoritesCommand(deps *Dependencies) *FavoritesCommand {
	return &FavoritesCommand{deps: deps}
}

func (c *FavoritesCommand) Name() string {
	return domain.CommandFavorites.String()
}

func (c *FavoritesCommand) Description() string {
	return "List favorite characters"
}

func (c *FavoritesCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatFavorites(c.deps.Explorer.ListFavorites()))
}

type UnfavoriteCommand struct {
	deps *Dependencies
}

func NewUnfavoriteCommand(deps *Dependencies) *UnfavoriteCommand {
	return &UnfavoriteCommand{deps: deps}
}

func (c *UnfavoriteCommand) Name() string {
	return domain.CommandUnfavorite.String()
}

func (c *UnfavoriteCommand) Description() string {
	return "Remove a character from favorites"
}

func (c *UnfavoriteCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}

	target, ok := targetParam(params)
	if !ok {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError("Which favorite? e.g. unfav 1"))
	}

	if target.Key != "" {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError("Use a position or #id, e.g. unfav 1"))
	}

	favorites := c.deps.Explorer.ListFavorites()
	var record domain.FavoriteRecord
	switch {
	case target.Position > 0:
		if target.Position > len(favorites) {
			return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError(
				fmt.Sprintf("There is no favorite %d.", target.Position)))
		}
		record = favorites[target.Position-1]
	default:
		record = domain.FavoriteRecord{ID: target.ID, Name: fmt.Sprintf("#%d", target.ID)}
		for _, r := range favorites {
			if r.ID == target.ID {
				record = r
				break
			}
		}
	}

	removed := c.deps.Explorer.RemoveFavorite(record.ID)
	if !removed {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatFavoriteRemoved(record.Name, false))
	}
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatFavoriteRemoved(record.Name, true))
}
