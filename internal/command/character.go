package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/adapter"
	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

type DetailCommand struct {
	deps *Dependencies
}

func NewDetailCommand(deps *Dependencies) *DetailCommand {
	return &DetailCommand{deps: deps}
}

func (c *DetailCommand) Name() string {
	return domain.CommandDetail.String()
}

func (c *DetailCommand) Description() string {
	return "Show a character profile"
}

func (c *DetailCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}

	target, ok := targetParam(params)
	if !ok {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError("Which character? e.g. detail 1"))
	}

	characterID, err := resolveCastTarget(c.deps, target)
	if err != nil {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError(err.Error()))
	}

	c.deps.Explorer.OpenCharacter(characterID)
	c.deps.Explorer.Wait()

	state := c.deps.Explorer.DetailState()
	if state.Err != nil || state.Character == nil {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError("Could not load the character."))
	}

	message := c.deps.Formatter.FormatCharacterDetail(state.Character, c.deps.Explorer.IsFavorite(state.Character.ID))
	return c.deps.SendMessage(cmdCtx.Session, message)
}

// FavoriteCommand toggles a character in the favorites. Without a target it
// acts on the open character profile.
type FavoriteCommand struct {
	deps *Dependencies
}

func NewFavoriteCommand(deps *Dependencies) *FavoriteCommand {
	return &FavoriteCommand{deps: deps}
}

func (c *FavoriteCommand) Name() string {
	return domain.CommandFavorite.String()
}

func (c *FavoriteCommand) Description() string {
	return "Toggle a character in favorites"
}

func (c *FavoriteCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}

	record, err := c.resolveRecord(ctx, params)
	if err != nil {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError(err.Error()))
	}

	favorite := c.deps.Explorer.ToggleFavorite(record)
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatFavoriteToggled(record.Name, favorite))
}

func (c *FavoriteCommand) resolveRecord(ctx context.Context, params map[string]any) (domain.FavoriteRecord, error) {
	detail := c.deps.Explorer.DetailState().Character

	target, ok := targetParam(params)
	if !ok {
		if detail == nil {
			return domain.FavoriteRecord{}, errors.NewValidationError("Open a character first, or name one: fav 1", "target", nil)
		}
		return domain.FavoriteFromDetail(*detail), nil
	}

	if target.Key != "" {
		character, ok := entryByKey(c.deps.Explorer.CastState().Items, target.Key)
		if !ok {
			return domain.FavoriteRecord{}, errors.NewValidationError(fmt.Sprintf("There is no character %s.", target.Key), "target", target.Key)
		}
		return domain.FavoriteFromSummary(character), nil
	}
	if target.Position > 0 {
		items := c.deps.Explorer.CastState().Items
		if target.Position > len(items) {
			return domain.FavoriteRecord{}, errors.NewValidationError(fmt.Sprintf("There is no character %d.", target.Position), "target", target.Position)
		}
		return domain.FavoriteFromSummary(items[target.Position-1].Item), nil
	}

	if detail != nil && detail.ID == target.ID {
		return domain.FavoriteFromDetail(*detail), nil
	}
	for _, entry := range c.deps.Explorer.CastState().Items {
		if entry.Item.ID == target.ID {
			return domain.FavoriteFromSummary(entry.Item), nil
		}
	}
	for _, r := range c.deps.Explorer.ListFavorites() {
		if r.ID == target.ID {
			return r, nil
		}
	}

	loaded, err := c.deps.Explorer.CharacterDetail(ctx, target.ID)
	if err != nil {
		c.deps.Logger.Warn("Favorite target lookup failed", zap.Int("character_id", target.ID), zap.Error(err))
		return domain.FavoriteRecord{}, errors.NewValidationError(fmt.Sprintf("Could not load character #%d.", target.ID), "target", target.ID)
	}
	return domain.FavoriteFromDetail(*loaded), nil
}

func resolveCastTarget(deps *Dependencies, target adapter.Target) (int, error) {
	if target.ID > 0 {
		return target.ID, nil
	}
	items := deps.Explorer.CastState().Items
	if target.Key != "" {
		character, ok := entryByKey(items, target.Key)
		if !ok {
			return 0, errors.NewValidationError(fmt.Sprintf("There is no character %s.", target.Key), "target", target.Key)
		}
		return character.ID, nil
	}
	if target.Position > len(items) {
		return 0, errors.NewValidationError(fmt.Sprintf("There is no character %d.", target.Position), "target", target.Position)
	}
	return items[target.Position-1].Item.ID, nil
}
