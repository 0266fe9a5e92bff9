package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/domain"
)

type SearchCommand struct {
	deps *Dependencies
}

func NewSearchCommand(deps *Dependencies) *SearchCommand {
	return &SearchCommand{deps: deps}
}

func (c *SearchCommand) Name() string {
	return domain.CommandSearch.String()
}

func (c *SearchCommand) Description() string {
	return "Search anime by title"
}

func (c *SearchCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}

	term, _ := params["term"].(string)
	c.deps.Logger.Debug("Search", zap.String("term", term))

	c.deps.Explorer.Search(term)
	c.deps.Explorer.Wait()

	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatSearchResults(c.deps.Explorer.SearchState()))
}

type MoreResultsCommand struct {
	deps *Dependencies
}

func NewMoreResultsCommand(deps *Dependencies) *MoreResultsCommand {
	return &MoreResultsCommand{deps: deps}
}

func (c *MoreResultsCommand) Name() string {
	return domain.CommandMoreResults.String()
}

func (c *MoreResultsCommand) Description() string {
	return "Load the next page of search results"
}

func (c *MoreResultsCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}

	state := c.deps.Explorer.SearchState()
	if !state.HasStarted || state.Query == "" {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError("Search for a title first."))
	}
	if !state.Cursor.HasNextPage {
		return c.deps.SendMessage(cmdCtx.Session, "No more results.")
	}

	c.deps.Explorer.LoadMoreResults()
	c.deps.Explorer.Wait()

	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatSearchResults(c.deps.Explorer.SearchState()))
}

// RefreshCommand reloads the current search, typically after a failure.
type RefreshCommand struct {
	deps *Dependencies
}

func NewRefreshCommand(deps *Dependencies) *RefreshCommand {
	return &RefreshCommand{deps: deps}
}

func (c *RefreshCommand) Name() string {
	return domain.CommandRefresh.String()
}

func (c *RefreshCommand) Description() string {
	return "Reload the search results"
}

func (c *RefreshCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}

	state := c.deps.Explorer.SearchState()
	if !state.HasStarted || state.Query == "" {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError("Search for a title first."))
	}

	c.deps.Explorer.RefreshResults()
	c.deps.Explorer.Wait()

	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatSearchResults(c.deps.Explorer.SearchState()))
}

// SelectCommand opens the cast of a search result.
type SelectCommand struct {
	deps *Dependencies
}

func NewSelectCommand(deps *Dependencies) *SelectCommand {
	return &SelectCommand{deps: deps}
}

func (c *SelectCommand) Name() string {
	return domain.CommandSelect.String()
}

func (c *SelectCommand) Description() string {
	return "Show the cast of a search result"
}

func (c *SelectCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}

	target, ok := targetParam(params)
	if !ok {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError("Which result? e.g. select 1"))
	}

	mediaID := target.ID
	items := c.deps.Explorer.SearchState().Items
	switch {
	case target.Key != "":
		media, ok := entryByKey(items, target.Key)
		if !ok {
			return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError(
				fmt.Sprintf("There is no result %s.", target.Key)))
		}
		mediaID = media.ID
	case target.Position > 0:
		if target.Position > len(items) {
			return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError(
				fmt.Sprintf("There is no result %d.", target.Position)))
		}
		mediaID = items[target.Position-1].Item.ID
	}

	c.deps.Explorer.SelectMedia(mediaID)
	c.deps.Explorer.Wait()

	return sendCast(c.deps, cmdCtx)
}

type MoreCastCommand struct {
	deps *Dependencies
}

func NewMoreCastCommand(deps *Dependencies) *MoreCastCommand {
	return &MoreCastCommand{deps: deps}
}

func (c *MoreCastCommand) Name() string {
	return domain.CommandMoreCast.String()
}

func (c *MoreCastCommand) Description() string {
	return "Load the next page of the cast"
}

func (c *MoreCastCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}

	if _, ok := c.deps.Explorer.SelectedMedia(); !ok {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatError("Select an anime first."))
	}

	c.deps.Explorer.LoadMoreCast()
	c.deps.Explorer.Wait()

	return sendCast(c.deps, cmdCtx)
}

func sendCast(deps *Dependencies, cmdCtx *domain.CommandContext) error {
	media, _ := deps.Explorer.SelectedMedia()
	message := deps.Formatter.FormatCast(media, deps.Explorer.CastState(), deps.Explorer.IsFavorite)
	return deps.SendMessage(cmdCtx.Session, message)
}
