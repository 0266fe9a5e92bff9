package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/adapter"
	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/internal/explorer"
	"github.com/kapu/anilist-explorer-go/internal/paging"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

type Dependencies struct {
	Explorer    *explorer.Explorer
	Formatter   *adapter.ResponseFormatter
	SendMessage func(session, message string) error
	SendError   func(session, message string) error
	Logger      *zap.Logger
}

func (d *Dependencies) validate() error {
	if d == nil {
		return fmt.Errorf("command dependencies not configured")
	}
	if d.SendMessage == nil || d.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if d.Explorer == nil || d.Formatter == nil {
		return fmt.Errorf("explorer services not configured")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return nil
}

func targetParam(params map[string]any) (adapter.Target, bool) {
	target, ok := params["target"].(adapter.Target)
	if !ok || target.IsZero() {
		return adapter.Target{}, false
	}
	return target, true
}

// entryByKey finds the listing entry with the given display key.
func entryByKey[T any](items []paging.Entry[T], key string) (T, bool) {
	for _, entry := range items {
		if entry.Key == key {
			return entry.Item, true
		}
	}
	var zero T
	return zero, false
}

// RegisterDefaults registers every explorer command on r.
func RegisterDefaults(r *Registry, deps *Dependencies) {
	r.Register(NewSearchCommand(deps))
	r.Register(NewMoreResultsCommand(deps))
	r.Register(NewRefreshCommand(deps))
	r.Register(NewSelectCommand(deps))
	r.Register(NewMoreCastCommand(deps))
	r.Register(NewDetailCommand(deps))
	r.Register(NewFavoriteCommand(deps))
	r.Register(NewFavoritesCommand(deps))
	r.Register(NewUnfavoriteCommand(deps))
	r.Register(NewHelpCommand(deps))
}
