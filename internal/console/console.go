// Package console runs the interactive terminal session: it reads one command
// per line, dispatches it against the explorer and prints the rendered reply.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kapu/anilist-explorer-go/internal/adapter"
	"github.com/kapu/anilist-explorer-go/internal/command"
	"github.com/kapu/anilist-explorer-go/internal/domain"
	"github.com/kapu/anilist-explorer-go/internal/explorer"
	"github.com/kapu/anilist-explorer-go/internal/favorites"
)

const (
	sessionName = "terminal"
	prompt      = "> "
)

type Dependencies struct {
	Explorer       *explorer.Explorer
	Favorites      *favorites.Store
	MessageAdapter *adapter.MessageAdapter
	Formatter      *adapter.ResponseFormatter
	Logger         *zap.Logger
}

type Console struct {
	deps       Dependencies
	in         io.Reader
	out        io.Writer
	outMu      sync.Mutex
	registry   *command.Registry
	dispatcher command.Dispatcher
	logger     *zap.Logger
}

func New(deps Dependencies, in io.Reader, out io.Writer) (*Console, error) {
	if deps.Explorer == nil || deps.MessageAdapter == nil || deps.Formatter == nil {
		return nil, fmt.Errorf("console dependencies not configured")
	}
	if in == nil || out == nil {
		return nil, fmt.Errorf("console input and output are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	c := &Console{
		deps:     deps,
		in:       in,
		out:      out,
		registry: command.NewRegistry(),
		logger:   deps.Logger.Named("console"),
	}

	command.RegisterDefaults(c.registry, &command.Dependencies{
		Explorer:    deps.Explorer,
		Formatter:   deps.Formatter,
		SendMessage: c.send,
		SendError:   c.send,
		Logger:      c.logger,
	})
	c.dispatcher = command.NewSequentialDispatcher(c.registry, nil)

	c.logger.Debug("Commands registered", zap.Strings("commands", c.registry.Names()))
	return c, nil
}

// Start prints the banner and processes lines until EOF, a quit command or
// cancellation of ctx. Cancellation is observed between lines.
func (c *Console) Start(ctx context.Context) error {
	c.writeLine(c.deps.Formatter.FormatHelp())
	if c.deps.Favorites != nil && !c.deps.Favorites.Loaded() {
		c.logger.Debug("Favorites still loading at startup")
	}
	defer c.watchLoading()()

	scanner := bufio.NewScanner(c.in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		c.write(prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		if quit := c.HandleLine(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// watchLoading prints a loading line whenever a search or cast list starts
// from empty, and returns the function that stops watching.
func (c *Console) watchLoading() func() {
	exp := c.deps.Explorer
	stopSearch := exp.SubscribeSearch(func(s explorer.SearchState) {
		if s.IsLoading && len(s.Items) == 0 {
			c.writeLine(c.deps.Formatter.FormatSearchResults(s))
		}
	})
	stopCast := exp.SubscribeCast(func(s explorer.CastState) {
		if !s.IsLoading || len(s.Items) > 0 {
			return
		}
		media, _ := exp.SelectedMedia()
		c.writeLine(c.deps.Formatter.FormatCast(media, s, nil))
	})
	return func() {
		stopSearch()
		stopCast()
	}
}

// HandleLine executes one input line and reports whether it asked to quit.
func (c *Console) HandleLine(ctx context.Context, line string) bool {
	parsed := c.deps.MessageAdapter.ParseMessage(line)

	switch parsed.Type {
	case domain.CommandQuit:
		return true
	case domain.CommandUnknown:
		if strings.TrimSpace(parsed.RawMessage) != "" {
			c.writeLine(c.deps.Formatter.FormatError("Unknown command. Type help for the list."))
		}
		return false
	}

	cmdCtx := domain.NewCommandContext(sessionName, parsed.RawMessage)
	event := command.CommandEvent{Type: parsed.Type, Params: parsed.Params}
	if _, err := c.dispatcher.Publish(ctx, cmdCtx, event); err != nil {
		c.logger.Error("Command failed",
			zap.String("command", parsed.Type.String()),
			zap.Error(err),
		)
		c.writeLine(c.deps.Formatter.FormatError("Something went wrong."))
	}
	return false
}

func (c *Console) send(_ string, message string) error {
	c.writeLine(message)
	return nil
}

func (c *Console) writeLine(message string) {
	c.write(message + "\n")
}

func (c *Console) write(s string) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	if _, err := io.WriteString(c.out, s); err != nil {
		c.logger.Warn("Failed to write output", zap.Error(err))
	}
}
