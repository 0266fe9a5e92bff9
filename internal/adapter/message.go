package adapter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kapu/anilist-explorer-go/internal/domain"
)

var (
	controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	entryKeyPattern     = regexp.MustCompile(`^[0-9]+-[0-9]+$`)
)

// Target addresses an item by its 1-based position in the list on screen,
// by its catalog id with a leading '#', or by its listing key ("5-2").
type Target struct {
	Position int
	ID       int
	Key      string
}

func (t Target) IsZero() bool {
	return t.Position == 0 && t.ID == 0 && t.Key == ""
}

// MessageAdapter converts terminal lines to commands.
type MessageAdapter struct {
	prefix string
}

func NewMessageAdapter(prefix string) *MessageAdapter {
	return &MessageAdapter{prefix: strings.TrimSpace(prefix)}
}

type ParsedCommand struct {
	Type       domain.CommandType
	Params     map[string]any
	RawMessage string
}

// ParseMessage parses one input line. Without a prefix, a line that is not a
// known command is searched for as a title.
func (ma *MessageAdapter) ParseMessage(line string) *ParsedCommand {
	text := strings.TrimSpace(controlCharsPattern.ReplaceAllString(line, " "))
	if text == "" {
		return ma.createUnknownCommand("")
	}

	commandText := text
	if ma.prefix != "" {
		if !strings.HasPrefix(text, ma.prefix) {
			return ma.createUnknownCommand(text)
		}
		commandText = strings.TrimSpace(text[len(ma.prefix):])
	}

	parts := strings.Fields(commandText)
	if len(parts) == 0 {
		return ma.createUnknownCommand(text)
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch {
	case matches(command, "search", "s", "find"):
		return ma.newCommand(domain.CommandSearch, map[string]any{"term": strings.Join(args, " ")}, text)
	case matches(command, "more", "next", "m"):
		return ma.newCommand(domain.CommandMoreResults, nil, text)
	case matches(command, "refresh", "retry", "r"):
		return ma.newCommand(domain.CommandRefresh, nil, text)
	case matches(command, "select", "sel", "open"):
		return ma.targetCommand(domain.CommandSelect, args, text)
	case matches(command, "cast", "c"):
		return ma.newCommand(domain.CommandMoreCast, nil, text)
	case matches(command, "detail", "d", "char"):
		return ma.targetCommand(domain.CommandDetail, args, text)
	case matches(command, "fav", "f", "toggle"):
		return ma.targetCommand(domain.CommandFavorite, args, text)
	case matches(command, "favs", "favorites", "list"):
		return ma.newCommand(domain.CommandFavorites, nil, text)
	case matches(command, "unfav", "remove", "rm"):
		return ma.targetCommand(domain.CommandUnfavorite, args, text)
	case matches(command, "help", "h", "?"):
		return ma.newCommand(domain.CommandHelp, nil, text)
	case matches(command, "quit", "exit", "q"):
		return ma.newCommand(domain.CommandQuit, nil, text)
	}

	if ma.prefix == "" {
		return ma.newCommand(domain.CommandSearch, map[string]any{"term": commandText}, text)
	}
	return ma.createUnknownCommand(text)
}

func (ma *MessageAdapter) targetCommand(cmdType domain.CommandType, args []string, raw string) *ParsedCommand {
	params := make(map[string]any)
	if len(args) > 0 {
		target, ok := ParseTarget(args[0])
		if !ok {
			return ma.createUnknownCommand(raw)
		}
		params["target"] = target
	}
	return ma.newCommand(cmdType, params, raw)
}

// ParseTarget reads "3" as position 3, "#269" as id 269 and "5-2" as the
// listing key of a repeated entry.
func ParseTarget(arg string) (Target, bool) {
	arg = strings.TrimSpace(arg)
	if entryKeyPattern.MatchString(arg) {
		return Target{Key: arg}, true
	}
	if strings.HasPrefix(arg, "#") {
		id, err := strconv.Atoi(arg[1:])
		if err != nil || id <= 0 {
			return Target{}, false
		}
		return Target{ID: id}, true
	}
	pos, err := strconv.Atoi(arg)
	if err != nil || pos <= 0 {
		return Target{}, false
	}
	return Target{Position: pos}, true
}

func (ma *MessageAdapter) newCommand(cmdType domain.CommandType, params map[string]any, raw string) *ParsedCommand {
	if params == nil {
		params = make(map[string]any)
	}
	return &ParsedCommand{
		Type:       cmdType,
		Params:     params,
		RawMessage: raw,
	}
}

func (ma *MessageAdapter) createUnknownCommand(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		Params:     make(map[string]any),
		RawMessage: text,
	}
}

func matches(cmd string, names ...string) bool {
	for _, name := range names {
		if cmd == name {
			return true
		}
	}
	return false
}
