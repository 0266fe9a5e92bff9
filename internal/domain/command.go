package domain

type CommandType string

const (
	CommandSearch      CommandType = "search"
	CommandMoreResults CommandType = "more"
	CommandRefresh     CommandType = "refresh"
	CommandSelect      CommandType = "select"
	CommandMoreCast    CommandType = "cast"
	CommandDetail      CommandType = "detail"
	CommandFavorite    CommandType = "fav"
	CommandFavorites   CommandType = "favs"
	CommandUnfavorite  CommandType = "unfav"
	CommandHelp        CommandType = "help"
	CommandQuit        CommandType = "quit"
	CommandUnknown     CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandSearch, CommandMoreResults, CommandRefresh, CommandSelect, CommandMoreCast,
		CommandDetail, CommandFavorite, CommandFavorites, CommandUnfavorite,
		CommandHelp, CommandQuit, CommandUnknown:
		return true
	default:
		return false
	}
}
