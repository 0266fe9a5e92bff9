package domain

import "time"

// CommandContext describes the terminal line that produced a command.
type CommandContext struct {
	Session   string
	Message   string
	Timestamp time.Time
}

func NewCommandContext(session, message string) *CommandContext {
	return &CommandContext{
		Session:   session,
		Message:   message,
		Timestamp: time.Now(),
	}
}
