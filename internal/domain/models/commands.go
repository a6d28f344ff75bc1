package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandHelp        CommandType = "help"
	CommandPing        CommandType = "ping"
	CommandStats       CommandType = "stats"
	CommandSubscribe   CommandType = "subscribe"
	CommandUnsubscribe CommandType = "unsubscribe"
	CommandUnknown     CommandType = "unknown"
)

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// IsCommand reports whether the message even looks like a command. Plain
// conversation is handled elsewhere.
func IsCommand(message string) bool {
	return strings.HasPrefix(strings.TrimSpace(message), "/")
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))

	if normalized == "" {
		return Command{Type: CommandUnknown, Raw: message}
	}

	tokens := strings.Fields(normalized)
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.TrimPrefix(tokens[0], "/")
	switch head {
	case string(CommandHelp):
		cmd.Type = CommandHelp
	case string(CommandPing):
		cmd.Type = CommandPing
	case string(CommandStats):
		cmd.Type = CommandStats
	case string(CommandSubscribe):
		cmd.Type = CommandSubscribe
	case string(CommandUnsubscribe):
		cmd.Type = CommandUnsubscribe
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
