package models

type CommandType string

const (
	CommandStart   CommandType = "/start"
	CommandHelp    CommandType = "/help"
	CommandStatus  CommandType = "/status"
	CommandUnknown CommandType = "unknown"
)

type Command struct {
	Type   CommandType
	ChatID int64
	UserID int64
	Text   string
}

func ParseCommandType(name string) CommandType {
	switch CommandType(name) {
	case CommandStart, CommandHelp, CommandStatus:
		return CommandType(name)
	default:
		return CommandUnknown
	}
}

type BotCommand struct {
	Command     string
	Description string
}
