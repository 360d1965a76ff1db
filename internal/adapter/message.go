package adapter

import (
	"regexp"
	"strings"

	"github.com/avdeev/channel-scout-go/internal/util"
)

var controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)

var channelRefPattern = regexp.MustCompile(`(?i)(?:t(?:elegram)?\.me/|@)[A-Za-z0-9_]{3,}`)

// Command keys produced by the parser.
const (
	CommandFind    = "find"
	CommandExport  = "export"
	CommandStats   = "stats"
	CommandHistory = "history"
	CommandHelp    = "help"
	CommandUnknown = ""
)

// MessageAdapter converts incoming chat messages to bot commands
type MessageAdapter struct {
	prefix string
}

// NewMessageAdapter creates a new MessageAdapter
func NewMessageAdapter(prefix string) *MessageAdapter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "/"
	}
	return &MessageAdapter{prefix: prefix}
}

// ParsedCommand represents a parsed command
type ParsedCommand struct {
	Key        string
	Args       string
	RawMessage string
}

// ParseMessage parses a chat message into a command. Messages without the
// command prefix are still treated as a search when they contain a channel
// reference; that is how most users talk to the bot.
func (ma *MessageAdapter) ParseMessage(text string) *ParsedCommand {
	text = sanitize(text)
	if text == "" {
		return ma.unknown("")
	}

	if !strings.HasPrefix(text, ma.prefix) {
		if channelRefPattern.MatchString(text) {
			return &ParsedCommand{Key: CommandFind, Args: text, RawMessage: text}
		}
		return ma.unknown(text)
	}

	commandText := strings.TrimSpace(text[len(ma.prefix):])
	parts := strings.Fields(commandText)
	if len(parts) == 0 {
		return ma.unknown(text)
	}

	command := util.Normalize(parts[0])
	args := strings.TrimSpace(strings.Join(parts[1:], " "))

	switch {
	case ma.isFindCommand(command):
		return &ParsedCommand{Key: CommandFind, Args: args, RawMessage: text}
	case ma.isExportCommand(command):
		return &ParsedCommand{Key: CommandExport, Args: args, RawMessage: text}
	case ma.isStatsCommand(command):
		return &ParsedCommand{Key: CommandStats, Args: args, RawMessage: text}
	case ma.isHistoryCommand(command):
		return &ParsedCommand{Key: CommandHistory, Args: args, RawMessage: text}
	case ma.isHelpCommand(command):
		return &ParsedCommand{Key: CommandHelp, Args: args, RawMessage: text}
	}

	return ma.unknown(text)
}

// Command matchers

func (ma *MessageAdapter) isFindCommand(cmd string) bool {
	return util.Contains([]string{"найти", "поиск", "похожие", "find", "search"}, cmd)
}

func (ma *MessageAdapter) isExportCommand(cmd string) bool {
	return util.Contains([]string{"экспорт", "выгрузка", "export", "csv"}, cmd)
}

func (ma *MessageAdapter) isStatsCommand(cmd string) bool {
	return util.Contains([]string{"статистика", "стат", "stats", "metrics"}, cmd)
}

func (ma *MessageAdapter) isHistoryCommand(cmd string) bool {
	return util.Contains([]string{"история", "лог", "history", "recent"}, cmd)
}

func (ma *MessageAdapter) isHelpCommand(cmd string) bool {
	return util.Contains([]string{"помощь", "справка", "команды", "help", "start"}, cmd)
}

func (ma *MessageAdapter) unknown(text string) *ParsedCommand {
	return &ParsedCommand{Key: CommandUnknown, RawMessage: text}
}

func sanitize(input string) string {
	withoutControl := controlCharsPattern.ReplaceAllString(input, " ")
	return strings.TrimSpace(regexp.MustCompile(`\s+`).ReplaceAllString(withoutControl, " "))
}
