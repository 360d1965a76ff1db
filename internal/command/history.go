package command

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/adapter"
)

const recentSearchLimit = 10

type HistoryCommand struct {
	deps *Dependencies
}

func NewHistoryCommand(deps *Dependencies) *HistoryCommand {
	return &HistoryCommand{deps: deps}
}

func (c *HistoryCommand) Name() string {
	return adapter.CommandHistory
}

func (c *HistoryCommand) Description() string {
	return "Показывает последние поиски в этом чате"
}

func (c *HistoryCommand) Execute(ctx context.Context, cmdCtx *Context, args string) error {
	if c.deps.History == nil {
		return c.deps.SendMessage(ctx, cmdCtx.ChatID,
			c.deps.Formatter.FormatError("история поиска отключена"))
	}

	entries, err := c.deps.History.RecentSearches(ctx, cmdCtx.ChatID, recentSearchLimit)
	if err != nil {
		return err
	}
	return c.deps.SendMessage(ctx, cmdCtx.ChatID, c.deps.Formatter.FormatHistory(entries))
}
