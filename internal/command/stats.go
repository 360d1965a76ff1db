package command

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/adapter"
)

type StatsCommand struct {
	deps *Dependencies
}

func NewStatsCommand(deps *Dependencies) *StatsCommand {
	return &StatsCommand{deps: deps}
}

func (c *StatsCommand) Name() string {
	return adapter.CommandStats
}

func (c *StatsCommand) Description() string {
	return "Показывает счётчики работы движка"
}

func (c *StatsCommand) Execute(ctx context.Context, cmdCtx *Context, args string) error {
	metrics := c.deps.Engine.Metrics()
	return c.deps.SendMessage(ctx, cmdCtx.ChatID, c.deps.Formatter.FormatStats(metrics))
}
