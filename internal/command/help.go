package command

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/adapter"
)

type HelpCommand struct {
	deps *Dependencies
}

func NewHelpCommand(deps *Dependencies) *HelpCommand {
	return &HelpCommand{deps: deps}
}

func (c *HelpCommand) Name() string {
	return adapter.CommandHelp
}

func (c *HelpCommand) Description() string {
	return "Показывает справку по командам"
}

func (c *HelpCommand) Execute(ctx context.Context, cmdCtx *Context, args string) error {
	return c.deps.SendMessage(ctx, cmdCtx.ChatID, c.deps.Formatter.FormatHelp())
}
