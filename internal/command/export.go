package command

import (
	"context"
	"fmt"
	"time"

	"github.com/avdeev/channel-scout-go/internal/adapter"
	"github.com/avdeev/channel-scout-go/internal/export"
)

type ExportCommand struct {
	deps *Dependencies
}

func NewExportCommand(deps *Dependencies) *ExportCommand {
	return &ExportCommand{deps: deps}
}

func (c *ExportCommand) Name() string {
	return adapter.CommandExport
}

func (c *ExportCommand) Description() string {
	return "Выгружает последний результат поиска в CSV"
}

func (c *ExportCommand) Execute(ctx context.Context, cmdCtx *Context, args string) error {
	result, ok := c.deps.Results.Get(cmdCtx.ChatID)

	// With arguments the command doubles as find-then-export.
	if args != "" {
		result = c.deps.Engine.Search(ctx, args)
		if !result.Success {
			return c.deps.SendMessage(ctx, cmdCtx.ChatID, c.deps.Formatter.FormatError(result.Error))
		}
		c.deps.Results.Set(cmdCtx.ChatID, result)
		ok = true
	}

	if !ok {
		return c.deps.SendMessage(ctx, cmdCtx.ChatID,
			c.deps.Formatter.FormatError("сначала выполните поиск или добавьте ссылку к команде"))
	}

	if result.TotalFound() == 0 {
		return c.deps.SendMessage(ctx, cmdCtx.ChatID,
			c.deps.Formatter.FormatError("в последнем поиске не было находок, экспортировать нечего"))
	}

	data := export.ChannelsCSV(result.Candidates)
	filename := fmt.Sprintf("channels_%s.csv", time.Now().Format("20060102_150405"))

	if err := c.deps.SendDocument(ctx, cmdCtx.ChatID, filename, data); err != nil {
		return err
	}
	return c.deps.SendMessage(ctx, cmdCtx.ChatID,
		c.deps.Formatter.FormatExportCaption(result.TotalFound()))
}
