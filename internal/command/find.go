package command

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/adapter"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

type FindCommand struct {
	deps *Dependencies
}

func NewFindCommand(deps *Dependencies) *FindCommand {
	return &FindCommand{deps: deps}
}

func (c *FindCommand) Name() string {
	return adapter.CommandFind
}

func (c *FindCommand) Description() string {
	return "Ищет каналы, похожие на указанные"
}

func (c *FindCommand) Execute(ctx context.Context, cmdCtx *Context, args string) error {
	if args == "" {
		return c.deps.SendMessage(ctx, cmdCtx.ChatID,
			c.deps.Formatter.FormatError("укажите ссылку на канал или @упоминание"))
	}

	result := c.deps.Engine.Search(ctx, args)

	if result.Success {
		c.deps.Results.Set(cmdCtx.ChatID, result)
	}
	c.recordHistory(ctx, cmdCtx, args, result)

	return c.deps.SendMessage(ctx, cmdCtx.ChatID, c.deps.Formatter.FormatSearchResult(result))
}

func (c *FindCommand) recordHistory(ctx context.Context, cmdCtx *Context, query string, result *domain.SearchResult) {
	if c.deps.History == nil {
		return
	}

	entry := domain.SearchLogEntry{
		ChatID:       cmdCtx.ChatID,
		Query:        query,
		HandleCount:  len(result.ProcessedChannels),
		ResultCount:  result.TotalFound(),
		QualityScore: result.QualityScore,
		Elapsed:      result.Elapsed,
		Success:      result.Success,
	}
	if err := c.deps.History.RecordSearch(ctx, entry); err != nil {
		c.deps.Logger.Warn("Failed to record search history", zap.Error(err))
	}
}
