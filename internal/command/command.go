package command

import (
	"context"

	"github.com/avdeev/channel-scout-go/internal/adapter"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *Context, args string) error
}

// Context carries per-message routing data into command handlers.
type Context struct {
	ChatID int64
	Sender string
}

// Searcher is the discovery engine surface commands depend on.
type Searcher interface {
	Search(ctx context.Context, text string) *domain.SearchResult
	Metrics() domain.PerformanceMetrics
}

// HistoryStore persists finished searches and serves recent ones back.
// Optional; nil disables history entirely.
type HistoryStore interface {
	RecordSearch(ctx context.Context, entry domain.SearchLogEntry) error
	RecentSearches(ctx context.Context, chatID int64, limit int) ([]domain.SearchLogEntry, error)
}

type Dependencies struct {
	Engine       Searcher
	History      HistoryStore
	Results      *ResultStore
	Formatter    *adapter.ResponseFormatter
	SendMessage  func(ctx context.Context, chatID int64, message string) error
	SendDocument func(ctx context.Context, chatID int64, filename string, data []byte) error
	Logger       *zap.Logger
}
