package app

import (
	"context"
	"fmt"

	"github.com/avdeev/channel-scout-go/internal/adapter"
	"github.com/avdeev/channel-scout-go/internal/bot"
	"github.com/avdeev/channel-scout-go/internal/command"
	"github.com/avdeev/channel-scout-go/internal/config"
	"github.com/avdeev/channel-scout-go/internal/constants"
	"github.com/avdeev/channel-scout-go/internal/directory"
	"github.com/avdeev/channel-scout-go/internal/engine"
	"github.com/avdeev/channel-scout-go/internal/service/ai"
	"github.com/avdeev/channel-scout-go/internal/service/cache"
	"github.com/avdeev/channel-scout-go/internal/service/database"
	"github.com/avdeev/channel-scout-go/internal/service/history"
	"github.com/avdeev/channel-scout-go/internal/tgate"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components
// like Bot.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	botDeps *bot.Dependencies
	closers []func()
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Close releases infrastructure connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services and returns a container capable
// of creating fully-wired bots. All heavy-weight initialization (DB, cache,
// AI) happens here so that bot.NewBot stays focused on orchestration logic.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Messaging primitives
	gatewayClient := tgate.NewClient(cfg.Gateway.BaseURL, logger)
	gatewayWS := tgate.NewWebSocket(cfg.Gateway.WSURL,
		constants.WebSocketConfig.MaxReconnectAttempts,
		constants.WebSocketConfig.ReconnectDelay,
		logger)
	messageAdapter := adapter.NewMessageAdapter(cfg.Bot.Prefix)
	formatter := adapter.NewResponseFormatter(cfg.Bot.Prefix)

	// Cache
	cacheSvc, err := cache.NewService(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	// Search history, optional
	var historyRepo *history.Repository
	if cfg.Postgres.Enabled {
		postgresSvc, pgErr := database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger)
		if pgErr != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", pgErr)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})

		historyRepo = history.NewRepository(postgresSvc, logger)
		if schemaErr := historyRepo.EnsureSchema(ctx); schemaErr != nil {
			return nil, fmt.Errorf("failed to prepare search history schema: %w", schemaErr)
		}
		logger.Info("Search history persistence enabled")
	}

	// Channel directory with web preview fallback
	preview := directory.NewPreviewResolver(logger)
	dir := directory.NewGatewayDirectory(gatewayClient, preview, cacheSvc, logger)

	// Optional LLM keyword expander
	expander, err := ai.NewKeywordExpander(ctx, ai.ExpanderConfig{
		GeminiAPIKey:   cfg.AI.GeminiAPIKey,
		OpenAIAPIKey:   cfg.AI.OpenAIAPIKey,
		EnableFallback: cfg.AI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword expander: %w", err)
	}

	// Discovery engine; the cache reports hit/miss into the engine's metrics.
	metrics := engine.NewMetricsCollector()
	cacheSvc.SetStats(metrics)

	var keywordExpander engine.KeywordExpander
	if expander != nil {
		keywordExpander = expander
	}
	searchEngine := engine.New(dir, cacheSvc, keywordExpander, metrics, engine.Config{
		MinSubscribers: cfg.Engine.MinSubscribers,
		SearchTimeout:  cfg.Engine.SearchTimeout,
	}, logger)

	// Command handlers
	cmdDeps := &command.Dependencies{
		Engine:    searchEngine,
		Results:   command.NewResultStore(),
		Formatter: formatter,
		SendMessage: func(ctx context.Context, chatID int64, message string) error {
			return gatewayClient.SendMessage(ctx, chatID, message)
		},
		SendDocument: func(ctx context.Context, chatID int64, filename string, data []byte) error {
			return gatewayClient.SendDocument(ctx, chatID, filename, data, "")
		},
		Logger: logger,
	}
	if historyRepo != nil {
		cmdDeps.History = historyRepo
	}

	registry := command.NewRegistry()
	registry.Register(command.NewFindCommand(cmdDeps))
	registry.Register(command.NewExportCommand(cmdDeps))
	registry.Register(command.NewStatsCommand(cmdDeps))
	registry.Register(command.NewHistoryCommand(cmdDeps))
	registry.Register(command.NewHelpCommand(cmdDeps))

	deps := &bot.Dependencies{
		Config:         cfg,
		Logger:         logger,
		Client:         gatewayClient,
		WebSocket:      gatewayWS,
		MessageAdapter: messageAdapter,
		Formatter:      formatter,
		Registry:       registry,
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		botDeps: deps,
		closers: closers,
	}, nil
}
