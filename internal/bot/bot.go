// Package bot wires the gateway update stream to the command registry.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeev/channel-scout-go/internal/adapter"
	"github.com/avdeev/channel-scout-go/internal/command"
	"github.com/avdeev/channel-scout-go/internal/config"
	"github.com/avdeev/channel-scout-go/internal/tgate"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const handlerConcurrency = 8

type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Client         *tgate.Client
	WebSocket      *tgate.WebSocket
	MessageAdapter *adapter.MessageAdapter
	Formatter      *adapter.ResponseFormatter
	Registry       *command.Registry
}

// Bot consumes gateway updates, parses them into commands and executes the
// handlers on a bounded worker pool so one slow search does not stall the
// update stream.
type Bot struct {
	deps        *Dependencies
	pool        *pool.Pool
	unsubscribe func()
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("bot dependencies must not be nil")
	}
	for name, missing := range map[string]bool{
		"config":          deps.Config == nil,
		"logger":          deps.Logger == nil,
		"client":          deps.Client == nil,
		"websocket":       deps.WebSocket == nil,
		"message adapter": deps.MessageAdapter == nil,
		"formatter":       deps.Formatter == nil,
		"registry":        deps.Registry == nil,
	} {
		if missing {
			return nil, fmt.Errorf("bot dependency %s must not be nil", name)
		}
	}

	return &Bot{
		deps: deps,
		pool: pool.New().WithMaxGoroutines(handlerConcurrency),
	}, nil
}

// Start connects to the gateway and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if !b.deps.Client.Ping(ctx) {
		b.deps.Logger.Warn("Gateway health check failed, starting anyway",
			zap.String("base_url", b.deps.Config.Gateway.BaseURL),
		)
	}

	b.unsubscribe = b.deps.WebSocket.OnUpdate(func(update *tgate.Update) {
		b.pool.Go(func() {
			b.handleUpdate(ctx, update)
		})
	})

	if err := b.deps.WebSocket.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect update stream: %w", err)
	}

	b.deps.Logger.Info("Bot started",
		zap.Int("commands", b.deps.Registry.Count()),
		zap.String("prefix", b.deps.Config.Bot.Prefix),
	)

	<-ctx.Done()
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update *tgate.Update) {
	if update == nil || update.Text == "" {
		return
	}

	parsed := b.deps.MessageAdapter.ParseMessage(update.Text)
	if parsed.Key == adapter.CommandUnknown {
		return
	}

	b.deps.Logger.Info("Command received",
		zap.String("command", parsed.Key),
		zap.Int64("chat_id", update.ChatID),
		zap.String("sender", update.Sender),
	)

	cmdCtx := &command.Context{
		ChatID: update.ChatID,
		Sender: update.Sender,
	}

	execCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := b.deps.Registry.Execute(execCtx, cmdCtx, parsed.Key, parsed.Args); err != nil {
		if errors.Is(err, command.ErrUnknownCommand) {
			return
		}
		b.deps.Logger.Error("Command failed",
			zap.String("command", parsed.Key),
			zap.Int64("chat_id", update.ChatID),
			zap.Error(err),
		)
		if sendErr := b.deps.Client.SendMessage(ctx, update.ChatID,
			b.deps.Formatter.FormatError("что-то пошло не так, попробуйте позже")); sendErr != nil {
			b.deps.Logger.Error("Failed to send error reply", zap.Error(sendErr))
		}
	}
}

// Shutdown stops the update stream and drains in-flight handlers.
func (b *Bot) Shutdown(ctx context.Context) error {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}

	err := b.deps.WebSocket.Disconnect()

	done := make(chan struct{})
	go func() {
		b.pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.deps.Logger.Warn("Timeout draining command handlers")
	}

	return err
}
