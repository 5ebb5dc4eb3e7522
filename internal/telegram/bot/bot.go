package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futig/docqa-client/internal/config"
	"github.com/futig/docqa-client/internal/telegram/handlers"
	"github.com/futig/docqa-client/internal/telegram/middleware"
	"github.com/futig/docqa-client/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var ErrShutdownTimeout = errors.New("shutdown timeout exceeded")

// API is the Telegram client the bot runs on
type API interface {
	handlers.BotAPI
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot represents the Telegram bot
type Bot struct {
	api         API
	cfg         *config.TelegramConfig
	handlers    map[string]handlers.Handler
	logger      *zap.Logger
	rateLimitMW *middleware.RateLimiterMiddleware
	chain       middleware.Next
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func New(api API, cfg *config.TelegramConfig, logger *zap.Logger) *Bot {
	b := &Bot{
		api:      api,
		cfg:      cfg,
		logger:   logger,
		handlers: make(map[string]handlers.Handler),
		stopChan: make(chan struct{}),
	}

	b.rateLimitMW = middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, api)
	b.chain = middleware.Chain(b.handleUpdate,
		middleware.NewLoggingMiddleware(),
		b.rateLimitMW,
		middleware.NewRecoveryMiddleware(api),
	)

	return b
}

// RegisterHandler registers a handler for an update kind
func (b *Bot) RegisterHandler(handler handlers.Handler) error {
	kind := handler.Kind()
	if !handlers.IsValidKind(kind) {
		return fmt.Errorf("invalid handler kind: %s", kind)
	}

	b.handlers[kind] = handler
	b.logger.Debug("handler registered", zap.String("kind", kind))
	return nil
}

// Start starts receiving updates. Each update is handled on its own goroutine.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)

	// in-flight updates finish on Stop even when ctx is cancelled
	handlerCtx := context.WithoutCancel(ctx)

	go b.processUpdates(ctx, handlerCtx, updates)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
		b.rateLimitMW.Stop()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return ErrShutdownTimeout
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx, handlerCtx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			b.logger.Info("stop signal received, stopping update processing")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.chain(ctxzap.ToContext(handlerCtx, b.logger), u)
			}(update)
		}
	}
}

// handleUpdate routes an update to the handler of its kind
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg, kind := normalize(update)
	if msg == nil {
		return
	}

	if kind == "" {
		b.sendError(ctx, msg.ChatID, render.MsgUnsupported)
		return
	}

	handler, exists := b.handlers[kind]
	if !exists {
		ctxzap.Warn(ctx, "no handler for update kind", zap.String("kind", kind))
		b.sendError(ctx, msg.ChatID, render.ErrGeneric)
		return
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("kind", kind),
		)
		b.sendError(ctx, msg.ChatID, render.ErrGeneric)
	}
}

// normalize converts an update to a handler message. An empty kind means the
// update carries nothing the bot understands.
func normalize(update tgbotapi.Update) (*handlers.Message, string) {
	if q := update.CallbackQuery; q != nil {
		if q.From == nil || q.Message == nil || q.Message.Chat == nil {
			return nil, ""
		}
		return &handlers.Message{
			ChatID:       q.Message.Chat.ID,
			UserID:       q.From.ID,
			MessageID:    q.Message.MessageID,
			CallbackData: q.Data,
			CallbackID:   q.ID,
		}, handlers.HandlerKindCallback
	}

	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return nil, ""
	}

	msg := &handlers.Message{
		ChatID:    m.Chat.ID,
		UserID:    m.From.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
		Document:  m.Document,
	}

	switch {
	case m.IsCommand():
		msg.Command = m.Command()
		msg.CommandArgs = m.CommandArguments()
		return msg, handlers.HandlerKindCommand
	case m.Document != nil:
		return msg, handlers.HandlerKindDocument
	case m.Text != "":
		return msg, handlers.HandlerKindQuestion
	default:
		return msg, ""
	}
}

func (b *Bot) sendError(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		ctxzap.Error(ctx, "failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
