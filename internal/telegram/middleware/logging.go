package middleware

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// LoggingMiddleware logs all incoming updates and scopes the context logger to the update
type LoggingMiddleware struct{}

func NewLoggingMiddleware() *LoggingMiddleware {
	return &LoggingMiddleware{}
}

// Handle logs the update
func (m *LoggingMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	start := time.Now()
	userID, chatID := UpdateParticipants(update)

	ctxzap.AddFields(ctx,
		zap.Int("update_id", update.UpdateID),
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
	)

	ctxzap.Info(ctx, "telegram update received",
		zap.String("type", UpdateKind(update)),
	)

	next(ctx, update)

	ctxzap.Info(ctx, "telegram update processed",
		zap.Duration("duration", time.Since(start)),
	)
}
