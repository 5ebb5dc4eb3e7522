package middleware

import (
	"context"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const msgPanic = "❌ Something went wrong. Please try again or press /reset"

// RecoveryMiddleware recovers from panics
type RecoveryMiddleware struct {
	bot Sender
}

func NewRecoveryMiddleware(bot Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{bot: bot}
}

// Handle recovers from panics
func (m *RecoveryMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	defer func() {
		if r := recover(); r != nil {
			ctxzap.Error(ctx, "panic recovered in telegram handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
				zap.Int("update_id", update.UpdateID),
			)

			_, chatID := UpdateParticipants(update)
			if chatID == 0 {
				return
			}
			if _, err := m.bot.Send(tgbotapi.NewMessage(chatID, msgPanic)); err != nil {
				ctxzap.Error(ctx, "failed to send error message",
					zap.Error(err),
					zap.Int64("chat_id", chatID),
				)
			}
		}
	}()

	next(ctx, update)
}
