package handlers

import (
	"context"

	core "github.com/futig/docqa-client/internal/render"
	"github.com/futig/docqa-client/internal/telegram/keyboard"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QuestionHandler sends text messages to the QA backend
type QuestionHandler struct {
	BaseHandler
}

func NewQuestionHandler(bot BotAPI, sender *MessageSender, sessions SessionStore, kb *keyboard.Builder) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: newBaseHandler(HandlerKindQuestion, bot, sender, sessions, kb),
	}
}

func (h *QuestionHandler) Handle(ctx context.Context, msg *Message) error {
	sess, err := h.userSession(ctx, msg)
	if err != nil {
		return err
	}

	controller := sess.Controller

	notifier := NewActionNotifier(h.bot, msg.ChatID, tgbotapi.ChatTyping)
	notifier.Start(ctx)
	entries, err := controller.SubmitText(ctx, msg.Text)
	notifier.Stop()

	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	ctxzap.Debug(ctx, "question answered",
		zap.String("session_id", controller.ID()),
		zap.Int("entries", len(entries)),
	)

	for _, m := range core.ChatMessages(entries, false) {
		h.sendMessage(ctx, msg.ChatID, m, nil)
	}
	return nil
}
