package handlers

import (
	"context"
	"fmt"

	pkgRetry "github.com/futig/docqa-client/internal/pkg/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MessageSender delivers messages to Telegram, retrying failed sends
type MessageSender struct {
	bot   BotAPI
	retry *pkgRetry.RetryConfig
}

func NewMessageSender(bot BotAPI, retry *pkgRetry.RetryConfig) *MessageSender {
	if retry == nil {
		retry = pkgRetry.DefaultRetryConfig()
	}
	return &MessageSender{
		bot:   bot,
		retry: retry,
	}
}

// Send sends a text message to the specified chat
func (s *MessageSender) Send(ctx context.Context, chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	return s.send(ctx, chatID, msg, "message")
}

// SendDocument sends a file to the specified chat
func (s *MessageSender) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})

	if err := s.send(ctx, chatID, doc, "document"); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

func (s *MessageSender) send(ctx context.Context, chatID int64, c tgbotapi.Chattable, kind string) error {
	err := s.retry.Do(ctx, func() error {
		_, err := s.bot.Send(c)
		return err
	}, func(attempt uint, err error) {
		ctxzap.Warn(ctx, "failed to send "+kind+", retrying",
			zap.Error(err),
			zap.Uint("attempt", attempt+1),
			zap.Int64("chat_id", chatID),
		)
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send "+kind,
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return err
	}

	return nil
}

// answerCallback acknowledges a button press so the client stops its spinner
func answerCallback(ctx context.Context, bot BotAPI, callbackID, text string) {
	if callbackID == "" {
		return
	}
	if _, err := bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		ctxzap.Warn(ctx, "failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}
