package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Telegram chat actions expire after 5 seconds
const chatActionInterval = 4 * time.Second

// ActionNotifier keeps a chat action ("typing", "upload_document") visible
// while a backend call is running
type ActionNotifier struct {
	bot    BotAPI
	chatID int64
	action string
	done   chan struct{}
	once   sync.Once
}

func NewActionNotifier(bot BotAPI, chatID int64, action string) *ActionNotifier {
	return &ActionNotifier{
		bot:    bot,
		chatID: chatID,
		action: action,
		done:   make(chan struct{}),
	}
}

// Start sends the action now and then every few seconds until Stop.
func (n *ActionNotifier) Start(ctx context.Context) {
	n.send(ctx)

	go func() {
		ticker := time.NewTicker(chatActionInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				n.send(ctx)
			case <-n.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (n *ActionNotifier) Stop() {
	n.once.Do(func() { close(n.done) })
}

func (n *ActionNotifier) send(ctx context.Context) {
	if _, err := n.bot.Request(tgbotapi.NewChatAction(n.chatID, n.action)); err != nil {
		ctxzap.Debug(ctx, "failed to send chat action",
			zap.Error(err),
			zap.String("action", n.action),
			zap.Int64("chat_id", n.chatID),
		)
	}
}
