package handlers

import (
	"context"

	"github.com/futig/docqa-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of the Telegram client the handlers use
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// SessionStore hands out per-user chat sessions
type SessionStore interface {
	GetOrCreate(ctx context.Context, userID, chatID int64) (*state.UserSession, error)
	Reset(ctx context.Context, userID, chatID int64) (*state.UserSession, error)
}

// FileDownloader fetches a file a user sent to the bot
type FileDownloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}
