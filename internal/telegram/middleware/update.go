package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the bot API middleware needs to talk back to users
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Next is the rest of the chain
type Next func(ctx context.Context, update tgbotapi.Update)

// Middleware wraps update handling
type Middleware interface {
	Handle(ctx context.Context, update tgbotapi.Update, next Next)
}

// Chain runs the middlewares in order and then the handler.
func Chain(handler Next, middlewares ...Middleware) Next {
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, next := middlewares[i], handler
		handler = func(ctx context.Context, u tgbotapi.Update) {
			mw.Handle(ctx, u, next)
		}
	}
	return handler
}

// UpdateKind names the kind of content in an update
func UpdateKind(update tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message == nil:
		return "other"
	case update.Message.IsCommand():
		return "command"
	case update.Message.Document != nil:
		return "document"
	case update.Message.Text != "":
		return "text"
	default:
		return "other"
	}
}

// UpdateParticipants returns the user and chat of an update, zero when unknown.
func UpdateParticipants(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		if update.Message.Chat != nil {
			chatID = update.Message.Chat.ID
		}
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From != nil {
			userID = update.CallbackQuery.From.ID
		}
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	}
	return userID, chatID
}
