package handlers

import (
	"context"

	"github.com/futig/docqa-client/internal/telegram/keyboard"
	"github.com/futig/docqa-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Handler kinds, one per update type the bot routes
const (
	HandlerKindCommand  = "COMMAND"
	HandlerKindDocument = "DOCUMENT"
	HandlerKindQuestion = "QUESTION"
	HandlerKindCallback = "CALLBACK"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	CommandArgs  string
	Document     *tgbotapi.Document
	CallbackData string
	CallbackID   string
}

// Handler processes one kind of update
type Handler interface {
	Handle(ctx context.Context, msg *Message) error

	// Kind returns the update kind this handler serves
	Kind() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	kind          string
	bot           BotAPI
	messageSender *MessageSender
	sessions      SessionStore
	keyboard      *keyboard.Builder
}

func newBaseHandler(kind string, bot BotAPI, sender *MessageSender, sessions SessionStore, kb *keyboard.Builder) BaseHandler {
	return BaseHandler{
		kind:          kind,
		bot:           bot,
		messageSender: sender,
		sessions:      sessions,
		keyboard:      kb,
	}
}

// Kind implements Handler
func (h *BaseHandler) Kind() string {
	return h.kind
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(ctx context.Context, chatID int64, text string, markup any) {
	if h.messageSender != nil {
		_ = h.messageSender.Send(ctx, chatID, text, markup)
	}
}

func (h *BaseHandler) userSession(ctx context.Context, msg *Message) (*state.UserSession, error) {
	return h.sessions.GetOrCreate(ctx, msg.UserID, msg.ChatID)
}

var validKinds = map[string]bool{
	HandlerKindCommand:  true,
	HandlerKindDocument: true,
	HandlerKindQuestion: true,
	HandlerKindCallback: true,
}

// IsValidKind checks if a kind is valid for handler registration
func IsValidKind(kind string) bool {
	return validKinds[kind]
}
