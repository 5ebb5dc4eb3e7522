package handlers

import (
	"context"

	core "github.com/futig/docqa-client/internal/render"
	"github.com/futig/docqa-client/internal/telegram/keyboard"
	"github.com/futig/docqa-client/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot commands
const (
	CommandStart   = "start"
	CommandHelp    = "help"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandHistory = "history"
	CommandUpload  = "upload"
	CommandExport  = "export"
)

// CommandHandler handles slash commands
type CommandHandler struct {
	BaseHandler
}

func NewCommandHandler(bot BotAPI, sender *MessageSender, sessions SessionStore, kb *keyboard.Builder) *CommandHandler {
	return &CommandHandler{
		BaseHandler: newBaseHandler(HandlerKindCommand, bot, sender, sessions, kb),
	}
}

func (h *CommandHandler) Handle(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "handling command",
		zap.String("command", msg.Command),
		zap.Int64("user_id", msg.UserID),
	)

	switch msg.Command {
	case CommandStart:
		return h.handleStart(ctx, msg)
	case CommandHelp:
		h.sendMessage(ctx, msg.ChatID, render.MsgHelp, nil)
		return nil
	case CommandReset:
		return h.handleReset(ctx, msg)
	case CommandStatus:
		return h.handleStatus(ctx, msg)
	case CommandHistory:
		return h.handleHistory(ctx, msg)
	case CommandUpload:
		return h.handleUpload(ctx, msg)
	case CommandExport:
		return h.handleExport(ctx, msg)
	default:
		h.sendMessage(ctx, msg.ChatID, render.ErrUnknownCommand, nil)
		return nil
	}
}

func (h *CommandHandler) handleStart(ctx context.Context, msg *Message) error {
	// creates the session so the index clear starts before the first upload
	if _, err := h.userSession(ctx, msg); err != nil {
		return err
	}
	h.sendMessage(ctx, msg.ChatID, render.MsgWelcome, nil)
	return nil
}

func (h *CommandHandler) handleReset(ctx context.Context, msg *Message) error {
	sess, err := h.sessions.Reset(ctx, msg.UserID, msg.ChatID)
	if err != nil {
		return err
	}

	ctxzap.Info(ctx, "session reset",
		zap.Int64("user_id", msg.UserID),
		zap.String("session_id", sess.Controller.ID()),
	)
	h.sendMessage(ctx, msg.ChatID, render.MsgNewSession, nil)
	return nil
}

func (h *CommandHandler) handleStatus(ctx context.Context, msg *Message) error {
	sess, err := h.userSession(ctx, msg)
	if err != nil {
		return err
	}
	h.sendMessage(ctx, msg.ChatID, core.RenderStatus(sess.Controller.Status()), nil)
	return nil
}

func (h *CommandHandler) handleHistory(ctx context.Context, msg *Message) error {
	sess, err := h.userSession(ctx, msg)
	if err != nil {
		return err
	}

	messages := core.ChatMessages(sess.Controller.Transcript().Entries(), true)
	if len(messages) == 0 {
		h.sendMessage(ctx, msg.ChatID, render.MsgEmptyHistory, nil)
		return nil
	}
	for _, m := range messages {
		h.sendMessage(ctx, msg.ChatID, m, nil)
	}
	return nil
}

func (h *CommandHandler) handleUpload(ctx context.Context, msg *Message) error {
	sess, err := h.userSession(ctx, msg)
	if err != nil {
		return err
	}
	h.uploadSelection(ctx, msg.ChatID, sess)
	return nil
}

func (h *CommandHandler) handleExport(ctx context.Context, msg *Message) error {
	sess, err := h.userSession(ctx, msg)
	if err != nil {
		return err
	}

	if sess.Controller.Transcript().Len() == 0 {
		h.sendMessage(ctx, msg.ChatID, render.MsgEmptyHistory, nil)
		return nil
	}
	h.sendMessage(ctx, msg.ChatID, render.MsgChooseExport, h.keyboard.ExportKeyboard())
	return nil
}
