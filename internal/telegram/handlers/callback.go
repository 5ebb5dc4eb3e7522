package handlers

import (
	"context"
	"fmt"

	"github.com/futig/docqa-client/internal/entity"
	"github.com/futig/docqa-client/internal/pkg/formatter"
	core "github.com/futig/docqa-client/internal/render"
	"github.com/futig/docqa-client/internal/telegram/keyboard"
	"github.com/futig/docqa-client/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackHandler handles all callback button clicks
type CallbackHandler struct {
	BaseHandler
	formatters *formatter.Factory
}

func NewCallbackHandler(
	bot BotAPI,
	sender *MessageSender,
	sessions SessionStore,
	kb *keyboard.Builder,
	formatters *formatter.Factory,
) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: newBaseHandler(HandlerKindCallback, bot, sender, sessions, kb),
		formatters:  formatters,
	}
}

// Handle routes callback queries to appropriate actions
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	answerCallback(ctx, h.bot, msg.CallbackID, "")

	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		h.sendMessage(ctx, msg.ChatID, render.ErrInvalidCallback, nil)
		return fmt.Errorf("parse callback: %w", err)
	}

	ctxzap.Info(ctx, "handling callback",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
		zap.Int64("user_id", msg.UserID),
	)

	switch data.Action {
	case keyboard.ActionAction:
		return h.handleAction(ctx, msg, data.Value)
	case keyboard.ActionExport:
		return h.handleExport(ctx, msg, data.Value)
	default:
		h.sendMessage(ctx, msg.ChatID, render.ErrInvalidCallback, nil)
		return nil
	}
}

func (h *CallbackHandler) handleAction(ctx context.Context, msg *Message, action string) error {
	sess, err := h.userSession(ctx, msg)
	if err != nil {
		return err
	}

	switch action {
	case keyboard.ValueUpload:
		h.uploadSelection(ctx, msg.ChatID, sess)
	case keyboard.ValueStatus:
		h.sendMessage(ctx, msg.ChatID, core.RenderStatus(sess.Controller.Status()), nil)
	case keyboard.ValueExport:
		h.sendMessage(ctx, msg.ChatID, render.MsgChooseExport, h.keyboard.ExportKeyboard())
	default:
		h.sendMessage(ctx, msg.ChatID, render.ErrInvalidCallback, nil)
	}
	return nil
}

func (h *CallbackHandler) handleExport(ctx context.Context, msg *Message, value string) error {
	format, err := entity.ParseExportFormat(value)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	sess, err := h.userSession(ctx, msg)
	if err != nil {
		return err
	}

	entries := sess.Controller.Transcript().Entries()
	if len(entries) == 0 {
		h.sendMessage(ctx, msg.ChatID, render.MsgEmptyHistory, nil)
		return nil
	}

	export, err := core.ExportTranscript(h.formatters, format, entries)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	filename := render.RenderExportFilename(sess.Controller.ID(), export.Extension)
	if err := h.messageSender.SendDocument(ctx, msg.ChatID, filename, export.Data); err != nil {
		h.sendMessage(ctx, msg.ChatID, render.ErrGeneric, nil)
		return nil
	}

	ctxzap.Info(ctx, "transcript exported",
		zap.String("format", string(format)),
		zap.Int("entries", len(entries)),
	)
	return nil
}
