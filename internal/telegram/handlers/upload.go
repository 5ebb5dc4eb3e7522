package handlers

import (
	"context"
	"errors"

	"github.com/futig/docqa-client/internal/entity"
	"github.com/futig/docqa-client/internal/session"
	"github.com/futig/docqa-client/internal/telegram/render"
	"github.com/futig/docqa-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// uploadSelection uploads the user's current selection and reports the outcome.
// Used by both the /upload command and the Upload button.
func (h *BaseHandler) uploadSelection(ctx context.Context, chatID int64, sess *state.UserSession) {
	controller := sess.Controller
	if len(controller.SelectedFiles()) == 0 {
		h.HandleError(ctx, chatID, entity.ErrNoFilesSelected)
		return
	}
	if controller.UploadState() == session.UploadInProgress {
		h.HandleError(ctx, chatID, entity.ErrUploadInProgress)
		return
	}

	h.sendMessage(ctx, chatID, render.MsgUploading, nil)

	notifier := NewActionNotifier(h.bot, chatID, tgbotapi.ChatUploadDocument)
	notifier.Start(ctx)
	err := controller.Upload(ctx)
	notifier.Stop()

	var uploadErr *entity.UploadError
	switch {
	case err == nil:
		ctxzap.Info(ctx, "files uploaded",
			zap.String("session_id", controller.ID()),
			zap.Strings("files", entity.FileNames(controller.SelectedFiles())),
		)
		h.sendMessage(ctx, chatID, render.MsgUploadSucceeded, nil)
	case errors.As(err, &uploadErr):
		// the selection is kept, so the same files can be sent again
		h.HandleError(ctx, chatID, err)
		h.sendMessage(ctx, chatID, render.MsgRetryUpload, h.keyboard.RetryUploadKeyboard())
	default:
		h.HandleError(ctx, chatID, err)
	}
}
