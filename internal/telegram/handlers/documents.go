package handlers

import (
	"context"
	"fmt"

	"github.com/futig/docqa-client/internal/entity"
	"github.com/futig/docqa-client/internal/pkg/validator"
	"github.com/futig/docqa-client/internal/session"
	"github.com/futig/docqa-client/internal/telegram/keyboard"
	"github.com/futig/docqa-client/internal/telegram/render"
	"github.com/futig/docqa-client/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentHandler turns documents sent by the user into the file selection
type DocumentHandler struct {
	BaseHandler
	downloader FileDownloader
	validator  *validator.Validator
	maxSize    int64
}

func NewDocumentHandler(
	bot BotAPI,
	sender *MessageSender,
	sessions SessionStore,
	kb *keyboard.Builder,
	downloader FileDownloader,
	v *validator.Validator,
	maxSize int64,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: newBaseHandler(HandlerKindDocument, bot, sender, sessions, kb),
		downloader:  downloader,
		validator:   v,
		maxSize:     maxSize,
	}
}

func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	doc := msg.Document
	if doc == nil {
		return fmt.Errorf("%w: message has no document", entity.ErrInvalidFile)
	}

	name := validator.SanitizeFilename(doc.FileName)
	if err := h.validator.ValidateMeta(name, int64(doc.FileSize)); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	sess, err := h.userSession(ctx, msg)
	if err != nil {
		return err
	}

	data, err := h.downloader.Download(ctx, doc.FileID)
	if err != nil {
		ctxzap.Error(ctx, "failed to download document",
			zap.Error(err),
			zap.String("file_id", doc.FileID),
		)
		h.sendMessage(ctx, msg.ChatID, render.ErrDownloadFailed, nil)
		return nil
	}

	file := entity.NewSelectedFile(name, data)
	if err := h.validator.ValidateFile(file); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	files, err := h.addToSelection(ctx, sess, file)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	ctxzap.Info(ctx, "document selected",
		zap.String("file", name),
		zap.Int("selected", len(files)),
	)
	text := render.RenderFileAdded(name) + "\n\n" + render.RenderSelection(files, h.maxSize)
	h.sendMessage(ctx, msg.ChatID, text, h.keyboard.UploadKeyboard())
	return nil
}

// addToSelection extends a selection that has not been uploaded yet. Once the
// files are uploaded (or uploading), a new document starts a new selection.
// A document with the name of an already selected one replaces it.
func (h *DocumentHandler) addToSelection(ctx context.Context, sess *state.UserSession, file entity.SelectedFile) ([]entity.SelectedFile, error) {
	unlock := sess.LockSelection()
	defer unlock()

	controller := sess.Controller

	var files []entity.SelectedFile
	switch controller.UploadState() {
	case session.UploadNotStarted, session.UploadFailed:
		for _, f := range controller.SelectedFiles() {
			if f.Name != file.Name {
				files = append(files, f)
			}
		}
	}
	files = append(files, file)

	if err := h.validator.ValidateSelection(files); err != nil {
		return nil, err
	}

	controller.SelectFiles(ctx, files)
	return files, nil
}
