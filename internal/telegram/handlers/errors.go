package handlers

import (
	"context"

	"github.com/futig/docqa-client/internal/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// HandleError logs the error with its severity and tells the user what happened
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	notice := render.ClassifyError(err)

	switch notice.Severity {
	case render.SeverityError:
		ctxzap.Error(ctx, notice.LogMessage,
			zap.Error(notice.Err),
			zap.Int64("chat_id", chatID),
		)
	default:
		ctxzap.Warn(ctx, notice.LogMessage,
			zap.Error(notice.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	h.sendMessage(ctx, chatID, noticePrefix(notice.Severity)+notice.Text, nil)
}

func noticePrefix(s render.Severity) string {
	switch s {
	case render.SeverityError:
		return "❌ "
	case render.SeverityWarning:
		return "⚠️ "
	default:
		return ""
	}
}
