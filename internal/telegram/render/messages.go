package render

import (
	"fmt"
	"strings"

	"github.com/futig/docqa-client/internal/entity"
	core "github.com/futig/docqa-client/internal/render"
)

const (
	// Welcome messages
	MsgWelcome = `👋 Hi! I answer questions about your PDF documents.

1. Send me one or more PDF files
2. Press "Upload"
3. Ask anything about them`

	MsgHelp = `🤖 Commands:

/start - Show the welcome message
/upload - Upload the files you sent
/status - Show selected files and upload state
/history - Show the conversation so far
/export - Download the conversation
/reset - Start a new session
/help - Show this help

Send PDF documents to select them. Files sent after a successful upload start a new selection.
Any other text is a question.`

	MsgSelection       = "📎 %s\n\nPress \"Upload\" when all files are here."
	MsgUploading       = "⏳ " + core.MsgUploading
	MsgUploadSucceeded = "✅ " + core.MsgUploadSucceeded + " Now ask a question."
	MsgNewSession      = "🆕 New session started. Send PDF files to begin."
	MsgEmptyHistory    = "No questions asked yet."
	MsgChooseExport    = "Choose a format:"
	MsgUnsupported     = "I understand PDF documents and text questions only."
	MsgRetryUpload     = "Your files are still selected."
	MsgFileAdded       = "📎 %s added."

	// Errors
	ErrGeneric         = `❌ Something went wrong. Please try again or press /reset`
	ErrUnknownCommand  = `❌ Unknown command. See /help`
	ErrInvalidCallback = `❌ Invalid action`
	ErrDownloadFailed  = `❌ Could not download the file from Telegram. Please send it again.`
)

// RenderSelection formats the selected file names with the file hint.
func RenderSelection(files []entity.SelectedFile, maxSize int64) string {
	return fmt.Sprintf(MsgSelection, core.RenderSelection(entity.FileNames(files))) +
		"\n" + core.RenderFileHint(maxSize)
}

// RenderFileAdded confirms a document joined the selection.
func RenderFileAdded(name string) string {
	return fmt.Sprintf(MsgFileAdded, name)
}

// RenderExportFilename names an exported transcript.
func RenderExportFilename(sessionID, extension string) string {
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("transcript-%s%s", short, extension)
}

// RenderHistory joins transcript messages for the history command.
func RenderHistory(messages []string) string {
	if len(messages) == 0 {
		return MsgEmptyHistory
	}
	return strings.Join(messages, "\n\n")
}
