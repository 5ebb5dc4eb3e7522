package keyboard

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback actions and values
const (
	ActionAction = "action"
	ActionExport = "dl"

	ValueUpload = "upload"
	ValueStatus = "status"
	ValueExport = "export"
)

// Builder creates inline keyboards
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// UploadKeyboard is shown under the file list of a selection
func (b *Builder) UploadKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬆️ Upload", EncodeCallback(ActionAction, ValueUpload)),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Status", EncodeCallback(ActionAction, ValueStatus)),
		),
	)
}

// RetryUploadKeyboard is shown after a failed upload; the selection is kept.
func (b *Builder) RetryUploadKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Try again", EncodeCallback(ActionAction, ValueUpload)),
		),
	)
}

// ExportKeyboard offers the transcript in each export format
func (b *Builder) ExportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 .md", EncodeCallback(ActionExport, "md")),
			tgbotapi.NewInlineKeyboardButtonData("📕 .pdf", EncodeCallback(ActionExport, "pdf")),
			tgbotapi.NewInlineKeyboardButtonData("📘 .docx", EncodeCallback(ActionExport, "docx")),
		),
	)
}
