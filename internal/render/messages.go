package render

import (
	"fmt"
	"strings"

	"github.com/futig/docqa-client/internal/session"
)

const (
	// Upload
	MsgSelectFiles     = "Please select files to upload!"
	MsgUploading       = "Uploading..."
	MsgUploadSucceeded = "Files uploaded successfully!"
	MsgUploadFailed    = "Failed to upload files: %s. Please try again."
	MsgFileHint        = "PDF files only, up to %s each"

	// Questions
	MsgUploadFirst    = "Please upload a document first before asking questions."
	MsgEnterQuestion  = "Please enter a question."
	MsgFetchingAnswer = "Fetching answer..."
	MsgSourcesHeading = "Sources:"
	MsgNoContent      = "No content available"

	// Errors
	ErrQueryFailed       = "An error occurred while fetching the answer. Please try again."
	ErrUploadInProgress  = "Upload is already in progress. Please wait."
	ErrAnswerPending     = "Please wait for the answer to the previous question."
	ErrUploadSuperseded  = "The file selection changed during upload. Please upload the new selection."
	ErrInvalidFile       = "Cannot use this file: %s"
	ErrTooManyFiles      = "Too many files selected: %s"
	ErrUnsupportedFormat = "Cannot export the transcript: %s"
	ErrTimeout           = "The operation took too long. Please try again."
	ErrNetworkIssue      = "Connection problem. Please try again later."
	ErrGeneric           = "Something went wrong. Please try again."
)

// excerptRunes is how much of a source snippet is shown before the ellipsis.
const excerptRunes = 150

// Excerpt shortens a source snippet for display.
func Excerpt(content *string) string {
	if content == nil || *content == "" {
		return MsgNoContent
	}

	runes := []rune(*content)
	if len(runes) > excerptRunes {
		runes = runes[:excerptRunes]
	}
	return string(runes) + "..."
}

// SourceLines renders sources as a numbered list, one line per source.
func SourceLines(list session.SourceList) []string {
	sources := list.Sources()
	lines := make([]string, 0, len(sources))
	for i, src := range sources {
		lines = append(lines, fmt.Sprintf("%d. %s: %s", i+1, src.Filename, Excerpt(src.Content)))
	}
	return lines
}

// RenderSelection lists the selected file names.
func RenderSelection(names []string) string {
	if len(names) == 0 {
		return MsgSelectFiles
	}

	var sb strings.Builder
	sb.WriteString("Selected files:\n")
	for _, name := range names {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderUploadState is the status line shown for an upload state.
func RenderUploadState(state session.UploadState, uploadErr error) string {
	switch state {
	case session.UploadInProgress:
		return MsgUploading
	case session.UploadSucceeded:
		return MsgUploadSucceeded
	case session.UploadFailed:
		if uploadErr != nil {
			return ClassifyError(uploadErr).Text
		}
		return fmt.Sprintf(MsgUploadFailed, "unknown error")
	default:
		return "Files not uploaded yet."
	}
}

// RenderStatus describes a session for the status command.
func RenderStatus(status session.Status) string {
	var uploadErr error
	if status.UploadErr != nil {
		uploadErr = status.UploadErr
	}

	var sb strings.Builder
	sb.WriteString(RenderSelection(status.Files))
	sb.WriteString("\n")
	sb.WriteString(RenderUploadState(status.UploadState, uploadErr))
	sb.WriteString("\n")
	switch {
	case status.Gate.AwaitingAnswer:
		sb.WriteString(MsgFetchingAnswer)
	case status.Gate.SubmitEnabled:
		sb.WriteString("Ready for questions.")
	default:
		sb.WriteString(MsgUploadFirst)
	}
	sb.WriteString(fmt.Sprintf("\nTranscript entries: %d", status.Entries))
	return sb.String()
}

// FormatSize prints a byte count the way the file hint does.
func FormatSize(bytes int64) string {
	const mib = 1 << 20
	const kib = 1 << 10
	switch {
	case bytes >= mib && bytes%mib == 0:
		return fmt.Sprintf("%dMB", bytes/mib)
	case bytes >= mib:
		return fmt.Sprintf("%.1fMB", float64(bytes)/mib)
	case bytes >= kib:
		return fmt.Sprintf("%dKB", bytes/kib)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

func RenderFileHint(maxSize int64) string {
	return fmt.Sprintf(MsgFileHint, FormatSize(maxSize))
}
