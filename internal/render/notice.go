package render

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/futig/docqa-client/internal/entity"
)

// Severity decides how a notice is logged and shown
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is a user-facing message for an error.
type Notice struct {
	Err        error
	Text       string
	LogMessage string
	Severity   Severity
}

// ClassifyError turns an error returned by the session into a notice.
func ClassifyError(err error) *Notice {
	if err == nil {
		return &Notice{Text: ErrGeneric, LogMessage: "unknown error", Severity: SeverityWarning}
	}

	var uploadErr *entity.UploadError
	if errors.As(err, &uploadErr) {
		return &Notice{
			Err:        err,
			Text:       fmt.Sprintf(MsgUploadFailed, uploadErr.Reason()),
			LogMessage: "upload failed",
			Severity:   SeverityError,
		}
	}

	switch {
	case errors.Is(err, entity.ErrNoFilesSelected):
		return warning(err, MsgSelectFiles, "no files selected")
	case errors.Is(err, entity.ErrUploadInProgress):
		return warning(err, ErrUploadInProgress, "upload in progress")
	case errors.Is(err, entity.ErrUploadSuperseded):
		return warning(err, ErrUploadSuperseded, "upload superseded")
	case errors.Is(err, entity.ErrUploadRequired):
		return warning(err, MsgUploadFirst, "upload required")
	case errors.Is(err, entity.ErrEmptyQuestion):
		return warning(err, MsgEnterQuestion, "empty question")
	case errors.Is(err, entity.ErrAnswerPending):
		return warning(err, ErrAnswerPending, "answer pending")
	case errors.Is(err, entity.ErrTooManyFiles):
		return warning(err, fmt.Sprintf(ErrTooManyFiles, err), "too many files")
	case errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrFileTooLarge):
		return warning(err, fmt.Sprintf(ErrInvalidFile, err), "invalid file")
	case errors.Is(err, entity.ErrUnsupportedFormat):
		return warning(err, fmt.Sprintf(ErrUnsupportedFormat, err), "unsupported export format")
	case errors.Is(err, entity.ErrQueryFailed):
		return &Notice{Err: err, Text: ErrQueryFailed, LogMessage: "query failed", Severity: SeverityError}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Notice{Err: err, Text: ErrTimeout, LogMessage: "operation timed out", Severity: SeverityError}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &Notice{Err: err, Text: ErrTimeout, LogMessage: "network timeout", Severity: SeverityError}
		}
		return &Notice{Err: err, Text: ErrNetworkIssue, LogMessage: "network error", Severity: SeverityError}
	}

	return &Notice{Err: err, Text: ErrGeneric, LogMessage: "unexpected error", Severity: SeverityError}
}

func warning(err error, text, logMessage string) *Notice {
	return &Notice{Err: err, Text: text, LogMessage: logMessage, Severity: SeverityWarning}
}
