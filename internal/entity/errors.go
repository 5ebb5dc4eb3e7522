package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Upload errors
	ErrNoFilesSelected  = errors.New("no files selected")
	ErrUploadInProgress = errors.New("upload already in progress")
	ErrUploadSuperseded = errors.New("file selection changed during upload")
	ErrUploadFailed     = errors.New("upload failed")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrFileTooLarge     = errors.New("file too large")
	ErrTooManyFiles     = errors.New("too many files")

	// Question errors
	ErrUploadRequired = errors.New("upload required before asking questions")
	ErrEmptyQuestion  = errors.New("question is empty")
	ErrAnswerPending  = errors.New("answer already pending")
	ErrQueryFailed    = errors.New("query failed")
)

const (
	reasonNoResponse = "no response received from server"
	reasonUnknown    = "unknown error"
)

// UploadError is returned when the ingestion endpoint rejects an upload or cannot be reached.
type UploadError struct {
	// Detail is the message the server put into its error payload, if any.
	Detail     string
	StatusCode int
	// NoResponse is set when the request never got an HTTP response.
	NoResponse bool
	Cause      error
}

// Reason picks the most useful human-readable cause: server detail first,
// then the missing-response message, then the raw error text.
func (e *UploadError) Reason() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.NoResponse:
		return reasonNoResponse
	case e.Cause != nil:
		return e.Cause.Error()
	default:
		return reasonUnknown
	}
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUploadFailed, e.Reason())
}

func (e *UploadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUploadFailed}
	}
	return []error{ErrUploadFailed, e.Cause}
}

// QueryError is returned when the QA endpoint call fails.
type QueryError struct {
	Cause error
}

func (e *QueryError) Error() string {
	if e.Cause == nil {
		return ErrQueryFailed.Error()
	}
	return fmt.Sprintf("%s: %v", ErrQueryFailed, e.Cause)
}

func (e *QueryError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrQueryFailed}
	}
	return []error{ErrQueryFailed, e.Cause}
}
