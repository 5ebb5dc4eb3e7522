package session

import (
	"context"

	"github.com/futig/docqa-client/internal/entity"
)

// Backend is the remote question-answering service.
type Backend interface {
	// ClearIndex drops server-side indexed state.
	ClearIndex(ctx context.Context) error
	// Upload ingests all files in a single request.
	Upload(ctx context.Context, files []entity.SelectedFile) error
	// Ask returns the answer to a question with the sources it cites.
	Ask(ctx context.Context, question string) (*entity.QAResponse, error)
}
