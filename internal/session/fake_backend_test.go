package session

import (
	"context"
	"sync"

	"github.com/futig/docqa-client/internal/entity"
)

type fakeBackend struct {
	mu sync.Mutex

	clearCalls  int
	uploadCalls [][]entity.SelectedFile
	askCalls    []string

	clearErr error
	uploadFn func(ctx context.Context, files []entity.SelectedFile) error
	askFn    func(ctx context.Context, question string) (*entity.QAResponse, error)
}

func (f *fakeBackend) ClearIndex(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	return f.clearErr
}

func (f *fakeBackend) Upload(ctx context.Context, files []entity.SelectedFile) error {
	f.mu.Lock()
	f.uploadCalls = append(f.uploadCalls, files)
	fn := f.uploadFn
	f.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(ctx, files)
}

func (f *fakeBackend) Ask(ctx context.Context, question string) (*entity.QAResponse, error) {
	f.mu.Lock()
	f.askCalls = append(f.askCalls, question)
	fn := f.askFn
	f.mu.Unlock()

	if fn == nil {
		return &entity.QAResponse{Answer: "answer", Sources: []entity.Source{}}, nil
	}
	return fn(ctx, question)
}

func (f *fakeBackend) counts() (clears, uploads, asks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clearCalls, len(f.uploadCalls), len(f.askCalls)
}

func pdf(name string) entity.SelectedFile {
	return entity.NewSelectedFile(name, []byte("%PDF-1.4 "+name))
}

func strPtr(s string) *string {
	return &s
}
