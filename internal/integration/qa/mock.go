package qa

import (
	"context"
	"fmt"
	"sync"

	"github.com/futig/docqa-client/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers locally without a backend, for demos and tests
type MockConnector struct {
	mu    sync.Mutex
	files []entity.SelectedFile
}

func NewMockConnector() *MockConnector {
	return &MockConnector{}
}

func (m *MockConnector) ClearIndex(ctx context.Context) error {
	ctxzap.Info(ctx, "[MOCK] clearing index")

	m.mu.Lock()
	m.files = nil
	m.mu.Unlock()

	return nil
}

func (m *MockConnector) Upload(ctx context.Context, files []entity.SelectedFile) error {
	ctxzap.Info(ctx, "[MOCK] uploading files", zap.Int("file_count", len(files)))

	m.mu.Lock()
	m.files = append(m.files, files...)
	m.mu.Unlock()

	return nil
}

// Ask cites every uploaded file with a fixed excerpt.
func (m *MockConnector) Ask(ctx context.Context, question string) (*entity.QAResponse, error) {
	ctxzap.Info(ctx, "[MOCK] answering question", zap.String("question", question))

	m.mu.Lock()
	defer m.mu.Unlock()

	sources := make([]entity.Source, 0, len(m.files))
	for _, f := range m.files {
		excerpt := fmt.Sprintf("Mock excerpt from %s (%d bytes).", f.Name, f.Size)
		sources = append(sources, entity.Source{Filename: f.Name, Content: &excerpt})
	}

	return &entity.QAResponse{
		Answer:  fmt.Sprintf("Mock answer to %q based on %d document(s).", question, len(m.files)),
		Sources: sources,
	}, nil
}
