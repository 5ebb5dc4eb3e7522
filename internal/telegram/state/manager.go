package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futig/docqa-client/internal/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ControllerFactory creates the chat session for a new user session
type ControllerFactory func() *session.Controller

// Manager manages telegram sessions
type Manager struct {
	storage       Storage
	newController ControllerFactory

	// guards get-or-create so concurrent updates of a new user share one session
	mu sync.Mutex
}

func NewManager(storage Storage, newController ControllerFactory) *Manager {
	return &Manager{
		storage:       storage,
		newController: newController,
	}
}

// GetOrCreate returns the user's session, starting a new one if there is none.
// Every call counts as activity and extends the session lifetime.
func (m *Manager) GetOrCreate(ctx context.Context, userID, chatID int64) (*UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.storage.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return m.create(ctx, userID, chatID)
	case err != nil:
		return nil, fmt.Errorf("get telegram session from storage: %w", err)
	}

	s.UpdatedAt = time.Now()
	if err := m.storage.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("save telegram session to storage: %w", err)
	}
	return s, nil
}

// Reset replaces the user's session with a fresh one.
func (m *Manager) Reset(ctx context.Context, userID, chatID int64) (*UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.storage.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete telegram session from storage: %w", err)
	}
	return m.create(ctx, userID, chatID)
}

func (m *Manager) Count() int {
	return m.storage.Count()
}

func (m *Manager) create(ctx context.Context, userID, chatID int64) (*UserSession, error) {
	now := time.Now()
	s := &UserSession{
		UserID:     userID,
		ChatID:     chatID,
		Controller: m.newController(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := m.storage.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("save telegram session to storage: %w", err)
	}

	s.Controller.Initialize(ctx)

	ctxzap.Info(ctx, "telegram session created",
		zap.Int64("user_id", userID),
		zap.String("session_id", s.Controller.ID()),
		zap.Int("active_sessions", m.storage.Count()),
	)
	return s, nil
}
