package state

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/futig/docqa-client/internal/session"
	"github.com/patrickmn/go-cache"
)

var ErrSessionNotFound = errors.New("telegram session not found")

// UserSession binds a Telegram user to a chat session
type UserSession struct {
	UserID     int64
	ChatID     int64
	Controller *session.Controller
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// serializes read-modify-write of the file selection
	selectionMu sync.Mutex
}

// LockSelection must be held while building a new selection from the current one.
func (s *UserSession) LockSelection() func() {
	s.selectionMu.Lock()
	return s.selectionMu.Unlock
}

// Storage keeps user sessions
type Storage interface {
	Get(ctx context.Context, userID int64) (*UserSession, error)
	Set(ctx context.Context, session *UserSession) error
	Delete(ctx context.Context, userID int64) error
	Count() int
}

// MemoryStorage keeps sessions in process memory. A session expires after ttl
// without activity; every Set restarts its clock.
type MemoryStorage struct {
	cache *cache.Cache
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &MemoryStorage{
		cache: cache.New(ttl, cleanup),
	}
}

func (s *MemoryStorage) Get(_ context.Context, userID int64) (*UserSession, error) {
	if x, found := s.cache.Get(key(userID)); found {
		return x.(*UserSession), nil
	}
	return nil, ErrSessionNotFound
}

func (s *MemoryStorage) Set(_ context.Context, session *UserSession) error {
	s.cache.Set(key(session.UserID), session, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID int64) error {
	s.cache.Delete(key(userID))
	return nil
}

func (s *MemoryStorage) Count() int {
	return s.cache.ItemCount()
}

func key(userID int64) string {
	return "tg:" + strconv.FormatInt(userID, 10)
}
