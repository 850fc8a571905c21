package memory

import (
	"context"
	"sync"

	"github.com/orionjupiterai/finbrain-api/internal/domain/session"
)

// SessionsStore keeps issued sessions keyed by token. Sessions never expire;
// they live until the process does.
type SessionsStore struct {
	mu    sync.RWMutex
	items map[string]session.Session
}

func NewSessionsStore() *SessionsStore {
	return &SessionsStore{items: make(map[string]session.Session)}
}

func (s *SessionsStore) Create(ctx context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[sess.Token] = sess
	return nil
}

func (s *SessionsStore) GetByToken(ctx context.Context, token string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.items[token]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *SessionsStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items), nil
}
