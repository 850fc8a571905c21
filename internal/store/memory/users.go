// Package memory provides the default process-local store backends. All
// state is lost on restart, which is the intended demo behavior.
package memory

import (
	"context"
	"sync"

	"github.com/orionjupiterai/finbrain-api/internal/domain/user"
)

// UsersStore keeps registered users keyed by email.
type UsersStore struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUsersStore() *UsersStore {
	return &UsersStore{items: make(map[string]user.User)}
}

func (s *UsersStore) Create(ctx context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[u.Email]; ok {
		return user.ErrEmailTaken
	}

	s.items[u.Email] = u
	return nil
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.items[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (s *UsersStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items), nil
}
