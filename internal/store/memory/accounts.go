package memory

import (
	"context"
	"sync"

	"github.com/orionjupiterai/finbrain-api/internal/domain/account"
)

// AccountsStore keeps accounts keyed by id. A separate id slice records
// creation order so listings stay stable across updates.
type AccountsStore struct {
	mu    sync.RWMutex
	items map[string]account.Account
	order []string
}

func NewAccountsStore() *AccountsStore {
	return &AccountsStore{items: make(map[string]account.Account)}
}

func (s *AccountsStore) Create(ctx context.Context, a account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[a.ID]; !ok {
		s.order = append(s.order, a.ID)
	}
	s.items[a.ID] = a
	return nil
}

func (s *AccountsStore) GetByID(ctx context.Context, id string) (account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.items[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (s *AccountsStore) ListByOwner(ctx context.Context, ownerEmail string) ([]account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]account.Account, 0)
	for _, id := range s.order {
		if a := s.items[id]; a.UserEmail == ownerEmail {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *AccountsStore) Update(ctx context.Context, a account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[a.ID]; !ok {
		return account.ErrNotFound
	}

	s.items[a.ID] = a
	return nil
}

func (s *AccountsStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return account.ErrNotFound
	}

	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *AccountsStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items), nil
}
