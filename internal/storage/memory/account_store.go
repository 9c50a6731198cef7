// Package memory holds in-memory store implementations used by tests and
// fixture runs. All stores copy on write and on read so callers never
// share memory with the store.
package memory

import (
	"context"
	"sort"
	"sync"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Account // keyed by account_id

	// cascade targets, set by Stores wiring
	posts    *PostStore
	signals  *SignalStore
	outcomes *OutcomeStore
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{data: make(map[string]*domain.Account)}
}

// Upsert inserts the account or leaves an existing row unchanged.
func (s *AccountStore) Upsert(_ context.Context, a *domain.Account) error {
	if a == nil || a.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.AccountID]; exists {
		return nil
	}
	cp := *a
	s.data[a.AccountID] = &cp
	return nil
}

// GetByID retrieves an account by ID. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data[accountID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// GetAll retrieves all accounts ordered by account_id.
func (s *AccountStore) GetAll(_ context.Context) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Account, 0, len(s.data))
	for _, a := range s.data {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

// Delete removes an account and cascades to its posts, signals and
// outcomes, mirroring the foreign keys of the postgres schema.
func (s *AccountStore) Delete(ctx context.Context, accountID string) error {
	s.mu.Lock()
	if _, ok := s.data[accountID]; !ok {
		s.mu.Unlock()
		return storage.ErrNotFound
	}
	delete(s.data, accountID)
	s.mu.Unlock()

	if s.signals != nil {
		ids := s.signals.deleteByAccountID(accountID)
		if s.outcomes != nil {
			s.outcomes.deleteBySignalIDs(ids)
		}
	}
	if s.posts != nil {
		s.posts.deleteByAccountID(accountID)
	}
	return nil
}
