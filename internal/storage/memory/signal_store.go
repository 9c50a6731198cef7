package memory

import (
	"context"
	"sort"
	"sync"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// SignalStore is an in-memory implementation of storage.SignalStore.
type SignalStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Signal // keyed by signal_id
}

// NewSignalStore creates a new in-memory signal store.
func NewSignalStore() *SignalStore {
	return &SignalStore{data: make(map[string]*domain.Signal)}
}

// Upsert inserts the signal or leaves an existing row unchanged.
func (s *SignalStore) Upsert(_ context.Context, sig *domain.Signal) error {
	if sig == nil || sig.SignalID == "" || sig.PostID == "" || sig.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sig.SignalID]; exists {
		return nil
	}
	cp := copySignal(sig)
	s.data[sig.SignalID] = cp
	return nil
}

// GetByID retrieves a signal by ID. Returns ErrNotFound if not exists.
func (s *SignalStore) GetByID(_ context.Context, signalID string) (*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, ok := s.data[signalID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copySignal(sig), nil
}

// GetByStatus retrieves signals in a lifecycle state, ordered by
// posted_at ASC.
func (s *SignalStore) GetByStatus(_ context.Context, status domain.SignalStatus) ([]*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Signal
	for _, sig := range s.data {
		if sig.Status == status {
			out = append(out, copySignal(sig))
		}
	}
	sortSignals(out)
	return out, nil
}

// GetByAccountID retrieves all signals for an account ordered by posted_at ASC.
func (s *SignalStore) GetByAccountID(_ context.Context, accountID string) ([]*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Signal
	for _, sig := range s.data {
		if sig.AccountID == accountID {
			out = append(out, copySignal(sig))
		}
	}
	sortSignals(out)
	return out, nil
}

// GetSettledInRange retrieves settled signals with posted_at in [start, end).
func (s *SignalStore) GetSettledInRange(_ context.Context, start, end int64) ([]*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Signal
	for _, sig := range s.data {
		if sig.Status != domain.SignalStatusSettled {
			continue
		}
		if sig.PostedAt < start || sig.PostedAt >= end {
			continue
		}
		out = append(out, copySignal(sig))
	}
	sortSignals(out)
	return out, nil
}

// UpdateStatus moves a signal to a new lifecycle state.
func (s *SignalStore) UpdateStatus(_ context.Context, signalID string, status domain.SignalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sig, ok := s.data[signalID]
	if !ok {
		return storage.ErrNotFound
	}
	sig.Status = status
	return nil
}

// postIDs returns the set of post ids with at least one signal.
func (s *SignalStore) postIDs() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.data))
	for _, sig := range s.data {
		out[sig.PostID] = true
	}
	return out
}

func (s *SignalStore) deleteByAccountID(accountID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, sig := range s.data {
		if sig.AccountID == accountID {
			ids = append(ids, id)
			delete(s.data, id)
		}
	}
	return ids
}

// copySignal deep-copies a signal including its payload pointer.
func copySignal(sig *domain.Signal) *domain.Signal {
	cp := *sig
	if sig.Size != nil {
		cp.Size = ptr(*sig.Size)
	}
	if sig.HorizonMs != nil {
		cp.HorizonMs = ptr(*sig.HorizonMs)
	}
	if sig.Equity != nil {
		p := *sig.Equity
		p.Targets = append([]float64(nil), sig.Equity.Targets...)
		cp.Equity = &p
	}
	if sig.Crypto != nil {
		p := *sig.Crypto
		p.Targets = append([]float64(nil), sig.Crypto.Targets...)
		cp.Crypto = &p
	}
	if sig.Prediction != nil {
		p := *sig.Prediction
		cp.Prediction = &p
	}
	if sig.Sports != nil {
		p := *sig.Sports
		cp.Sports = &p
	}
	return &cp
}

func sortSignals(signals []*domain.Signal) {
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].PostedAt != signals[j].PostedAt {
			return signals[i].PostedAt < signals[j].PostedAt
		}
		return signals[i].SignalID < signals[j].SignalID
	})
}

func ptr[T any](v T) *T { return &v }
