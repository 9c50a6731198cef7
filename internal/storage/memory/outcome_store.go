package memory

import (
	"context"
	"sync"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// OutcomeStore is an in-memory implementation of storage.OutcomeStore.
type OutcomeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Outcome // keyed by signal_id
}

// NewOutcomeStore creates a new in-memory outcome store.
func NewOutcomeStore() *OutcomeStore {
	return &OutcomeStore{data: make(map[string]*domain.Outcome)}
}

// Upsert writes the outcome, overwriting any previous row for the signal.
func (s *OutcomeStore) Upsert(_ context.Context, o *domain.Outcome) error {
	if o == nil || o.SignalID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[o.SignalID] = copyOutcome(o)
	return nil
}

// GetBySignalID retrieves the outcome for a signal. Returns ErrNotFound if not exists.
func (s *OutcomeStore) GetBySignalID(_ context.Context, signalID string) (*domain.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.data[signalID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyOutcome(o), nil
}

// GetBySignalIDs retrieves outcomes for the given signals, skipping ids
// with no outcome, in the order of the input ids.
func (s *OutcomeStore) GetBySignalIDs(_ context.Context, signalIDs []string) ([]*domain.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Outcome
	for _, id := range signalIDs {
		if o, ok := s.data[id]; ok {
			out = append(out, copyOutcome(o))
		}
	}
	return out, nil
}

// UpdateRiskAdjusted backfills the aggregator-computed ratio.
func (s *OutcomeStore) UpdateRiskAdjusted(_ context.Context, signalID string, ratio *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.data[signalID]
	if !ok {
		return storage.ErrNotFound
	}
	if ratio != nil {
		o.RiskAdjusted = ptr(*ratio)
	} else {
		o.RiskAdjusted = nil
	}
	return nil
}

func (s *OutcomeStore) deleteBySignalIDs(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.data, id)
	}
}

func copyOutcome(o *domain.Outcome) *domain.Outcome {
	cp := *o
	copyF := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		return ptr(*v)
	}
	cp.RealizedReturn = copyF(o.RealizedReturn)
	cp.BenchmarkReturn = copyF(o.BenchmarkReturn)
	cp.ExcessReturn = copyF(o.ExcessReturn)
	cp.RiskAdjusted = copyF(o.RiskAdjusted)
	cp.Brier = copyF(o.Brier)
	cp.PnLPerContract = copyF(o.PnLPerContract)
	cp.CLVPoints = copyF(o.CLVPoints)
	if o.Won != nil {
		cp.Won = ptr(*o.Won)
	}
	return &cp
}
