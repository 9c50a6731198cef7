package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// PricePointStore is an in-memory implementation of storage.PricePointStore.
type PricePointStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PricePoint // keyed by instrument|timestamp
}

// NewPricePointStore creates a new in-memory price point store.
func NewPricePointStore() *PricePointStore {
	return &PricePointStore{data: make(map[string]*domain.PricePoint)}
}

// InsertBulk adds points; re-inserting an existing point is a no-op.
func (s *PricePointStore) InsertBulk(_ context.Context, points []*domain.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if p == nil || p.Instrument == "" {
			return storage.ErrInvalidInput
		}
		key := fmt.Sprintf("%s|%d", p.Instrument, p.TimestampMs)
		if _, exists := s.data[key]; exists {
			continue
		}
		cp := *p
		s.data[key] = &cp
	}
	return nil
}

// GetByInstrument retrieves all points for an instrument ordered by timestamp ASC.
func (s *PricePointStore) GetByInstrument(_ context.Context, instrument string) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.PricePoint
	for _, p := range s.data {
		if p.Instrument == instrument {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimestampMs < out[j].TimestampMs })
	return out, nil
}

// GetByTimeRange retrieves points within [start, end] (inclusive).
func (s *PricePointStore) GetByTimeRange(ctx context.Context, instrument string, start, end int64) ([]*domain.PricePoint, error) {
	all, err := s.GetByInstrument(ctx, instrument)
	if err != nil {
		return nil, err
	}
	var out []*domain.PricePoint
	for _, p := range all {
		if p.TimestampMs >= start && p.TimestampMs <= end {
			out = append(out, p)
		}
	}
	return out, nil
}

// PredictionQuoteStore is an in-memory implementation of storage.PredictionQuoteStore.
type PredictionQuoteStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PredictionQuote // keyed by market_ref|timestamp
}

// NewPredictionQuoteStore creates a new in-memory quote store.
func NewPredictionQuoteStore() *PredictionQuoteStore {
	return &PredictionQuoteStore{data: make(map[string]*domain.PredictionQuote)}
}

func (s *PredictionQuoteStore) InsertBulk(_ context.Context, quotes []*domain.PredictionQuote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range quotes {
		if q == nil || q.MarketRef == "" {
			return storage.ErrInvalidInput
		}
		key := fmt.Sprintf("%s|%d", q.MarketRef, q.TimestampMs)
		if _, exists := s.data[key]; exists {
			continue
		}
		cp := *q
		s.data[key] = &cp
	}
	return nil
}

// GetByMarketRef retrieves all quotes for a market ordered by timestamp ASC.
func (s *PredictionQuoteStore) GetByMarketRef(_ context.Context, marketRef string) ([]*domain.PredictionQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.PredictionQuote
	for _, q := range s.data {
		if q.MarketRef == marketRef {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimestampMs < out[j].TimestampMs })
	return out, nil
}

// PredictionResolutionStore is an in-memory implementation of
// storage.PredictionResolutionStore.
type PredictionResolutionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PredictionResolution // keyed by market_ref
}

// NewPredictionResolutionStore creates a new in-memory resolution store.
func NewPredictionResolutionStore() *PredictionResolutionStore {
	return &PredictionResolutionStore{data: make(map[string]*domain.PredictionResolution)}
}

// Upsert records a market's terminal outcome.
func (s *PredictionResolutionStore) Upsert(_ context.Context, r *domain.PredictionResolution) error {
	if r == nil || r.MarketRef == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	s.data[r.MarketRef] = &cp
	return nil
}

// GetByMarketRef retrieves the resolution. Returns ErrNotFound while
// unresolved.
func (s *PredictionResolutionStore) GetByMarketRef(_ context.Context, marketRef string) (*domain.PredictionResolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[marketRef]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *r
	return &cp, nil
}
