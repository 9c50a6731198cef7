package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// LeaderboardStore is an in-memory implementation of storage.LeaderboardStore.
type LeaderboardStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LeaderboardEntry // keyed by natural key
}

// NewLeaderboardStore creates a new in-memory leaderboard store.
func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{data: make(map[string]*domain.LeaderboardEntry)}
}

func entryKey(accountID string, windowDays int, startDate, endDate string) string {
	return fmt.Sprintf("%s|%d|%s|%s", accountID, windowDays, startDate, endDate)
}

// Upsert writes a window snapshot, replacing any previous row for the
// same natural key.
func (s *LeaderboardStore) Upsert(_ context.Context, e *domain.LeaderboardEntry) error {
	if e == nil || e.AccountID == "" || e.WindowDays <= 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[entryKey(e.AccountID, e.WindowDays, e.StartDate, e.EndDate)] = copyEntry(e)
	return nil
}

// GetWindow retrieves all entries for a window ordered by alpha_score
// DESC, null scores last, ties broken by account_id.
func (s *LeaderboardStore) GetWindow(_ context.Context, windowDays int, startDate, endDate string) ([]*domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.LeaderboardEntry
	for _, e := range s.data {
		if e.WindowDays == windowDays && e.StartDate == startDate && e.EndDate == endDate {
			out = append(out, copyEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].AlphaScore, out[j].AlphaScore
		switch {
		case si != nil && sj != nil && *si != *sj:
			return *si > *sj
		case si != nil && sj == nil:
			return true
		case si == nil && sj != nil:
			return false
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}

// GetByAccountID retrieves all snapshots for an account.
func (s *LeaderboardStore) GetByAccountID(_ context.Context, accountID string) ([]*domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.LeaderboardEntry
	for _, e := range s.data {
		if e.AccountID == accountID {
			out = append(out, copyEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].WindowDays < out[j].WindowDays
	})
	return out, nil
}

func copyEntry(e *domain.LeaderboardEntry) *domain.LeaderboardEntry {
	cp := *e
	copyF := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		return ptr(*v)
	}
	cp.WinRate = copyF(e.WinRate)
	cp.MeanExcessReturn = copyF(e.MeanExcessReturn)
	cp.RiskAdjusted = copyF(e.RiskAdjusted)
	cp.MeanBrier = copyF(e.MeanBrier)
	cp.MeanCLVPoints = copyF(e.MeanCLVPoints)
	cp.MeanPredictionPnL = copyF(e.MeanPredictionPnL)
	cp.AlphaScore = copyF(e.AlphaScore)
	return &cp
}
