package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// SportsEventStore is an in-memory implementation of storage.SportsEventStore.
type SportsEventStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SportsEvent // keyed by event_id
}

// NewSportsEventStore creates a new in-memory sports event store.
func NewSportsEventStore() *SportsEventStore {
	return &SportsEventStore{data: make(map[string]*domain.SportsEvent)}
}

// Upsert inserts or updates an event.
func (s *SportsEventStore) Upsert(_ context.Context, e *domain.SportsEvent) error {
	if e == nil || e.EventID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[e.EventID] = copyEvent(e)
	return nil
}

// GetByID retrieves an event. Returns ErrNotFound if not exists.
func (s *SportsEventStore) GetByID(_ context.Context, eventID string) (*domain.SportsEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[eventID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyEvent(e), nil
}

// FindByTeam retrieves events in the league involving the team with
// start_time in [start, end], ordered by start_time ASC. Team matching is
// case-insensitive.
func (s *SportsEventStore) FindByTeam(_ context.Context, league, team string, start, end int64) ([]*domain.SportsEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team = strings.ToLower(team)
	var out []*domain.SportsEvent
	for _, e := range s.data {
		if e.League != league || e.StartTime < start || e.StartTime > end {
			continue
		}
		if strings.ToLower(e.HomeTeam) != team && strings.ToLower(e.AwayTeam) != team {
			continue
		}
		out = append(out, copyEvent(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}

func copyEvent(e *domain.SportsEvent) *domain.SportsEvent {
	cp := *e
	if e.HomeScore != nil {
		cp.HomeScore = ptr(*e.HomeScore)
	}
	if e.AwayScore != nil {
		cp.AwayScore = ptr(*e.AwayScore)
	}
	return &cp
}

// SportsLineStore is an in-memory implementation of storage.SportsLineStore.
type SportsLineStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SportsLine // keyed by event|type|team|timestamp
}

// NewSportsLineStore creates a new in-memory sports line store.
func NewSportsLineStore() *SportsLineStore {
	return &SportsLineStore{data: make(map[string]*domain.SportsLine)}
}

func (s *SportsLineStore) InsertBulk(_ context.Context, lines []*domain.SportsLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range lines {
		if l == nil || l.EventID == "" {
			return storage.ErrInvalidInput
		}
		key := fmt.Sprintf("%s|%s|%s|%d", l.EventID, l.LineType, l.Team, l.TimestampMs)
		if _, exists := s.data[key]; exists {
			continue
		}
		cp := copyLine(l)
		s.data[key] = cp
	}
	return nil
}

// GetByEventID retrieves all lines for an event ordered by timestamp ASC.
func (s *SportsLineStore) GetByEventID(_ context.Context, eventID string) ([]*domain.SportsLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.SportsLine
	for _, l := range s.data {
		if l.EventID == eventID {
			out = append(out, copyLine(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimestampMs != out[j].TimestampMs {
			return out[i].TimestampMs < out[j].TimestampMs
		}
		if out[i].LineType != out[j].LineType {
			return out[i].LineType < out[j].LineType
		}
		return out[i].Team < out[j].Team
	})
	return out, nil
}

func copyLine(l *domain.SportsLine) *domain.SportsLine {
	cp := *l
	if l.Line != nil {
		cp.Line = ptr(*l.Line)
	}
	if l.Odds != nil {
		cp.Odds = ptr(*l.Odds)
	}
	return &cp
}
