package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// SportsEventStore implements storage.SportsEventStore using PostgreSQL.
type SportsEventStore struct {
	pool *Pool
}

// NewSportsEventStore creates a new SportsEventStore.
func NewSportsEventStore(pool *Pool) *SportsEventStore {
	return &SportsEventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SportsEventStore = (*SportsEventStore)(nil)

const sportsEventColumns = `
	event_id, league, start_time, home_team, away_team, home_score, away_score
`

// Upsert inserts or updates an event. Final scores arrive after the
// event row is first seen.
func (s *SportsEventStore) Upsert(ctx context.Context, e *domain.SportsEvent) error {
	query := `
		INSERT INTO sports_events (` + sportsEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO UPDATE SET
			league = EXCLUDED.league,
			start_time = EXCLUDED.start_time,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score
	`

	_, err := s.pool.Exec(ctx, query,
		e.EventID, e.League, e.StartTime, e.HomeTeam, e.AwayTeam, e.HomeScore, e.AwayScore,
	)
	if err != nil {
		return fmt.Errorf("upsert sports event: %w", err)
	}
	return nil
}

// GetByID retrieves an event. Returns ErrNotFound if not exists.
func (s *SportsEventStore) GetByID(ctx context.Context, eventID string) (*domain.SportsEvent, error) {
	query := `SELECT ` + sportsEventColumns + ` FROM sports_events WHERE event_id = $1`

	var e domain.SportsEvent
	err := s.pool.QueryRow(ctx, query, eventID).Scan(
		&e.EventID, &e.League, &e.StartTime, &e.HomeTeam, &e.AwayTeam, &e.HomeScore, &e.AwayScore,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get sports event by id: %w", err)
	}
	return &e, nil
}

// FindByTeam retrieves events in the league involving the team with
// start_time in [start, end], ordered by start_time ASC. Team matching
// is case-insensitive.
func (s *SportsEventStore) FindByTeam(ctx context.Context, league, team string, start, end int64) ([]*domain.SportsEvent, error) {
	query := `
		SELECT ` + sportsEventColumns + `
		FROM sports_events
		WHERE league = $1
		  AND (LOWER(home_team) = LOWER($2) OR LOWER(away_team) = LOWER($2))
		  AND start_time >= $3 AND start_time <= $4
		ORDER BY start_time ASC, event_id ASC
	`

	rows, err := s.pool.Query(ctx, query, league, team, start, end)
	if err != nil {
		return nil, fmt.Errorf("find sports events by team: %w", err)
	}
	defer rows.Close()

	return scanSportsEvents(rows)
}

func scanSportsEvents(rows pgx.Rows) ([]*domain.SportsEvent, error) {
	var events []*domain.SportsEvent
	for rows.Next() {
		var e domain.SportsEvent
		err := rows.Scan(
			&e.EventID, &e.League, &e.StartTime, &e.HomeTeam, &e.AwayTeam, &e.HomeScore, &e.AwayScore,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sports event row: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sports event rows: %w", err)
	}
	return events, nil
}
