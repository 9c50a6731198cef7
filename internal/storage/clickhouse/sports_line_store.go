package clickhouse

import (
	"context"
	"fmt"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// SportsLineStore implements storage.SportsLineStore using ClickHouse.
type SportsLineStore struct {
	conn *Conn
}

// NewSportsLineStore creates a new SportsLineStore.
func NewSportsLineStore(conn *Conn) *SportsLineStore {
	return &SportsLineStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SportsLineStore = (*SportsLineStore)(nil)

// InsertBulk adds multiple lines in one batch.
func (s *SportsLineStore) InsertBulk(ctx context.Context, lines []*domain.SportsLine) error {
	if len(lines) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO sports_lines (event_id, timestamp_ms, line_type, team, line, odds, is_closing)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, l := range lines {
		closing := uint8(0)
		if l.IsClosing {
			closing = 1
		}
		err := batch.Append(
			l.EventID, l.TimestampMs, string(l.LineType), l.Team, l.Line, l.Odds, closing,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByEventID retrieves all lines for an event, ordered by timestamp ASC.
func (s *SportsLineStore) GetByEventID(ctx context.Context, eventID string) ([]*domain.SportsLine, error) {
	query := `
		SELECT event_id, timestamp_ms, line_type, team, line, odds, is_closing
		FROM sports_lines FINAL
		WHERE event_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("query by event id: %w", err)
	}
	defer rows.Close()

	var lines []*domain.SportsLine
	for rows.Next() {
		var l domain.SportsLine
		var lineType string
		var closing uint8
		err := rows.Scan(&l.EventID, &l.TimestampMs, &lineType, &l.Team, &l.Line, &l.Odds, &closing)
		if err != nil {
			return nil, fmt.Errorf("scan sports line row: %w", err)
		}
		l.LineType = domain.LineType(lineType)
		l.IsClosing = closing != 0
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sports line rows: %w", err)
	}
	return lines, nil
}
