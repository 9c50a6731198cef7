package clickhouse

import (
	"context"
	"fmt"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// PricePointStore implements storage.PricePointStore using ClickHouse.
// The table is a ReplacingMergeTree on (instrument, timestamp_ms), so
// re-inserting an existing point collapses at merge time.
type PricePointStore struct {
	conn *Conn
}

// NewPricePointStore creates a new PricePointStore.
func NewPricePointStore(conn *Conn) *PricePointStore {
	return &PricePointStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PricePointStore = (*PricePointStore)(nil)

// InsertBulk adds multiple points in one batch.
func (s *PricePointStore) InsertBulk(ctx context.Context, points []*domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_points (instrument, timestamp_ms, price, source)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.Instrument, p.TimestampMs, p.Price, p.Source); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByInstrument retrieves all points for an instrument, ordered by
// timestamp ASC.
func (s *PricePointStore) GetByInstrument(ctx context.Context, instrument string) ([]*domain.PricePoint, error) {
	query := `
		SELECT instrument, timestamp_ms, price, source
		FROM price_points FINAL
		WHERE instrument = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, instrument)
	if err != nil {
		return nil, fmt.Errorf("query by instrument: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// GetByTimeRange retrieves points for an instrument within [start, end]
// (inclusive).
func (s *PricePointStore) GetByTimeRange(ctx context.Context, instrument string, start, end int64) ([]*domain.PricePoint, error) {
	query := `
		SELECT instrument, timestamp_ms, price, source
		FROM price_points FINAL
		WHERE instrument = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, instrument, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

func scanPricePoints(rows chRows) ([]*domain.PricePoint, error) {
	var points []*domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.Instrument, &p.TimestampMs, &p.Price, &p.Source); err != nil {
			return nil, fmt.Errorf("scan price point row: %w", err)
		}
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price point rows: %w", err)
	}
	return points, nil
}
