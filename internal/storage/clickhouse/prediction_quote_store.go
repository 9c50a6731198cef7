package clickhouse

import (
	"context"
	"fmt"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// PredictionQuoteStore implements storage.PredictionQuoteStore using
// ClickHouse.
type PredictionQuoteStore struct {
	conn *Conn
}

// NewPredictionQuoteStore creates a new PredictionQuoteStore.
func NewPredictionQuoteStore(conn *Conn) *PredictionQuoteStore {
	return &PredictionQuoteStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PredictionQuoteStore = (*PredictionQuoteStore)(nil)

// InsertBulk adds multiple quotes in one batch.
func (s *PredictionQuoteStore) InsertBulk(ctx context.Context, quotes []*domain.PredictionQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO prediction_quotes (market_ref, timestamp_ms, yes_price, no_price)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, q := range quotes {
		if err := batch.Append(q.MarketRef, q.TimestampMs, q.YesPrice, q.NoPrice); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByMarketRef retrieves all quotes for a market, ordered by
// timestamp ASC.
func (s *PredictionQuoteStore) GetByMarketRef(ctx context.Context, marketRef string) ([]*domain.PredictionQuote, error) {
	query := `
		SELECT market_ref, timestamp_ms, yes_price, no_price
		FROM prediction_quotes FINAL
		WHERE market_ref = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, marketRef)
	if err != nil {
		return nil, fmt.Errorf("query by market ref: %w", err)
	}
	defer rows.Close()

	var quotes []*domain.PredictionQuote
	for rows.Next() {
		var q domain.PredictionQuote
		if err := rows.Scan(&q.MarketRef, &q.TimestampMs, &q.YesPrice, &q.NoPrice); err != nil {
			return nil, fmt.Errorf("scan prediction quote row: %w", err)
		}
		quotes = append(quotes, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prediction quote rows: %w", err)
	}
	return quotes, nil
}
