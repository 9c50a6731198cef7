package postgres

import (
	"context"
	"fmt"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// PredictionResolutionStore implements storage.PredictionResolutionStore
// using PostgreSQL.
type PredictionResolutionStore struct {
	pool *Pool
}

// NewPredictionResolutionStore creates a new PredictionResolutionStore.
func NewPredictionResolutionStore(pool *Pool) *PredictionResolutionStore {
	return &PredictionResolutionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PredictionResolutionStore = (*PredictionResolutionStore)(nil)

// Upsert records a market's terminal outcome.
func (s *PredictionResolutionStore) Upsert(ctx context.Context, r *domain.PredictionResolution) error {
	query := `
		INSERT INTO prediction_resolutions (market_ref, resolved_at, outcome)
		VALUES ($1, $2, $3)
		ON CONFLICT (market_ref) DO UPDATE SET
			resolved_at = EXCLUDED.resolved_at,
			outcome = EXCLUDED.outcome
	`

	_, err := s.pool.Exec(ctx, query, r.MarketRef, r.ResolvedAt, string(r.Outcome))
	if err != nil {
		return fmt.Errorf("upsert prediction resolution: %w", err)
	}
	return nil
}

// GetByMarketRef retrieves the resolution. Returns ErrNotFound while the
// market is unresolved.
func (s *PredictionResolutionStore) GetByMarketRef(ctx context.Context, marketRef string) (*domain.PredictionResolution, error) {
	query := `
		SELECT market_ref, resolved_at, outcome
		FROM prediction_resolutions
		WHERE market_ref = $1
	`

	var r domain.PredictionResolution
	var outcome string
	err := s.pool.QueryRow(ctx, query, marketRef).Scan(&r.MarketRef, &r.ResolvedAt, &outcome)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get prediction resolution: %w", err)
	}
	r.Outcome = domain.ResolutionOutcome(outcome)
	return &r, nil
}
