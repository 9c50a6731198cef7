package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// OutcomeStore implements storage.OutcomeStore using PostgreSQL.
type OutcomeStore struct {
	pool *Pool
}

// NewOutcomeStore creates a new OutcomeStore.
func NewOutcomeStore(pool *Pool) *OutcomeStore {
	return &OutcomeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OutcomeStore = (*OutcomeStore)(nil)

const outcomeColumns = `
	signal_id, settled_at, exit_kind,
	realized_return, benchmark_return, excess_return, risk_adjusted,
	brier, pnl_per_contract, clv_points, won
`

// Upsert writes the outcome for a signal, overwriting any previous row.
func (s *OutcomeStore) Upsert(ctx context.Context, o *domain.Outcome) error {
	query := `
		INSERT INTO outcomes (` + outcomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (signal_id) DO UPDATE SET
			settled_at = EXCLUDED.settled_at,
			exit_kind = EXCLUDED.exit_kind,
			realized_return = EXCLUDED.realized_return,
			benchmark_return = EXCLUDED.benchmark_return,
			excess_return = EXCLUDED.excess_return,
			risk_adjusted = EXCLUDED.risk_adjusted,
			brier = EXCLUDED.brier,
			pnl_per_contract = EXCLUDED.pnl_per_contract,
			clv_points = EXCLUDED.clv_points,
			won = EXCLUDED.won
	`

	_, err := s.pool.Exec(ctx, query,
		o.SignalID, o.SettledAt, o.ExitKind,
		o.RealizedReturn, o.BenchmarkReturn, o.ExcessReturn, o.RiskAdjusted,
		o.Brier, o.PnLPerContract, o.CLVPoints, o.Won,
	)
	if err != nil {
		return fmt.Errorf("upsert outcome: %w", err)
	}
	return nil
}

// GetBySignalID retrieves the outcome for a signal. Returns ErrNotFound
// if not exists.
func (s *OutcomeStore) GetBySignalID(ctx context.Context, signalID string) (*domain.Outcome, error) {
	query := `SELECT ` + outcomeColumns + ` FROM outcomes WHERE signal_id = $1`

	row := s.pool.QueryRow(ctx, query, signalID)
	o, err := scanOutcome(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get outcome by signal id: %w", err)
	}
	return o, nil
}

// GetBySignalIDs retrieves outcomes for the given signals, skipping ids
// with no outcome. Results follow the input order.
func (s *OutcomeStore) GetBySignalIDs(ctx context.Context, signalIDs []string) ([]*domain.Outcome, error) {
	if len(signalIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + outcomeColumns + ` FROM outcomes WHERE signal_id = ANY($1)`

	rows, err := s.pool.Query(ctx, query, signalIDs)
	if err != nil {
		return nil, fmt.Errorf("get outcomes by signal ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Outcome, len(signalIDs))
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outcome row: %w", err)
		}
		byID[o.SignalID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome rows: %w", err)
	}

	var out []*domain.Outcome
	for _, id := range signalIDs {
		if o, ok := byID[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpdateRiskAdjusted backfills the risk-adjusted ratio computed by the
// aggregator.
func (s *OutcomeStore) UpdateRiskAdjusted(ctx context.Context, signalID string, ratio *float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE outcomes SET risk_adjusted = $2 WHERE signal_id = $1`,
		signalID, ratio,
	)
	if err != nil {
		return fmt.Errorf("update outcome risk adjusted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanOutcome(row pgx.Row) (*domain.Outcome, error) {
	var o domain.Outcome
	err := row.Scan(
		&o.SignalID, &o.SettledAt, &o.ExitKind,
		&o.RealizedReturn, &o.BenchmarkReturn, &o.ExcessReturn, &o.RiskAdjusted,
		&o.Brier, &o.PnLPerContract, &o.CLVPoints, &o.Won,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
