package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// LeaderboardStore implements storage.LeaderboardStore using PostgreSQL.
type LeaderboardStore struct {
	pool *Pool
}

// NewLeaderboardStore creates a new LeaderboardStore.
func NewLeaderboardStore(pool *Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LeaderboardStore = (*LeaderboardStore)(nil)

const leaderboardColumns = `
	account_id, window_days, start_date, end_date, n_signals,
	win_rate, mean_excess_return, risk_adjusted, mean_brier,
	mean_clv_points, mean_prediction_pnl, alpha_score, computed_at
`

// Upsert writes a window snapshot, replacing any previous row for the
// same (account_id, window_days, start_date, end_date).
func (s *LeaderboardStore) Upsert(ctx context.Context, e *domain.LeaderboardEntry) error {
	query := `
		INSERT INTO leaderboard_entries (` + leaderboardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (account_id, window_days, start_date, end_date) DO UPDATE SET
			n_signals = EXCLUDED.n_signals,
			win_rate = EXCLUDED.win_rate,
			mean_excess_return = EXCLUDED.mean_excess_return,
			risk_adjusted = EXCLUDED.risk_adjusted,
			mean_brier = EXCLUDED.mean_brier,
			mean_clv_points = EXCLUDED.mean_clv_points,
			mean_prediction_pnl = EXCLUDED.mean_prediction_pnl,
			alpha_score = EXCLUDED.alpha_score,
			computed_at = EXCLUDED.computed_at
	`

	_, err := s.pool.Exec(ctx, query,
		e.AccountID, e.WindowDays, e.StartDate, e.EndDate, e.NSignals,
		e.WinRate, e.MeanExcessReturn, e.RiskAdjusted, e.MeanBrier,
		e.MeanCLVPoints, e.MeanPredictionPnL, e.AlphaScore, e.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert leaderboard entry: %w", err)
	}
	return nil
}

// GetWindow retrieves all entries for a window ordered by alpha_score
// DESC with null scores last.
func (s *LeaderboardStore) GetWindow(ctx context.Context, windowDays int, startDate, endDate string) ([]*domain.LeaderboardEntry, error) {
	query := `
		SELECT ` + leaderboardColumns + `
		FROM leaderboard_entries
		WHERE window_days = $1 AND start_date = $2 AND end_date = $3
		ORDER BY alpha_score DESC NULLS LAST, account_id ASC
	`

	rows, err := s.pool.Query(ctx, query, windowDays, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard window: %w", err)
	}
	defer rows.Close()

	return scanLeaderboardEntries(rows)
}

// GetByAccountID retrieves all snapshots for an account.
func (s *LeaderboardStore) GetByAccountID(ctx context.Context, accountID string) ([]*domain.LeaderboardEntry, error) {
	query := `
		SELECT ` + leaderboardColumns + `
		FROM leaderboard_entries
		WHERE account_id = $1
		ORDER BY window_days ASC, start_date ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard entries by account id: %w", err)
	}
	defer rows.Close()

	return scanLeaderboardEntries(rows)
}

func scanLeaderboardEntries(rows pgx.Rows) ([]*domain.LeaderboardEntry, error) {
	var entries []*domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		err := rows.Scan(
			&e.AccountID, &e.WindowDays, &e.StartDate, &e.EndDate, &e.NSignals,
			&e.WinRate, &e.MeanExcessReturn, &e.RiskAdjusted, &e.MeanBrier,
			&e.MeanCLVPoints, &e.MeanPredictionPnL, &e.AlphaScore, &e.ComputedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard rows: %w", err)
	}
	return entries, nil
}
