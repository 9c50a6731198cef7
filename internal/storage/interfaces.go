// Package storage defines the store contracts implemented by the
// postgres, clickhouse, and memory backends. Entity stores (accounts,
// posts, signals, outcomes, leaderboard) live in Postgres; market-data
// time series live in ClickHouse; the memory backend implements both
// sides for tests and fixture runs.
package storage

import (
	"context"

	"alpha-tracker/internal/domain"
)

// AccountStore provides access to accounts storage.
type AccountStore interface {
	// Upsert inserts the account or leaves an existing row unchanged.
	// Accounts are keyed by account_id, derived from (platform, handle).
	Upsert(ctx context.Context, a *domain.Account) error

	// GetByID retrieves an account by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAll retrieves all accounts ordered by account_id.
	GetAll(ctx context.Context) ([]*domain.Account, error)

	// Delete removes an account and cascades to its posts, signals and
	// outcomes.
	Delete(ctx context.Context, accountID string) error
}

// PostStore provides access to posts storage.
type PostStore interface {
	// Insert adds a post. Returns ErrDuplicateKey if post_id exists;
	// posts are immutable once ingested.
	Insert(ctx context.Context, p *domain.Post) error

	// GetByID retrieves a post by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, postID string) (*domain.Post, error)

	// GetUnparsed retrieves posts with no derived signal yet, ordered by
	// posted_at ASC.
	GetUnparsed(ctx context.Context) ([]*domain.Post, error)

	// GetByAccountID retrieves all posts for an account ordered by posted_at ASC.
	GetByAccountID(ctx context.Context, accountID string) ([]*domain.Post, error)
}

// SignalStore provides access to signals storage.
type SignalStore interface {
	// Upsert inserts the signal or, when signal_id exists, leaves the
	// stored row unchanged. Reparsing the same post is a no-op.
	Upsert(ctx context.Context, s *domain.Signal) error

	// GetByID retrieves a signal by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, signalID string) (*domain.Signal, error)

	// GetByStatus retrieves signals in a lifecycle state, ordered by
	// posted_at ASC.
	GetByStatus(ctx context.Context, status domain.SignalStatus) ([]*domain.Signal, error)

	// GetByAccountID retrieves all signals for an account ordered by posted_at ASC.
	GetByAccountID(ctx context.Context, accountID string) ([]*domain.Signal, error)

	// GetSettledInRange retrieves settled signals whose posted_at falls
	// within [start, end), across all accounts.
	GetSettledInRange(ctx context.Context, start, end int64) ([]*domain.Signal, error)

	// UpdateStatus moves a signal to a new lifecycle state.
	UpdateStatus(ctx context.Context, signalID string, status domain.SignalStatus) error
}

// OutcomeStore provides access to outcomes storage.
type OutcomeStore interface {
	// Upsert writes the outcome for a signal, overwriting any previous
	// row for the same signal_id. Rematching is idempotent.
	Upsert(ctx context.Context, o *domain.Outcome) error

	// GetBySignalID retrieves the outcome for a signal. Returns ErrNotFound if not exists.
	GetBySignalID(ctx context.Context, signalID string) (*domain.Outcome, error)

	// GetBySignalIDs retrieves outcomes for the given signals, skipping
	// ids with no outcome.
	GetBySignalIDs(ctx context.Context, signalIDs []string) ([]*domain.Outcome, error)

	// UpdateRiskAdjusted backfills the risk-adjusted ratio computed by
	// the aggregator.
	UpdateRiskAdjusted(ctx context.Context, signalID string, ratio *float64) error
}

// LeaderboardStore provides access to leaderboard storage.
type LeaderboardStore interface {
	// Upsert writes a window snapshot, replacing any previous row for
	// the same (account_id, window_days, start_date, end_date).
	Upsert(ctx context.Context, e *domain.LeaderboardEntry) error

	// GetWindow retrieves all entries for a window ordered by alpha_score
	// DESC with null scores last.
	GetWindow(ctx context.Context, windowDays int, startDate, endDate string) ([]*domain.LeaderboardEntry, error)

	// GetByAccountID retrieves all snapshots for an account.
	GetByAccountID(ctx context.Context, accountID string) ([]*domain.LeaderboardEntry, error)
}

// PricePointStore provides access to the price_points time series.
type PricePointStore interface {
	// InsertBulk adds points; re-inserting an existing (instrument,
	// timestamp_ms) point is a no-op.
	InsertBulk(ctx context.Context, points []*domain.PricePoint) error

	// GetByInstrument retrieves all points for an instrument ordered by timestamp ASC.
	GetByInstrument(ctx context.Context, instrument string) ([]*domain.PricePoint, error)

	// GetByTimeRange retrieves points for an instrument within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, instrument string, start, end int64) ([]*domain.PricePoint, error)
}

// PredictionQuoteStore provides access to the prediction_quotes series.
type PredictionQuoteStore interface {
	InsertBulk(ctx context.Context, quotes []*domain.PredictionQuote) error

	// GetByMarketRef retrieves all quotes for a market ordered by timestamp ASC.
	GetByMarketRef(ctx context.Context, marketRef string) ([]*domain.PredictionQuote, error)
}

// PredictionResolutionStore provides access to prediction resolutions.
type PredictionResolutionStore interface {
	// Upsert records a market's terminal outcome.
	Upsert(ctx context.Context, r *domain.PredictionResolution) error

	// GetByMarketRef retrieves the resolution. Returns ErrNotFound while
	// the market is unresolved.
	GetByMarketRef(ctx context.Context, marketRef string) (*domain.PredictionResolution, error)
}

// SportsEventStore provides access to sports events.
type SportsEventStore interface {
	// Upsert inserts or updates an event; final scores arrive after the
	// event row is first seen.
	Upsert(ctx context.Context, e *domain.SportsEvent) error

	// GetByID retrieves an event. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, eventID string) (*domain.SportsEvent, error)

	// FindByTeam retrieves events in the league involving the team whose
	// start_time falls within [start, end], ordered by start_time ASC.
	FindByTeam(ctx context.Context, league, team string, start, end int64) ([]*domain.SportsEvent, error)
}

// SportsLineStore provides access to the sports_lines series.
type SportsLineStore interface {
	InsertBulk(ctx context.Context, lines []*domain.SportsLine) error

	// GetByEventID retrieves all lines for an event ordered by timestamp ASC.
	GetByEventID(ctx context.Context, eventID string) ([]*domain.SportsLine, error)
}
