package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// SignalStore implements storage.SignalStore using PostgreSQL. The
// class-specific payload is stored as a single JSONB column selected by
// asset_class.
type SignalStore struct {
	pool *Pool
}

// NewSignalStore creates a new SignalStore.
func NewSignalStore(pool *Pool) *SignalStore {
	return &SignalStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SignalStore = (*SignalStore)(nil)

const signalColumns = `
	signal_id, post_id, account_id, asset_class, instrument, market_ref,
	side, confidence, size, horizon_ms, posted_at, status, payload
`

// Upsert inserts the signal or, when signal_id exists, leaves the stored
// row unchanged.
func (s *SignalStore) Upsert(ctx context.Context, sig *domain.Signal) error {
	payload, err := marshalPayload(sig)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO signals (` + signalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (signal_id) DO NOTHING
	`

	_, err = s.pool.Exec(ctx, query,
		sig.SignalID, sig.PostID, sig.AccountID, string(sig.AssetClass),
		sig.Instrument, sig.MarketRef, sig.Side, sig.Confidence,
		sig.Size, sig.HorizonMs, sig.PostedAt, string(sig.Status), payload,
	)
	if err != nil {
		return fmt.Errorf("upsert signal: %w", err)
	}
	return nil
}

// GetByID retrieves a signal by its ID. Returns ErrNotFound if not exists.
func (s *SignalStore) GetByID(ctx context.Context, signalID string) (*domain.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE signal_id = $1`

	row := s.pool.QueryRow(ctx, query, signalID)
	sig, err := scanSignal(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get signal by id: %w", err)
	}
	return sig, nil
}

// GetByStatus retrieves signals in a lifecycle state, ordered by
// posted_at ASC.
func (s *SignalStore) GetByStatus(ctx context.Context, status domain.SignalStatus) ([]*domain.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM signals
		WHERE status = $1
		ORDER BY posted_at ASC, signal_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("get signals by status: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// GetByAccountID retrieves all signals for an account ordered by
// posted_at ASC.
func (s *SignalStore) GetByAccountID(ctx context.Context, accountID string) ([]*domain.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM signals
		WHERE account_id = $1
		ORDER BY posted_at ASC, signal_id ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get signals by account id: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// GetSettledInRange retrieves settled signals with posted_at in
// [start, end), across all accounts.
func (s *SignalStore) GetSettledInRange(ctx context.Context, start, end int64) ([]*domain.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM signals
		WHERE status = $1 AND posted_at >= $2 AND posted_at < $3
		ORDER BY posted_at ASC, signal_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(domain.SignalStatusSettled), start, end)
	if err != nil {
		return nil, fmt.Errorf("get settled signals in range: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// UpdateStatus moves a signal to a new lifecycle state.
func (s *SignalStore) UpdateStatus(ctx context.Context, signalID string, status domain.SignalStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE signals SET status = $2 WHERE signal_id = $1`,
		signalID, string(status),
	)
	if err != nil {
		return fmt.Errorf("update signal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// marshalPayload serializes the one non-nil class payload.
func marshalPayload(sig *domain.Signal) ([]byte, error) {
	var v any
	switch {
	case sig.Equity != nil:
		v = sig.Equity
	case sig.Crypto != nil:
		v = sig.Crypto
	case sig.Prediction != nil:
		v = sig.Prediction
	case sig.Sports != nil:
		v = sig.Sports
	default:
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal signal payload: %w", err)
	}
	return data, nil
}

// unmarshalPayload attaches the JSONB payload to the slot selected by
// asset_class.
func unmarshalPayload(sig *domain.Signal, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var err error
	switch sig.AssetClass {
	case domain.AssetClassEquity:
		sig.Equity = &domain.EquityPayload{}
		err = json.Unmarshal(data, sig.Equity)
	case domain.AssetClassCrypto:
		sig.Crypto = &domain.CryptoPayload{}
		err = json.Unmarshal(data, sig.Crypto)
	case domain.AssetClassPrediction:
		sig.Prediction = &domain.PredictionPayload{}
		err = json.Unmarshal(data, sig.Prediction)
	case domain.AssetClassSports:
		sig.Sports = &domain.SportsPayload{}
		err = json.Unmarshal(data, sig.Sports)
	}
	if err != nil {
		return fmt.Errorf("unmarshal signal payload: %w", err)
	}
	return nil
}

func scanSignal(row pgx.Row) (*domain.Signal, error) {
	var sig domain.Signal
	var assetClass, status string
	var payload []byte

	err := row.Scan(
		&sig.SignalID, &sig.PostID, &sig.AccountID, &assetClass,
		&sig.Instrument, &sig.MarketRef, &sig.Side, &sig.Confidence,
		&sig.Size, &sig.HorizonMs, &sig.PostedAt, &status, &payload,
	)
	if err != nil {
		return nil, err
	}

	sig.AssetClass = domain.AssetClass(assetClass)
	sig.Status = domain.SignalStatus(status)
	if err := unmarshalPayload(&sig, payload); err != nil {
		return nil, err
	}
	return &sig, nil
}

func scanSignals(rows pgx.Rows) ([]*domain.Signal, error) {
	var signals []*domain.Signal
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signal row: %w", err)
		}
		signals = append(signals, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signal rows: %w", err)
	}
	return signals, nil
}
