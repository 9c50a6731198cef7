package postgres

import (
	"context"
	"fmt"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// AccountStore implements storage.AccountStore using PostgreSQL.
type AccountStore struct {
	pool *Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

// Upsert inserts the account or leaves an existing row unchanged.
func (s *AccountStore) Upsert(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, platform, handle, category, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id) DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query,
		a.AccountID, a.Platform, a.Handle, a.Category, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by its ID. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, platform, handle, category, created_at
		FROM accounts
		WHERE account_id = $1
	`

	var a domain.Account
	err := s.pool.QueryRow(ctx, query, accountID).Scan(
		&a.AccountID, &a.Platform, &a.Handle, &a.Category, &a.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return &a, nil
}

// GetAll retrieves all accounts ordered by account_id.
func (s *AccountStore) GetAll(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT account_id, platform, handle, category, created_at
		FROM accounts
		ORDER BY account_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.AccountID, &a.Platform, &a.Handle, &a.Category, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// Delete removes an account. Posts, signals and outcomes cascade via
// foreign keys.
func (s *AccountStore) Delete(ctx context.Context, accountID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
