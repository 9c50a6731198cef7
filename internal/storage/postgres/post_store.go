package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// PostStore implements storage.PostStore using PostgreSQL.
type PostStore struct {
	pool *Pool
}

// NewPostStore creates a new PostStore.
func NewPostStore(pool *Pool) *PostStore {
	return &PostStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PostStore = (*PostStore)(nil)

// Insert adds a post. Returns ErrDuplicateKey if post_id exists.
func (s *PostStore) Insert(ctx context.Context, p *domain.Post) error {
	query := `
		INSERT INTO posts (post_id, account_id, platform, handle, posted_at, text, url, raw)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		p.PostID, p.AccountID, p.Platform, p.Handle, p.PostedAt, p.Text, p.URL, p.Raw,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by its ID. Returns ErrNotFound if not exists.
func (s *PostStore) GetByID(ctx context.Context, postID string) (*domain.Post, error) {
	query := `
		SELECT post_id, account_id, platform, handle, posted_at, text, url, raw
		FROM posts
		WHERE post_id = $1
	`

	row := s.pool.QueryRow(ctx, query, postID)
	p, err := scanPost(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get post by id: %w", err)
	}
	return p, nil
}

// GetUnparsed retrieves posts with no derived signal yet, ordered by
// posted_at ASC.
func (s *PostStore) GetUnparsed(ctx context.Context) ([]*domain.Post, error) {
	query := `
		SELECT p.post_id, p.account_id, p.platform, p.handle, p.posted_at, p.text, p.url, p.raw
		FROM posts p
		WHERE NOT EXISTS (SELECT 1 FROM signals s WHERE s.post_id = p.post_id)
		ORDER BY p.posted_at ASC, p.post_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get unparsed posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// GetByAccountID retrieves all posts for an account ordered by posted_at ASC.
func (s *PostStore) GetByAccountID(ctx context.Context, accountID string) ([]*domain.Post, error) {
	query := `
		SELECT post_id, account_id, platform, handle, posted_at, text, url, raw
		FROM posts
		WHERE account_id = $1
		ORDER BY posted_at ASC, post_id ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get posts by account id: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(
		&p.PostID, &p.AccountID, &p.Platform, &p.Handle, &p.PostedAt, &p.Text, &p.URL, &p.Raw,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPosts(rows pgx.Rows) ([]*domain.Post, error) {
	var posts []*domain.Post
	for rows.Next() {
		var p domain.Post
		err := rows.Scan(
			&p.PostID, &p.AccountID, &p.Platform, &p.Handle, &p.PostedAt, &p.Text, &p.URL, &p.Raw,
		)
		if err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}
	return posts, nil
}
