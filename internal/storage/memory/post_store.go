package memory

import (
	"context"
	"sort"
	"sync"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// PostStore is an in-memory implementation of storage.PostStore.
type PostStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Post // keyed by post_id

	signals *SignalStore // consulted for GetUnparsed
}

// NewPostStore creates a new in-memory post store.
func NewPostStore() *PostStore {
	return &PostStore{data: make(map[string]*domain.Post)}
}

// Insert adds a post. Returns ErrDuplicateKey if post_id exists.
func (s *PostStore) Insert(_ context.Context, p *domain.Post) error {
	if p == nil || p.PostID == "" || p.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PostID]; exists {
		return storage.ErrDuplicateKey
	}
	cp := *p
	s.data[p.PostID] = &cp
	return nil
}

// GetByID retrieves a post by ID. Returns ErrNotFound if not exists.
func (s *PostStore) GetByID(_ context.Context, postID string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[postID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// GetUnparsed retrieves posts with no derived signal yet, ordered by
// posted_at ASC.
func (s *PostStore) GetUnparsed(_ context.Context) ([]*domain.Post, error) {
	parsed := map[string]bool{}
	if s.signals != nil {
		parsed = s.signals.postIDs()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Post
	for _, p := range s.data {
		if parsed[p.PostID] {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sortPosts(out)
	return out, nil
}

// GetByAccountID retrieves all posts for an account ordered by posted_at ASC.
func (s *PostStore) GetByAccountID(_ context.Context, accountID string) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Post
	for _, p := range s.data {
		if p.AccountID != accountID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sortPosts(out)
	return out, nil
}

func (s *PostStore) deleteByAccountID(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.data {
		if p.AccountID == accountID {
			delete(s.data, id)
		}
	}
}

func sortPosts(posts []*domain.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].PostedAt != posts[j].PostedAt {
			return posts[i].PostedAt < posts[j].PostedAt
		}
		return posts[i].PostID < posts[j].PostID
	})
}
