package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

func seedAccountAndPost(t *testing.T, ctx context.Context, pool *Pool, accountID, postID string, postedAt int64) {
	t.Helper()

	accounts := NewAccountStore(pool)
	require.NoError(t, accounts.Upsert(ctx, &domain.Account{
		AccountID: accountID,
		Platform:  "x",
		Handle:    accountID,
		Category:  domain.CategoryGeneral,
		CreatedAt: postedAt,
	}))

	posts := NewPostStore(pool)
	require.NoError(t, posts.Insert(ctx, &domain.Post{
		PostID:    postID,
		AccountID: accountID,
		Platform:  "x",
		Handle:    accountID,
		PostedAt:  postedAt,
		Text:      "seed",
	}))
}

func TestSignalStore_UpsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSignalStore(pool)
	ctx := context.Background()

	seedAccountAndPost(t, ctx, pool, "acct-1", "post-1", 1700000000000)

	sig := &domain.Signal{
		SignalID:   "sig-1",
		PostID:     "post-1",
		AccountID:  "acct-1",
		AssetClass: domain.AssetClassEquity,
		Instrument: "AAPL",
		Side:       domain.SideLong,
		Confidence: 0.75,
		Size:       ptr(1000.0),
		HorizonMs:  ptr(int64(604800000)),
		PostedAt:   1700000000000,
		Status:     domain.SignalStatusPending,
		Equity: &domain.EquityPayload{
			Targets:  []float64{195, 210},
			StopLoss: ptr(188.0),
		},
	}

	err := store.Upsert(ctx, sig)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "sig-1")
	require.NoError(t, err)

	assert.Equal(t, sig.SignalID, retrieved.SignalID)
	assert.Equal(t, sig.AssetClass, retrieved.AssetClass)
	assert.Equal(t, sig.Instrument, retrieved.Instrument)
	assert.Equal(t, sig.Side, retrieved.Side)
	assert.Equal(t, sig.Confidence, retrieved.Confidence)
	assert.Equal(t, *sig.Size, *retrieved.Size)
	assert.Equal(t, *sig.HorizonMs, *retrieved.HorizonMs)
	assert.Equal(t, sig.Status, retrieved.Status)
	require.NotNil(t, retrieved.Equity)
	assert.Equal(t, sig.Equity.Targets, retrieved.Equity.Targets)
	assert.Equal(t, *sig.Equity.StopLoss, *retrieved.Equity.StopLoss)
	assert.Nil(t, retrieved.Crypto)
}

func TestSignalStore_UpsertKeepsExistingRow(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSignalStore(pool)
	ctx := context.Background()

	seedAccountAndPost(t, ctx, pool, "acct-1", "post-1", 1700000000000)

	sig := &domain.Signal{
		SignalID:   "sig-1",
		PostID:     "post-1",
		AccountID:  "acct-1",
		AssetClass: domain.AssetClassEquity,
		Instrument: "AAPL",
		Side:       domain.SideLong,
		Confidence: 0.75,
		PostedAt:   1700000000000,
		Status:     domain.SignalStatusPending,
	}
	require.NoError(t, store.Upsert(ctx, sig))

	// Reparse produces the same id with different extraction; the stored
	// row must not change.
	changed := *sig
	changed.Confidence = 0.10
	require.NoError(t, store.Upsert(ctx, &changed))

	retrieved, err := store.GetByID(ctx, "sig-1")
	require.NoError(t, err)
	assert.Equal(t, 0.75, retrieved.Confidence)
}

func TestSignalStore_UpdateStatusAndSettledRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSignalStore(pool)
	ctx := context.Background()

	seedAccountAndPost(t, ctx, pool, "acct-1", "post-1", 1700000000000)
	seedAccountAndPost(t, ctx, pool, "acct-2", "post-2", 1700000100000)

	for i, id := range []string{"sig-1", "sig-2"} {
		require.NoError(t, store.Upsert(ctx, &domain.Signal{
			SignalID:   id,
			PostID:     "post-" + string(rune('1'+i)),
			AccountID:  "acct-" + string(rune('1'+i)),
			AssetClass: domain.AssetClassCrypto,
			Instrument: "BTC-USD",
			Side:       domain.SideLong,
			Confidence: 0.5,
			PostedAt:   1700000000000 + int64(i)*100000,
			Status:     domain.SignalStatusPending,
		}))
	}

	require.NoError(t, store.UpdateStatus(ctx, "sig-1", domain.SignalStatusSettled))

	settled, err := store.GetSettledInRange(ctx, 1699999999999, 1700000200000)
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, "sig-1", settled[0].SignalID)
	assert.Equal(t, domain.SignalStatusSettled, settled[0].Status)

	pending, err := store.GetByStatus(ctx, domain.SignalStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "sig-2", pending[0].SignalID)
}

func TestSignalStore_UpdateStatusNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSignalStore(pool)
	ctx := context.Background()

	err := store.UpdateStatus(ctx, "missing", domain.SignalStatusSettled)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
