package memory

import (
	"context"
	"errors"
	"testing"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

func testSignal(id, accountID string, postedAt int64) *domain.Signal {
	return &domain.Signal{
		SignalID:   id,
		PostID:     "post-" + id,
		AccountID:  accountID,
		AssetClass: domain.AssetClassEquity,
		Instrument: "AAPL",
		Side:       "long",
		Confidence: 0.6,
		PostedAt:   postedAt,
		Status:     domain.SignalStatusPending,
		Equity:     &domain.EquityPayload{},
	}
}

func TestSignalStore_UpsertAndGet(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, testSignal("s1", "a1", 1000)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Instrument != "AAPL" || got.Status != domain.SignalStatusPending {
		t.Errorf("unexpected signal: %+v", got)
	}
}

func TestSignalStore_UpsertKeepsExisting(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	first := testSignal("s1", "a1", 1000)
	first.Confidence = 0.9
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	second := testSignal("s1", "a1", 1000)
	second.Confidence = 0.1
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Confidence != 0.9 {
		t.Errorf("Confidence = %f, want original 0.9", got.Confidence)
	}
}

func TestSignalStore_ReadsCopy(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, testSignal("s1", "a1", 1000)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, _ := store.GetByID(ctx, "s1")
	got.Equity.StopLoss = fptr(50)

	again, _ := store.GetByID(ctx, "s1")
	if again.Equity.StopLoss != nil {
		t.Errorf("stored payload mutated through a returned copy")
	}
}

func TestSignalStore_UpdateStatus(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, testSignal("s1", "a1", 1000)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.UpdateStatus(ctx, "s1", domain.SignalStatusSettled); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	got, _ := store.GetByID(ctx, "s1")
	if got.Status != domain.SignalStatusSettled {
		t.Errorf("Status = %s, want settled", got.Status)
	}

	err := store.UpdateStatus(ctx, "missing", domain.SignalStatusExpired)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSignalStore_GetByStatusOrdered(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	for _, s := range []*domain.Signal{
		testSignal("s2", "a1", 3000),
		testSignal("s1", "a1", 1000),
		testSignal("s3", "a2", 2000),
	} {
		if err := store.Upsert(ctx, s); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	got, err := store.GetByStatus(ctx, domain.SignalStatusPending)
	if err != nil {
		t.Fatalf("GetByStatus failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d signals, want 3", len(got))
	}
	if got[0].SignalID != "s1" || got[1].SignalID != "s3" || got[2].SignalID != "s2" {
		t.Errorf("order = %s, %s, %s", got[0].SignalID, got[1].SignalID, got[2].SignalID)
	}
}

func TestSignalStore_GetSettledInRange(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	inRange := testSignal("s1", "a1", 1000)
	inRange.Status = domain.SignalStatusSettled
	atEnd := testSignal("s2", "a1", 2000)
	atEnd.Status = domain.SignalStatusSettled
	pending := testSignal("s3", "a1", 1500)

	for _, s := range []*domain.Signal{inRange, atEnd, pending} {
		if err := store.Upsert(ctx, s); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	got, err := store.GetSettledInRange(ctx, 1000, 2000)
	if err != nil {
		t.Fatalf("GetSettledInRange failed: %v", err)
	}
	if len(got) != 1 || got[0].SignalID != "s1" {
		t.Errorf("expected only s1 in [1000, 2000), got %d rows", len(got))
	}
}
