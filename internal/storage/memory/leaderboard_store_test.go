package memory

import (
	"context"
	"testing"

	"alpha-tracker/internal/domain"
)

func windowEntry(accountID string, alpha *float64) *domain.LeaderboardEntry {
	return &domain.LeaderboardEntry{
		AccountID:  accountID,
		WindowDays: 7,
		StartDate:  "2026-08-23",
		EndDate:    "2026-08-30",
		NSignals:   1,
		AlphaScore: alpha,
		ComputedAt: 1000,
	}
}

func TestLeaderboardStore_GetWindowOrdering(t *testing.T) {
	store := NewLeaderboardStore()
	ctx := context.Background()

	for _, e := range []*domain.LeaderboardEntry{
		windowEntry("a-low", fptr(0.1)),
		windowEntry("b-null", nil),
		windowEntry("c-high", fptr(0.9)),
		windowEntry("a-null", nil),
	} {
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	got, err := store.GetWindow(ctx, 7, "2026-08-23", "2026-08-30")
	if err != nil {
		t.Fatalf("GetWindow failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d entries, want 4", len(got))
	}

	// score DESC, null scores last by account_id.
	wantOrder := []string{"c-high", "a-low", "a-null", "b-null"}
	for i, want := range wantOrder {
		if got[i].AccountID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].AccountID, want)
		}
	}
}

func TestLeaderboardStore_UpsertReplaces(t *testing.T) {
	store := NewLeaderboardStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, windowEntry("a1", fptr(0.2))); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	replacement := windowEntry("a1", fptr(0.7))
	replacement.NSignals = 5
	if err := store.Upsert(ctx, replacement); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	got, err := store.GetWindow(ctx, 7, "2026-08-23", "2026-08-30")
	if err != nil {
		t.Fatalf("GetWindow failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1 after replacement", len(got))
	}
	if got[0].NSignals != 5 || *got[0].AlphaScore != 0.7 {
		t.Errorf("entry not replaced: %+v", got[0])
	}
}

func TestLeaderboardStore_GetByAccountID(t *testing.T) {
	store := NewLeaderboardStore()
	ctx := context.Background()

	seven := windowEntry("a1", fptr(0.3))
	thirty := windowEntry("a1", fptr(0.4))
	thirty.WindowDays = 30
	thirty.StartDate = "2026-07-31"
	other := windowEntry("a2", fptr(0.5))

	for _, e := range []*domain.LeaderboardEntry{seven, thirty, other} {
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	got, err := store.GetByAccountID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByAccountID failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d snapshots, want 2", len(got))
	}
}
