package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"alpha-tracker/internal/config"
	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage/memory"
)

func testAggregator(t *testing.T) (*Aggregator, *memory.Stores) {
	t.Helper()
	cfg := &config.Config{
		WindowDays:    []int{7, 30},
		MinPopulation: 2,
		MinRatioN:     3,
	}
	stores := memory.NewStores()
	agg := NewAggregator(cfg, stores.Signals, stores.Outcomes, stores.Leaderboard, zerolog.Nop())
	agg.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return agg, stores
}

func seedSettled(t *testing.T, stores *memory.Stores, accountID, signalID string, postedAt int64, out *domain.Outcome) {
	t.Helper()
	ctx := context.Background()
	sig := &domain.Signal{
		SignalID:   signalID,
		AccountID:  accountID,
		AssetClass: domain.AssetClassEquity,
		PostedAt:   postedAt,
		Status:     domain.SignalStatusSettled,
	}
	if err := stores.Signals.Upsert(ctx, sig); err != nil {
		t.Fatalf("seed signal: %v", err)
	}
	out.SignalID = signalID
	if err := stores.Outcomes.Upsert(ctx, out); err != nil {
		t.Fatalf("seed outcome: %v", err)
	}
}

func TestAggregator_ComputeWindow(t *testing.T) {
	agg, stores := testAggregator(t)
	ctx := context.Background()

	end := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	inWindow := end.AddDate(0, 0, -3).UnixMilli()

	seedSettled(t, stores, "acct-a", "sig-a1", inWindow, &domain.Outcome{Won: bptr(true), ExcessReturn: fptr(0.08)})
	seedSettled(t, stores, "acct-a", "sig-a2", inWindow, &domain.Outcome{Won: bptr(true), ExcessReturn: fptr(0.04)})
	seedSettled(t, stores, "acct-b", "sig-b1", inWindow, &domain.Outcome{Won: bptr(false), ExcessReturn: fptr(-0.05)})
	// Outside the 7-day window; must not count.
	seedSettled(t, stores, "acct-a", "sig-old", end.AddDate(0, 0, -10).UnixMilli(), &domain.Outcome{Won: bptr(true)})

	entries, err := agg.ComputeWindow(ctx, 7, end)
	if err != nil {
		t.Fatalf("ComputeWindow: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// GetWindow orders by alpha score descending; acct-a wins both metrics.
	if entries[0].AccountID != "acct-a" {
		t.Errorf("top account = %s, want acct-a", entries[0].AccountID)
	}
	if entries[0].NSignals != 2 {
		t.Errorf("acct-a NSignals = %d, want 2", entries[0].NSignals)
	}
	if entries[0].StartDate != "2026-08-23" || entries[0].EndDate != "2026-08-30" {
		t.Errorf("window dates = %s..%s", entries[0].StartDate, entries[0].EndDate)
	}
	if entries[0].AlphaScore == nil || entries[1].AlphaScore == nil {
		t.Fatal("alpha scores missing")
	}
	if *entries[0].AlphaScore <= *entries[1].AlphaScore {
		t.Errorf("scores not ordered: %f vs %f", *entries[0].AlphaScore, *entries[1].AlphaScore)
	}
}

func TestAggregator_RecomputeIsIdempotent(t *testing.T) {
	agg, stores := testAggregator(t)
	ctx := context.Background()

	end := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	posted := end.AddDate(0, 0, -1).UnixMilli()
	seedSettled(t, stores, "acct-a", "sig-1", posted, &domain.Outcome{Won: bptr(true), ExcessReturn: fptr(0.02)})
	seedSettled(t, stores, "acct-b", "sig-2", posted, &domain.Outcome{Won: bptr(false), ExcessReturn: fptr(-0.01)})

	first, err := agg.ComputeWindow(ctx, 7, end)
	if err != nil {
		t.Fatalf("first ComputeWindow: %v", err)
	}
	second, err := agg.ComputeWindow(ctx, 7, end)
	if err != nil {
		t.Fatalf("second ComputeWindow: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("recompute grew the window: %d -> %d entries", len(first), len(second))
	}
	for i := range second {
		if second[i].AccountID != first[i].AccountID {
			t.Errorf("entry %d account changed: %s -> %s", i, first[i].AccountID, second[i].AccountID)
		}
	}
}

func TestAggregator_BackfillsRiskAdjusted(t *testing.T) {
	agg, stores := testAggregator(t)
	ctx := context.Background()

	end := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	posted := end.AddDate(0, 0, -2).UnixMilli()
	seedSettled(t, stores, "acct-a", "sig-1", posted, &domain.Outcome{ExcessReturn: fptr(0.10)})
	seedSettled(t, stores, "acct-a", "sig-2", posted, &domain.Outcome{ExcessReturn: fptr(0.00)})
	seedSettled(t, stores, "acct-a", "sig-3", posted, &domain.Outcome{ExcessReturn: fptr(-0.10)})

	if _, err := agg.ComputeWindow(ctx, 7, end); err != nil {
		t.Fatalf("ComputeWindow: %v", err)
	}

	out, err := stores.Outcomes.GetBySignalID(ctx, "sig-1")
	if err != nil {
		t.Fatalf("GetBySignalID: %v", err)
	}
	if out.RiskAdjusted == nil {
		t.Fatal("RiskAdjusted not backfilled")
	}
	// sample stddev of {0.1, 0, -0.1} is 0.1, so sig-1 ratios to 1.0.
	if *out.RiskAdjusted < 0.999 || *out.RiskAdjusted > 1.001 {
		t.Errorf("RiskAdjusted = %f, want ~1.0", *out.RiskAdjusted)
	}
}

func TestAggregator_ComputeAllWindows(t *testing.T) {
	agg, stores := testAggregator(t)
	ctx := context.Background()

	posted := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC).UnixMilli()
	seedSettled(t, stores, "acct-a", "sig-1", posted, &domain.Outcome{Won: bptr(true)})
	seedSettled(t, stores, "acct-b", "sig-2", posted, &domain.Outcome{Won: bptr(false)})

	byWindow, err := agg.ComputeAllWindows(ctx)
	if err != nil {
		t.Fatalf("ComputeAllWindows: %v", err)
	}
	if len(byWindow) != 2 {
		t.Fatalf("got %d windows, want 2", len(byWindow))
	}
	for _, days := range []int{7, 30} {
		if len(byWindow[days]) != 2 {
			t.Errorf("window %d has %d entries, want 2", days, len(byWindow[days]))
		}
	}
}
