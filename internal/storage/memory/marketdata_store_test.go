package memory

import (
	"context"
	"errors"
	"testing"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

func TestPricePointStore_InsertBulkDedupes(t *testing.T) {
	store := NewPricePointStore()
	ctx := context.Background()

	points := []*domain.PricePoint{
		{Instrument: "AAPL", TimestampMs: 2000, Price: 191},
		{Instrument: "AAPL", TimestampMs: 1000, Price: 190},
		{Instrument: "SPY", TimestampMs: 1000, Price: 500},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	// Same (instrument, timestamp) again with a different price is a no-op.
	if err := store.InsertBulk(ctx, []*domain.PricePoint{{Instrument: "AAPL", TimestampMs: 1000, Price: 999}}); err != nil {
		t.Fatalf("Second InsertBulk failed: %v", err)
	}

	got, err := store.GetByInstrument(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetByInstrument failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	if got[0].TimestampMs != 1000 || got[0].Price != 190 {
		t.Errorf("first point = %+v, want original 190 at 1000", got[0])
	}
}

func TestPricePointStore_GetByTimeRange(t *testing.T) {
	store := NewPricePointStore()
	ctx := context.Background()

	points := []*domain.PricePoint{
		{Instrument: "SOL-USD", TimestampMs: 1000, Price: 100},
		{Instrument: "SOL-USD", TimestampMs: 2000, Price: 101},
		{Instrument: "SOL-USD", TimestampMs: 3000, Price: 102},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByTimeRange(ctx, "SOL-USD", 1000, 2000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d points in [1000, 2000], want 2", len(got))
	}
}

func TestPredictionQuoteStore_OrderedByTimestamp(t *testing.T) {
	store := NewPredictionQuoteStore()
	ctx := context.Background()

	quotes := []*domain.PredictionQuote{
		{MarketRef: "m1", TimestampMs: 2000, YesPrice: 0.55, NoPrice: 0.45},
		{MarketRef: "m1", TimestampMs: 1000, YesPrice: 0.38, NoPrice: 0.62},
		{MarketRef: "m2", TimestampMs: 1500, YesPrice: 0.5, NoPrice: 0.5},
	}
	if err := store.InsertBulk(ctx, quotes); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByMarketRef(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByMarketRef failed: %v", err)
	}
	if len(got) != 2 || got[0].TimestampMs != 1000 || got[1].TimestampMs != 2000 {
		t.Errorf("unexpected quote series: %+v", got)
	}
}

func TestPredictionResolutionStore_UpsertAndGet(t *testing.T) {
	store := NewPredictionResolutionStore()
	ctx := context.Background()

	if _, err := store.GetByMarketRef(ctx, "m1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound while unresolved, got %v", err)
	}

	if err := store.Upsert(ctx, &domain.PredictionResolution{MarketRef: "m1", ResolvedAt: 5000, Outcome: domain.ResolutionYes}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.GetByMarketRef(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByMarketRef failed: %v", err)
	}
	if got.Outcome != domain.ResolutionYes {
		t.Errorf("Outcome = %s, want YES", got.Outcome)
	}
}
