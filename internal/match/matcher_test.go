package match

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"alpha-tracker/internal/config"
	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage/memory"
)

func testConfig() *config.Config {
	return &config.Config{
		Benchmarks: map[domain.AssetClass]string{
			domain.AssetClassEquity: "SPY",
			domain.AssetClassCrypto: "BTC-USD",
		},
		DefaultHorizon: 7 * 24 * time.Hour,
		HorizonGrace:   72 * time.Hour,
	}
}

func testMatcher(t *testing.T, stores *memory.Stores) *Matcher {
	t.Helper()
	m := NewMatcher(
		testConfig(),
		stores.Prices,
		stores.Quotes,
		stores.Resolutions,
		stores.Events,
		stores.Lines,
		zerolog.Nop(),
	)
	return m
}

func insertPrices(t *testing.T, stores *memory.Stores, instrument string, pairs ...float64) {
	t.Helper()
	var points []*domain.PricePoint
	for i := 0; i+1 < len(pairs); i += 2 {
		points = append(points, &domain.PricePoint{
			Instrument:  instrument,
			TimestampMs: int64(pairs[i]),
			Price:       pairs[i+1],
		})
	}
	if err := stores.Prices.InsertBulk(context.Background(), points); err != nil {
		t.Fatalf("insert prices: %v", err)
	}
}

func equitySignal(entry *float64, targets []float64, stop *float64) *domain.Signal {
	h := int64(10000)
	return &domain.Signal{
		SignalID:   "sig-1",
		PostID:     "post-1",
		AccountID:  "acct-1",
		AssetClass: domain.AssetClassEquity,
		Instrument: "AAPL",
		Side:       domain.SideLong,
		Confidence: 0.5,
		PostedAt:   500,
		HorizonMs:  &h,
		Status:     domain.SignalStatusPending,
		Equity:     &domain.EquityPayload{EntryPrice: entry, Targets: targets, StopLoss: stop},
	}
}

func TestMatch_EquityTargetWithBenchmark(t *testing.T) {
	stores := memory.NewStores()
	insertPrices(t, stores, "AAPL", 1000, 100, 2000, 105, 3000, 111)
	insertPrices(t, stores, "SPY", 1000, 500, 3000, 510)
	m := testMatcher(t, stores)

	entry, stop := 100.0, 95.0
	sig := equitySignal(&entry, []float64{110}, &stop)

	res, err := m.Match(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusSettled {
		t.Fatalf("expected settled, got %s", res.Status)
	}

	o := res.Outcome
	if o.ExitKind != domain.ExitKindTarget {
		t.Errorf("expected target exit, got %s", o.ExitKind)
	}
	if o.RealizedReturn == nil || math.Abs(*o.RealizedReturn-0.10) > 1e-12 {
		t.Errorf("expected realized 0.10, got %v", o.RealizedReturn)
	}
	// SPY moved 500 -> 510 over the same window.
	if o.BenchmarkReturn == nil || math.Abs(*o.BenchmarkReturn-0.02) > 1e-12 {
		t.Errorf("expected benchmark 0.02, got %v", o.BenchmarkReturn)
	}
	if o.ExcessReturn == nil || math.Abs(*o.ExcessReturn-0.08) > 1e-12 {
		t.Errorf("expected excess 0.08, got %v", o.ExcessReturn)
	}
	if o.Won == nil || !*o.Won {
		t.Errorf("expected a win, got %v", o.Won)
	}
}

func TestMatch_EquityMissingBenchmarkStillSettles(t *testing.T) {
	stores := memory.NewStores()
	insertPrices(t, stores, "AAPL", 1000, 100, 3000, 90)
	m := testMatcher(t, stores)

	entry := 100.0
	sig := equitySignal(&entry, nil, nil)

	res, err := m.Match(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusSettled {
		t.Fatalf("expected settled, got %s", res.Status)
	}

	o := res.Outcome
	if o.BenchmarkReturn != nil {
		t.Errorf("expected nil benchmark, got %v", o.BenchmarkReturn)
	}
	// Excess falls back to the raw realized return.
	if o.ExcessReturn == nil || math.Abs(*o.ExcessReturn+0.10) > 1e-12 {
		t.Errorf("expected excess -0.10, got %v", o.ExcessReturn)
	}
	if o.Won == nil || *o.Won {
		t.Errorf("expected a loss, got %v", o.Won)
	}
}

func TestMatch_PendingThenExpired(t *testing.T) {
	stores := memory.NewStores()
	m := testMatcher(t, stores)

	sig := equitySignal(nil, nil, nil) // no market data at all

	m.now = func() time.Time { return time.UnixMilli(5000) }
	res, err := m.Match(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusPending {
		t.Fatalf("expected pending before grace runs out, got %s", res.Status)
	}

	// Horizon 10000 plus 72h grace, now far beyond it.
	m.now = func() time.Time { return time.UnixMilli(10000 + 73*3600*1000) }
	res, err = m.Match(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusExpired {
		t.Fatalf("expected expired after grace, got %s", res.Status)
	}
	if res.Outcome != nil {
		t.Error("expired signals must not produce an outcome")
	}
}

func TestMatch_LevelsUntouchedInsideHorizonStaysPending(t *testing.T) {
	stores := memory.NewStores()
	// Bars after the post, none touching the 110 target or the 95 stop.
	insertPrices(t, stores, "AAPL", 1000, 100, 3000, 102)
	m := testMatcher(t, stores)

	entry := 100.0
	stop := 95.0
	sig := equitySignal(&entry, []float64{110}, &stop)

	// Horizon ends at 10500; the clock is still well inside it.
	m.now = func() time.Time { return time.UnixMilli(4000) }
	res, err := m.Match(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusPending {
		t.Fatalf("expected pending while the horizon is open, got %s", res.Status)
	}
	if res.Outcome != nil {
		t.Fatalf("pending signals must not produce an outcome, got %+v", res.Outcome)
	}

	// Once the horizon has elapsed the same bars settle as a time exit.
	m.now = func() time.Time { return time.UnixMilli(11000) }
	res, err = m.Match(context.Background(), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusSettled {
		t.Fatalf("expected settled after the horizon, got %s", res.Status)
	}
	if res.Outcome.ExitKind != domain.ExitKindTimeExit {
		t.Errorf("expected %s, got %s", domain.ExitKindTimeExit, res.Outcome.ExitKind)
	}
	if res.Outcome.SettledAt != 3000 {
		t.Errorf("expected exit at the last in-horizon bar, got %d", res.Outcome.SettledAt)
	}
}

func predictionSignal(side string, prob *float64) *domain.Signal {
	return &domain.Signal{
		SignalID:   "sig-p",
		PostID:     "post-p",
		AccountID:  "acct-1",
		AssetClass: domain.AssetClassPrediction,
		MarketRef:  "fed-cuts-march",
		Side:       side,
		Confidence: 0.5,
		PostedAt:   1000,
		Status:     domain.SignalStatusPending,
		Prediction: &domain.PredictionPayload{Platform: "polymarket", Probability: prob},
	}
}

func TestMatch_PredictionYesResolvedYes(t *testing.T) {
	stores := memory.NewStores()
	ctx := context.Background()

	stores.Quotes.InsertBulk(ctx, []*domain.PredictionQuote{
		{MarketRef: "fed-cuts-march", TimestampMs: 1500, YesPrice: 0.40, NoPrice: 0.60},
	})
	stores.Resolutions.Upsert(ctx, &domain.PredictionResolution{
		MarketRef: "fed-cuts-march", ResolvedAt: 90000, Outcome: domain.ResolutionYes,
	})
	m := testMatcher(t, stores)

	prob := 0.35
	res, err := m.Match(ctx, predictionSignal(domain.SideYes, &prob))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusSettled {
		t.Fatalf("expected settled, got %s", res.Status)
	}

	o := res.Outcome
	if o.PnLPerContract == nil || math.Abs(*o.PnLPerContract-0.60) > 1e-12 {
		t.Errorf("expected pnl 0.60, got %v", o.PnLPerContract)
	}
	// Brier against the stated 35% with a YES outcome.
	if o.Brier == nil || math.Abs(*o.Brier-0.4225) > 1e-12 {
		t.Errorf("expected brier 0.4225, got %v", o.Brier)
	}
	if o.Won == nil || !*o.Won {
		t.Errorf("expected a win, got %v", o.Won)
	}
	if o.SettledAt != 90000 {
		t.Errorf("expected settled at resolution time, got %d", o.SettledAt)
	}
}

func TestMatch_PredictionNoSideLoses(t *testing.T) {
	stores := memory.NewStores()
	ctx := context.Background()

	stores.Quotes.InsertBulk(ctx, []*domain.PredictionQuote{
		{MarketRef: "fed-cuts-march", TimestampMs: 1500, YesPrice: 0.40, NoPrice: 0.60},
	})
	stores.Resolutions.Upsert(ctx, &domain.PredictionResolution{
		MarketRef: "fed-cuts-march", ResolvedAt: 90000, Outcome: domain.ResolutionYes,
	})
	m := testMatcher(t, stores)

	res, err := m.Match(ctx, predictionSignal(domain.SideNo, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o := res.Outcome
	// NO side paid 0.60 and the market resolved YES.
	if o.PnLPerContract == nil || math.Abs(*o.PnLPerContract+0.60) > 1e-12 {
		t.Errorf("expected pnl -0.60, got %v", o.PnLPerContract)
	}
	if o.Won == nil || *o.Won {
		t.Errorf("expected a loss, got %v", o.Won)
	}
}

func TestMatch_PredictionUnresolvedStaysPending(t *testing.T) {
	stores := memory.NewStores()
	m := testMatcher(t, stores)
	m.now = func() time.Time { return time.UnixMilli(2000) }

	res, err := m.Match(context.Background(), predictionSignal(domain.SideYes, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusPending {
		t.Fatalf("expected pending without a resolution, got %s", res.Status)
	}
}

func sportsSignal(lineType domain.LineType, team string, line, odds *float64, side string) *domain.Signal {
	return &domain.Signal{
		SignalID:   "sig-s",
		PostID:     "post-s",
		AccountID:  "acct-1",
		AssetClass: domain.AssetClassSports,
		Side:       side,
		Confidence: 0.5,
		PostedAt:   1000,
		Status:     domain.SignalStatusPending,
		Sports: &domain.SportsPayload{
			League:   "NFL",
			Team:     team,
			LineType: lineType,
			Line:     line,
			Odds:     odds,
		},
	}
}

func insertChiefsGame(t *testing.T, stores *memory.Stores, home, away int) {
	t.Helper()
	err := stores.Events.Upsert(context.Background(), &domain.SportsEvent{
		EventID:   "nfl-1",
		League:    "NFL",
		StartTime: 50000,
		HomeTeam:  "chiefs",
		AwayTeam:  "bills",
		HomeScore: &home,
		AwayScore: &away,
	})
	if err != nil {
		t.Fatalf("insert event: %v", err)
	}
}

func TestMatch_SportsSpreadWinAndCLV(t *testing.T) {
	stores := memory.NewStores()
	ctx := context.Background()
	insertChiefsGame(t, stores, 27, 20) // chiefs by 7

	lineAt := func(ts int64, v float64, closing bool) *domain.SportsLine {
		return &domain.SportsLine{
			EventID: "nfl-1", TimestampMs: ts, LineType: domain.LineTypeSpread,
			Team: "chiefs", Line: &v, IsClosing: closing,
		}
	}
	stores.Lines.InsertBulk(ctx, []*domain.SportsLine{
		lineAt(500, -3.0, false),
		lineAt(40000, -3.5, true),
	})
	m := testMatcher(t, stores)

	line := -3.0
	res, err := m.Match(ctx, sportsSignal(domain.LineTypeSpread, "chiefs", &line, nil, "chiefs"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusSettled {
		t.Fatalf("expected settled, got %s", res.Status)
	}

	o := res.Outcome
	if o.Won == nil || !*o.Won {
		t.Errorf("chiefs -3 covers a 7 point win, got %v", o.Won)
	}
	// Bettor took -3, market closed -3.5: half a point of CLV.
	if o.CLVPoints == nil || math.Abs(*o.CLVPoints-0.5) > 1e-12 {
		t.Errorf("expected CLV +0.5, got %v", o.CLVPoints)
	}
	if o.ExitKind != domain.ExitKindFinalScore {
		t.Errorf("expected final score exit, got %s", o.ExitKind)
	}
}

func TestMatch_SportsSpreadPush(t *testing.T) {
	stores := memory.NewStores()
	insertChiefsGame(t, stores, 23, 20) // chiefs by exactly 3
	m := testMatcher(t, stores)

	line := -3.0
	res, err := m.Match(context.Background(), sportsSignal(domain.LineTypeSpread, "chiefs", &line, nil, "chiefs"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusSettled {
		t.Fatalf("push still settles, got %s", res.Status)
	}
	if res.Outcome.Won != nil {
		t.Errorf("push must record won = nil, got %v", *res.Outcome.Won)
	}
}

func TestMatch_SportsTotalUnder(t *testing.T) {
	stores := memory.NewStores()
	insertChiefsGame(t, stores, 20, 17) // total 37
	m := testMatcher(t, stores)

	line := 44.5
	res, err := m.Match(context.Background(), sportsSignal(domain.LineTypeTotal, "chiefs", &line, nil, domain.SideUnder))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome.Won == nil || !*res.Outcome.Won {
		t.Errorf("under 44.5 on a 37 point game wins, got %v", res.Outcome.Won)
	}
}

func TestMatch_SportsNoFinalScoreStaysPending(t *testing.T) {
	stores := memory.NewStores()
	err := stores.Events.Upsert(context.Background(), &domain.SportsEvent{
		EventID: "nfl-1", League: "NFL", StartTime: 50000,
		HomeTeam: "chiefs", AwayTeam: "bills",
	})
	if err != nil {
		t.Fatalf("insert event: %v", err)
	}
	m := testMatcher(t, stores)
	m.now = func() time.Time { return time.UnixMilli(60000) }

	line := -3.0
	res, err := m.Match(context.Background(), sportsSignal(domain.LineTypeSpread, "chiefs", &line, nil, "chiefs"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != domain.SignalStatusPending {
		t.Fatalf("expected pending before the final score, got %s", res.Status)
	}
}
