// Package pipeline carries the fixture data set used by demo runs and
// smoke tests: a handful of accounts posting across all four asset
// classes, plus the market data needed to settle their signals.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/idhash"
	"alpha-tracker/internal/storage"
)

const hourMs = int64(60 * 60 * 1000)

// FixtureStores is the subset of stores the fixtures populate.
type FixtureStores struct {
	Accounts    storage.AccountStore
	Posts       storage.PostStore
	Prices      storage.PricePointStore
	Quotes      storage.PredictionQuoteStore
	Resolutions storage.PredictionResolutionStore
	Events      storage.SportsEventStore
	Lines       storage.SportsLineStore
}

// LoadFixtures populates the stores with the demo data set. Posts land
// three days before now so the signals settle on the spot and fall
// inside every leaderboard window. Safe to run twice: entity inserts
// skip duplicates and time-series inserts are idempotent.
func LoadFixtures(ctx context.Context, s FixtureStores, now time.Time) error {
	base := now.UTC().Truncate(time.Hour).Add(-72 * time.Hour).UnixMilli()

	if err := loadPosts(ctx, s.Accounts, s.Posts, base); err != nil {
		return err
	}
	if err := loadPrices(ctx, s.Prices, base); err != nil {
		return err
	}
	if err := loadPredictionData(ctx, s.Quotes, s.Resolutions, base); err != nil {
		return err
	}
	return loadSportsData(ctx, s.Events, s.Lines, base)
}

type fixturePost struct {
	handle   string
	category string
	offset   int64
	text     string
}

func loadPosts(ctx context.Context, accounts storage.AccountStore, posts storage.PostStore, base int64) error {
	fixture := []fixturePost{
		{
			handle:   "stockguru",
			category: domain.CategoryEquity,
			text:     "Loading up on $AAPL here. PT $195, SL $188.",
		},
		{
			handle:   "cryptodegen",
			category: domain.CategoryCrypto,
			text:     "$SOL setup with 3x leverage. TP1 $115, stop $92.",
		},
		{
			handle:   "polywhale",
			category: domain.CategoryPrediction,
			text:     "polymarket.com/event/fed-rate-cut-march trading at 35%, buying yes before FOMC.",
		},
		{
			handle:   "sharpbettor",
			category: domain.CategorySports,
			text:     "Chiefs -3.5 tonight, 5 units. NFL lock of the week.",
		},
		{
			// Routes nowhere; exercised as the dropped-post path.
			handle:   "stockguru",
			category: domain.CategoryEquity,
			offset:   hourMs,
			text:     "Beautiful morning for coffee and a walk.",
		},
	}

	for _, f := range fixture {
		postedAt := base + f.offset
		accountID := idhash.ComputeAccountID("x", f.handle)
		if err := accounts.Upsert(ctx, &domain.Account{
			AccountID: accountID,
			Platform:  "x",
			Handle:    f.handle,
			Category:  f.category,
			CreatedAt: postedAt,
		}); err != nil {
			return fmt.Errorf("fixture account %s: %w", f.handle, err)
		}

		err := posts.Insert(ctx, &domain.Post{
			PostID:    idhash.ComputePostID("x", f.handle, postedAt, f.text),
			AccountID: accountID,
			Platform:  "x",
			Handle:    f.handle,
			PostedAt:  postedAt,
			Text:      f.text,
		})
		if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return fmt.Errorf("fixture post by %s: %w", f.handle, err)
		}
	}
	return nil
}

func loadPrices(ctx context.Context, prices storage.PricePointStore, base int64) error {
	series := map[string][]struct {
		offset int64
		price  float64
	}{
		// AAPL hits the 195 target on the second day.
		"AAPL": {{hourMs, 190}, {24 * hourMs, 192}, {48 * hourMs, 196}},
		"SPY":  {{hourMs, 500}, {24 * hourMs, 502}, {48 * hourMs, 505}},
		// SOL clears TP1 at 115 without touching the 92 stop.
		"SOL-USD": {{hourMs, 100}, {24 * hourMs, 97}, {48 * hourMs, 118}},
		"BTC-USD": {{hourMs, 42000}, {24 * hourMs, 42400}, {48 * hourMs, 43260}},
	}

	var points []*domain.PricePoint
	for instrument, bars := range series {
		for _, b := range bars {
			points = append(points, &domain.PricePoint{
				Instrument:  instrument,
				TimestampMs: base + b.offset,
				Price:       b.price,
				Source:      "fixture",
			})
		}
	}
	if err := prices.InsertBulk(ctx, points); err != nil {
		return fmt.Errorf("fixture prices: %w", err)
	}
	return nil
}

func loadPredictionData(ctx context.Context, quotes storage.PredictionQuoteStore, resolutions storage.PredictionResolutionStore, base int64) error {
	const marketRef = "fed-rate-cut-march"

	err := quotes.InsertBulk(ctx, []*domain.PredictionQuote{
		{MarketRef: marketRef, TimestampMs: base + hourMs, YesPrice: 0.38, NoPrice: 0.62},
		{MarketRef: marketRef, TimestampMs: base + 24*hourMs, YesPrice: 0.55, NoPrice: 0.45},
	})
	if err != nil {
		return fmt.Errorf("fixture quotes: %w", err)
	}

	err = resolutions.Upsert(ctx, &domain.PredictionResolution{
		MarketRef:  marketRef,
		ResolvedAt: base + 60*hourMs,
		Outcome:    domain.ResolutionYes,
	})
	if err != nil {
		return fmt.Errorf("fixture resolution: %w", err)
	}
	return nil
}

func loadSportsData(ctx context.Context, events storage.SportsEventStore, lines storage.SportsLineStore, base int64) error {
	const eventID = "nfl-chiefs-raiders"

	home, away := 27, 20
	err := events.Upsert(ctx, &domain.SportsEvent{
		EventID:   eventID,
		League:    "NFL",
		StartTime: base + 8*hourMs,
		HomeTeam:  "chiefs",
		AwayTeam:  "raiders",
		HomeScore: &home,
		AwayScore: &away,
	})
	if err != nil {
		return fmt.Errorf("fixture event: %w", err)
	}

	open, closing := -3.5, -4.5
	err = lines.InsertBulk(ctx, []*domain.SportsLine{
		{
			EventID:     eventID,
			TimestampMs: base - 2*hourMs,
			LineType:    domain.LineTypeSpread,
			Team:        "chiefs",
			Line:        &open,
		},
		{
			EventID:     eventID,
			TimestampMs: base + 7*hourMs,
			LineType:    domain.LineTypeSpread,
			Team:        "chiefs",
			Line:        &closing,
			IsClosing:   true,
		},
	})
	if err != nil {
		return fmt.Errorf("fixture lines: %w", err)
	}
	return nil
}
