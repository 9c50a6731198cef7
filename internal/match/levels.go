package match

import (
	"context"
	"fmt"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/lookup"
)

// matchLevels settles an equity or crypto signal by scanning its price
// path for a stop, target, or time exit, then computing realized return
// against the asset class's benchmark.
func (m *Matcher) matchLevels(ctx context.Context, sig *domain.Signal) (*Result, error) {
	series, err := m.prices.GetByInstrument(ctx, sig.Instrument)
	if err != nil {
		return nil, fmt.Errorf("load prices for %s: %w", sig.Instrument, err)
	}
	if len(series) == 0 {
		return m.verdict(sig, 0), nil
	}

	statedEntry, targets, stop := sig.Levels()

	entry := 0.0
	if statedEntry != nil {
		entry = *statedEntry
	} else {
		entry, err = lookup.EntryPriceAt(sig.PostedAt, series)
		if err != nil {
			return m.verdict(sig, 0), nil
		}
	}
	if entry <= 0 {
		// Unusable entry price; never settleable.
		return m.verdict(sig, 1), nil
	}

	horizonTs := m.horizonTs(sig)
	exit, anomalies, ok := ScanExit(sig.Side, entry, targets, stop, series, sig.PostedAt, horizonTs)
	if !ok {
		return m.verdict(sig, anomalies), nil
	}
	// A time exit only exists once the horizon has elapsed; until then
	// untouched levels leave the signal pending.
	if exit.Kind == domain.ExitKindTimeExit && m.now().UnixMilli() < horizonTs {
		return m.verdict(sig, anomalies), nil
	}

	realized := realizedReturn(sig.Side, entry, exit.Price)
	excess := realized

	var benchmark *float64
	if instrument, okBench := m.cfg.Benchmarks[sig.AssetClass]; okBench {
		if b, bErr := m.benchmarkReturn(ctx, instrument, sig.PostedAt, exit.TimestampMs); bErr == nil {
			benchmark = &b
			excess = realized - b
		}
	}

	outcome := &domain.Outcome{
		SignalID:        sig.SignalID,
		SettledAt:       exit.TimestampMs,
		ExitKind:        exit.Kind,
		RealizedReturn:  &realized,
		BenchmarkReturn: benchmark,
		ExcessReturn:    &excess,
		Won:             winFlag(realized),
	}
	return &Result{Status: domain.SignalStatusSettled, Outcome: outcome, Anomalies: anomalies}, nil
}

// benchmarkReturn computes the long return of the benchmark instrument
// over the same window the signal was held.
func (m *Matcher) benchmarkReturn(ctx context.Context, instrument string, entryTs, exitTs int64) (float64, error) {
	series, err := m.prices.GetByInstrument(ctx, instrument)
	if err != nil {
		return 0, err
	}
	entry, err := lookup.EntryPriceAt(entryTs, series)
	if err != nil {
		return 0, err
	}
	exit, err := lookup.PriceAt(exitTs, series)
	if err != nil {
		return 0, err
	}
	if entry <= 0 {
		return 0, lookup.ErrNoPriceData
	}
	return (exit - entry) / entry, nil
}

// winFlag maps a realized figure to the win flag: nil on exactly zero so
// flat exits count in neither side of win rate.
func winFlag(v float64) *bool {
	if v == 0 {
		return nil
	}
	return ptr(v > 0)
}
