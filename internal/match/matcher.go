// Package match settles signals against market data. For each signal it
// produces exactly one outcome, leaves it pending when data is missing,
// or expires it when the horizon plus a bounded grace period passes with
// no determinable exit.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"alpha-tracker/internal/config"
	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

// Result is the verdict for one signal.
type Result struct {
	Status    domain.SignalStatus // settled, pending or expired
	Outcome   *domain.Outcome     // non-nil only when settled
	Anomalies int                 // out-of-order market-data points skipped
}

// Matcher joins signals against the market-data stores. It only reads;
// the orchestrator persists outcomes and status transitions.
type Matcher struct {
	cfg         *config.Config
	prices      storage.PricePointStore
	quotes      storage.PredictionQuoteStore
	resolutions storage.PredictionResolutionStore
	events      storage.SportsEventStore
	lines       storage.SportsLineStore
	log         zerolog.Logger

	now func() time.Time
}

func NewMatcher(
	cfg *config.Config,
	prices storage.PricePointStore,
	quotes storage.PredictionQuoteStore,
	resolutions storage.PredictionResolutionStore,
	events storage.SportsEventStore,
	lines storage.SportsLineStore,
	log zerolog.Logger,
) *Matcher {
	return &Matcher{
		cfg:         cfg,
		prices:      prices,
		quotes:      quotes,
		resolutions: resolutions,
		events:      events,
		lines:       lines,
		log:         log,
		now:         time.Now,
	}
}

// Match settles one pending signal. Deterministic for fixed market data:
// rerunning on an already-settled signal reproduces the same outcome.
func (m *Matcher) Match(ctx context.Context, sig *domain.Signal) (*Result, error) {
	switch sig.AssetClass {
	case domain.AssetClassEquity, domain.AssetClassCrypto:
		return m.matchLevels(ctx, sig)
	case domain.AssetClassPrediction:
		return m.matchPrediction(ctx, sig)
	case domain.AssetClassSports:
		return m.matchSports(ctx, sig)
	}
	return nil, fmt.Errorf("match: unknown asset class %q", sig.AssetClass)
}

// horizonTs returns the end of the signal's exit window.
func (m *Matcher) horizonTs(sig *domain.Signal) int64 {
	horizon := m.cfg.DefaultHorizon.Milliseconds()
	if sig.HorizonMs != nil {
		horizon = *sig.HorizonMs
	}
	return sig.PostedAt + horizon
}

// verdict decides pending vs expired for a signal with no determinable
// exit: pending while the horizon plus grace has not passed, expired
// after.
func (m *Matcher) verdict(sig *domain.Signal, anomalies int) *Result {
	expireTs := m.horizonTs(sig) + m.cfg.HorizonGrace.Milliseconds()
	if m.now().UnixMilli() > expireTs {
		return &Result{Status: domain.SignalStatusExpired, Anomalies: anomalies}
	}
	return &Result{Status: domain.SignalStatusPending, Anomalies: anomalies}
}

func ptr[T any](v T) *T { return &v }
