package match

import (
	"context"
	"errors"
	"fmt"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/lookup"
	"alpha-tracker/internal/storage"
)

// matchPrediction settles a prediction signal once its market has a
// terminal resolution: per-contract PnL from the entry price paid, and a
// brier score from the stated probability.
func (m *Matcher) matchPrediction(ctx context.Context, sig *domain.Signal) (*Result, error) {
	resolution, err := m.resolutions.GetByMarketRef(ctx, sig.MarketRef)
	if errors.Is(err, storage.ErrNotFound) {
		return m.verdict(sig, 0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load resolution for %s: %w", sig.MarketRef, err)
	}

	outcome01 := 0.0
	if resolution.Outcome == domain.ResolutionYes {
		outcome01 = 1.0
	}

	entryPrice, ok := m.predictionEntryPrice(ctx, sig)
	if !ok {
		return m.verdict(sig, 0), nil
	}

	// PnL of one contract on the chosen side: the side's payout (0 or 1)
	// minus the side's entry price.
	sidePayout := outcome01
	if sig.Side == domain.SideNo {
		sidePayout = 1 - outcome01
	}
	pnl := sidePayout - entryPrice

	// Brier compares the stated YES probability with the YES outcome;
	// without one, the entry price stands in as the implied probability.
	pYes := entryPrice
	if sig.Side == domain.SideNo {
		pYes = 1 - entryPrice
	}
	if sig.Prediction != nil && sig.Prediction.Probability != nil {
		pYes = *sig.Prediction.Probability
	}
	brier := (pYes - outcome01) * (pYes - outcome01)

	result := &domain.Outcome{
		SignalID:       sig.SignalID,
		SettledAt:      resolution.ResolvedAt,
		ExitKind:       domain.ExitKindResolution,
		PnLPerContract: &pnl,
		Brier:          &brier,
		Won:            winFlag(pnl),
	}
	return &Result{Status: domain.SignalStatusSettled, Outcome: result}, nil
}

// predictionEntryPrice returns the price paid per contract on the chosen
// side: the quoted side price at signal time, else the stated probability
// adjusted to the side.
func (m *Matcher) predictionEntryPrice(ctx context.Context, sig *domain.Signal) (float64, bool) {
	quotes, err := m.quotes.GetByMarketRef(ctx, sig.MarketRef)
	if err == nil && len(quotes) > 0 {
		q, qErr := lookup.EntryQuoteAt(sig.PostedAt, quotes)
		if qErr == nil {
			if sig.Side == domain.SideNo {
				return q.NoPrice, true
			}
			return q.YesPrice, true
		}
	}

	if sig.Prediction != nil && sig.Prediction.Probability != nil {
		p := *sig.Prediction.Probability
		if sig.Side == domain.SideNo {
			p = 1 - p
		}
		return p, true
	}

	return 0, false
}
