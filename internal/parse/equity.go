package parse

import (
	"strings"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/textkit"
)

// EquityParser extracts stock signals: ticker, side, entry, targets, stop.
type EquityParser struct{}

func NewEquityParser() *EquityParser { return &EquityParser{} }

func (p *EquityParser) AssetClass() domain.AssetClass { return domain.AssetClassEquity }

var longWords = []string{"long", "buy", "bought", "buying", "bullish", "accumulate", "adding", "calls"}
var shortWords = []string{"short", "sell", "sold", "selling", "bearish", "dump", "puts", "fade"}

// Parse emits one signal per distinct ticker mentioned. Multiple targets
// on one ticker stay on one signal as an ordered list; they share one
// entry and side.
func (p *EquityParser) Parse(text string) []*domain.Signal {
	tickers := textkit.Cashtags(text)
	if len(tickers) == 0 {
		return nil
	}

	lower := strings.ToLower(text)
	side := directionalSide(lower)
	entry, targets, stop := extractLevels(text)
	if side == "" {
		// A stated target implies a long thesis for a bare mention.
		if len(targets) == 0 {
			return nil
		}
		side = domain.SideLong
	}

	conf := extractConfidence(lower)
	horizon := extractHorizon(lower)
	size := extractSize(text)

	var signals []*domain.Signal
	for i, ticker := range tickers {
		payload := &domain.EquityPayload{}
		if i == 0 {
			// Price levels bind to the first (primary) ticker only.
			payload.EntryPrice = entry
			payload.Targets = targets
			payload.StopLoss = stop
		}
		signals = append(signals, &domain.Signal{
			AssetClass: domain.AssetClassEquity,
			Instrument: ticker,
			Side:       side,
			Confidence: conf,
			Size:       size,
			HorizonMs:  horizon,
			Equity:     payload,
		})
	}
	return signals
}

// directionalSide scores long vs short vocabulary. Empty when neutral.
func directionalSide(lower string) string {
	longScore, shortScore := 0, 0
	for _, w := range longWords {
		if strings.Contains(lower, w) {
			longScore++
		}
	}
	for _, w := range shortWords {
		if strings.Contains(lower, w) {
			shortScore++
		}
	}
	switch {
	case longScore > shortScore:
		return domain.SideLong
	case shortScore > longScore:
		return domain.SideShort
	}
	return ""
}
