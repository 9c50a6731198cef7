package parse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/textkit"
)

// CryptoParser extracts coin signals: everything the equity parser does
// plus leverage and the spot/perpetual/futures distinction.
type CryptoParser struct{}

func NewCryptoParser() *CryptoParser { return &CryptoParser{} }

func (p *CryptoParser) AssetClass() domain.AssetClass { return domain.AssetClassCrypto }

var leverageRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*x\s*(?:leverage|lev)?\b`)
var perpRe = regexp.MustCompile(`(?i)\b(perp|perpetual)s?\b`)
var futuresRe = regexp.MustCompile(`(?i)\bfutures?\b`)
var spotRe = regexp.MustCompile(`(?i)\bspot\b`)

func (p *CryptoParser) Parse(text string) []*domain.Signal {
	lower := strings.ToLower(text)

	symbols := cryptoMentions(text, lower)
	if len(symbols) == 0 {
		return nil
	}

	side := directionalSide(lower)
	if side == "" {
		side = domain.SideLong
	}
	entry, targets, stop := extractLevels(text)
	leverage := extractLeverage(text)
	tradingType := extractTradingType(lower, leverage != nil)
	conf := extractConfidence(lower)
	horizon := extractHorizon(lower)
	size := extractSize(text)

	var signals []*domain.Signal
	for i, symbol := range symbols {
		payload := &domain.CryptoPayload{
			Leverage:    leverage,
			TradingType: tradingType,
		}
		if i == 0 {
			payload.EntryPrice = entry
			payload.Targets = targets
			payload.StopLoss = stop
		}
		signals = append(signals, &domain.Signal{
			AssetClass: domain.AssetClassCrypto,
			Instrument: symbol + "-USD",
			Side:       side,
			Confidence: conf,
			Size:       size,
			HorizonMs:  horizon,
			Crypto:     payload,
		})
	}
	return signals
}

// cryptoMentions returns the distinct non-stablecoin symbols the text
// mentions, cashtags first, then named mentions, in a stable order.
func cryptoMentions(text, lower string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(symbol string) {
		if !seen[symbol] && !stablecoins[symbol] {
			seen[symbol] = true
			out = append(out, symbol)
		}
	}

	for _, tag := range textkit.Cashtags(text) {
		if _, ok := cryptoSymbols[tag]; ok {
			add(tag)
		}
	}
	// Named mentions resolve in symbol order for determinism.
	for _, symbol := range cryptoSymbolOrder {
		for _, name := range cryptoSymbols[symbol] {
			if containsWord(lower, name) {
				add(symbol)
				break
			}
		}
	}
	return out
}

// Sorted lexicon symbols, built once at init and read-only after.
var cryptoSymbolOrder = func() []string {
	order := make([]string, 0, len(cryptoSymbols))
	for symbol := range cryptoSymbols {
		order = append(order, symbol)
	}
	sort.Strings(order)
	return order
}()

func extractLeverage(text string) *float64 {
	m := leverageRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// extractTradingType defaults to spot; stated leverage implies a
// derivative position.
func extractTradingType(lower string, leveraged bool) string {
	switch {
	case perpRe.MatchString(lower):
		return domain.TradingTypePerpetual
	case futuresRe.MatchString(lower):
		return domain.TradingTypeFutures
	case spotRe.MatchString(lower):
		return domain.TradingTypeSpot
	case leveraged:
		return domain.TradingTypePerpetual
	}
	return domain.TradingTypeSpot
}
