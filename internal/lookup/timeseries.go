// Package lookup answers point-in-time questions against market-data
// series. All series are assumed sorted ascending by timestamp; callers
// normalize on read.
package lookup

import (
	"errors"
	"strings"

	"alpha-tracker/internal/domain"
)

// Errors returned by lookup functions.
var (
	ErrNoPriceData = errors.New("no price data available")
	ErrNoQuoteData = errors.New("no quote data available")
	ErrNoLineData  = errors.New("no line data available")
)

// PriceAt returns the price at or before the target timestamp. If no
// point exists at or before target, the first available price is used.
// Returns ErrNoPriceData if the series is empty.
func PriceAt(target int64, prices []*domain.PricePoint) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrNoPriceData
	}

	for i := len(prices) - 1; i >= 0; i-- {
		if prices[i].TimestampMs <= target {
			return prices[i].Price, nil
		}
	}

	return prices[0].Price, nil
}

// EntryPriceAt returns the price a signal would have entered at: the
// first point at or after the signal time, falling back to the last
// point before it when the series ends earlier.
func EntryPriceAt(target int64, prices []*domain.PricePoint) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrNoPriceData
	}

	for _, p := range prices {
		if p.TimestampMs >= target {
			return p.Price, nil
		}
	}

	return prices[len(prices)-1].Price, nil
}

// QuoteAt returns the quote at or before the target timestamp, or the
// first available quote when the series starts later.
func QuoteAt(target int64, quotes []*domain.PredictionQuote) (*domain.PredictionQuote, error) {
	if len(quotes) == 0 {
		return nil, ErrNoQuoteData
	}

	for i := len(quotes) - 1; i >= 0; i-- {
		if quotes[i].TimestampMs <= target {
			return quotes[i], nil
		}
	}

	return quotes[0], nil
}

// EntryQuoteAt returns the first quote at or after the signal time,
// falling back to the last quote before it.
func EntryQuoteAt(target int64, quotes []*domain.PredictionQuote) (*domain.PredictionQuote, error) {
	if len(quotes) == 0 {
		return nil, ErrNoQuoteData
	}

	for _, q := range quotes {
		if q.TimestampMs >= target {
			return q, nil
		}
	}

	return quotes[len(quotes)-1], nil
}

// ClosingLine returns the flagged closing line for the given line type,
// preferring one quoted for the given team. Returns ErrNoLineData when
// no closing line of that type exists.
func ClosingLine(lines []*domain.SportsLine, lineType domain.LineType, team string) (*domain.SportsLine, error) {
	var fallback *domain.SportsLine
	for _, l := range lines {
		if !l.IsClosing || l.LineType != lineType {
			continue
		}
		if strings.EqualFold(l.Team, team) {
			return l, nil
		}
		if fallback == nil {
			fallback = l
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, ErrNoLineData
}

// SignalLine returns the line of the given type closest at or before the
// signal time, preferring the signal's team. Used when a sports signal
// states no line of its own.
func SignalLine(target int64, lines []*domain.SportsLine, lineType domain.LineType, team string) (*domain.SportsLine, error) {
	var best *domain.SportsLine
	for _, l := range lines {
		if l.LineType != lineType || l.TimestampMs > target {
			continue
		}
		if team != "" && !strings.EqualFold(l.Team, team) {
			continue
		}
		if best == nil || l.TimestampMs > best.TimestampMs {
			best = l
		}
	}
	if best == nil {
		return nil, ErrNoLineData
	}
	return best, nil
}
