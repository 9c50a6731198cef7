package match

import (
	"math"

	"alpha-tracker/internal/domain"
)

// exitState tracks the position state machine while scanning the price
// path: open until a stop, target, or the horizon closes it.
type exitState int

const (
	stateOpen exitState = iota
	stateStopped
	stateTargeted
	stateTimeExited
)

// ExitResult describes how and when a position closed.
type ExitResult struct {
	Price       float64
	TimestampMs int64
	Kind        string // STOP_LOSS, TARGET or TIME_EXIT
}

// ScanExit walks the price series chronologically between the signal time
// (exclusive) and the horizon (inclusive) and returns the first exit the
// path produces:
//
//   - a bar touching the stop closes at the stop price, checked before
//     targets so a bar touching both resolves to the stop
//   - a bar touching one or more targets closes at the touched target
//     nearest to the entry price
//   - no touch by the horizon closes at the last in-range price
//
// Out-of-order bars are skipped and counted in anomalies. Returns false
// when no bar in range exists, leaving the signal pending or expired.
func ScanExit(side string, entry float64, targets []float64, stop *float64, points []*domain.PricePoint, signalTs, horizonTs int64) (ExitResult, int, bool) {
	state := stateOpen
	var result ExitResult
	var last *domain.PricePoint
	anomalies := 0
	prevTs := int64(math.MinInt64)

	for _, p := range points {
		if p.TimestampMs < prevTs {
			anomalies++
			continue
		}
		prevTs = p.TimestampMs

		if p.TimestampMs <= signalTs || p.TimestampMs > horizonTs {
			continue
		}
		last = p

		if stop != nil && stopTouched(side, p.Price, *stop) {
			state = stateStopped
			result = ExitResult{Price: *stop, TimestampMs: p.TimestampMs, Kind: domain.ExitKindStopLoss}
			break
		}
		if t, ok := touchedTarget(side, entry, p.Price, targets); ok {
			state = stateTargeted
			result = ExitResult{Price: t, TimestampMs: p.TimestampMs, Kind: domain.ExitKindTarget}
			break
		}
	}

	if state == stateOpen {
		if last == nil {
			return ExitResult{}, anomalies, false
		}
		result = ExitResult{Price: last.Price, TimestampMs: last.TimestampMs, Kind: domain.ExitKindTimeExit}
	}

	return result, anomalies, true
}

func stopTouched(side string, price, stop float64) bool {
	if side == domain.SideShort {
		return price >= stop
	}
	return price <= stop
}

// touchedTarget returns the touched target nearest to entry, when any
// target is touched by the bar.
func touchedTarget(side string, entry, price float64, targets []float64) (float64, bool) {
	best := 0.0
	found := false
	for _, t := range targets {
		touched := price >= t
		if side == domain.SideShort {
			touched = price <= t
		}
		if !touched {
			continue
		}
		if !found || math.Abs(t-entry) < math.Abs(best-entry) {
			best = t
			found = true
		}
	}
	return best, found
}

// realizedReturn computes (exit − entry) / entry, sign-inverted for
// shorts.
func realizedReturn(side string, entry, exit float64) float64 {
	r := (exit - entry) / entry
	if side == domain.SideShort {
		return -r
	}
	return r
}
