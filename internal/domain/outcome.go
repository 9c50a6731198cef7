package domain

// Outcome holds realized performance for one settled signal (1:1 by
// SignalID). Created by the matcher; only ever rewritten by a full,
// idempotent recomputation.
type Outcome struct {
	SignalID  string
	SettledAt int64  // ms; exit bar, resolution or event start time
	ExitKind  string // how the position closed

	// Equity/crypto metrics.
	RealizedReturn  *float64
	BenchmarkReturn *float64
	ExcessReturn    *float64
	RiskAdjusted    *float64 // excess / stddev of account excess in window; set by the aggregator

	// Prediction metrics.
	Brier          *float64
	PnLPerContract *float64

	// Sports metrics.
	CLVPoints *float64

	// Win flag across classes. Nil for a push (and for time exits with
	// exactly zero return), which count in neither side of win rate.
	Won *bool
}

// Exit kind codes.
const (
	ExitKindStopLoss   = "STOP_LOSS"
	ExitKindTarget     = "TARGET"
	ExitKindTimeExit   = "TIME_EXIT"
	ExitKindResolution = "RESOLUTION"
	ExitKindFinalScore = "FINAL_SCORE"
)
