package domain

// LeaderboardEntry is a snapshot of one account's aggregated performance
// over one rolling window. Keyed by (account_id, window_days, start_date,
// end_date); recomputation replaces the row.
type LeaderboardEntry struct {
	AccountID  string
	WindowDays int
	StartDate  string // YYYY-MM-DD, inclusive
	EndDate    string // YYYY-MM-DD, exclusive

	NSignals          int      // settled signals in window
	WinRate           *float64 // wins / (wins + losses), pushes excluded
	MeanExcessReturn  *float64
	RiskAdjusted      *float64 // mean excess / stddev excess; nil below min sample
	MeanBrier         *float64 // lower is better
	MeanCLVPoints     *float64
	MeanPredictionPnL *float64

	// AlphaScore is the mean of the cross-sectional z-scores of the
	// metrics present for this account; nil when no metric qualifies.
	AlphaScore *float64

	ComputedAt int64 // ms
}
