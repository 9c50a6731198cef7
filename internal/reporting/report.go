package reporting

import "time"

// Report is the rendered view of the tracker's stored state: ingestion
// totals, per-class settlement stats and one leaderboard table per
// rolling window.
type Report struct {
	// Metadata
	GeneratedAt  time.Time
	AccountCount int
	WindowCount  int

	// Data Summary
	DataSummary DataSummary

	// Per asset class settlement stats (sorted by asset_class)
	ClassBreakdown []ClassBreakdownRow

	// One section per configured window, ascending by window_days
	Windows []WindowSection
}

// DataSummary describes the signal population the report covers.
type DataSummary struct {
	TotalAccounts  int
	TotalSignals   int
	PendingSignals int
	SettledSignals int
	ExpiredSignals int
	DateRangeStart int64 // Unix ms, earliest settled posted_at
	DateRangeEnd   int64 // Unix ms, latest settled posted_at
}

// ClassBreakdownRow aggregates settled outcomes for one asset class.
type ClassBreakdownRow struct {
	AssetClass string
	Settled    int
	Wins       int
	Losses     int
	Pushes     int
	WinRate    *float64 // nil when wins+losses == 0
}

// WindowSection is one leaderboard snapshot table.
type WindowSection struct {
	WindowDays int
	StartDate  string // YYYY-MM-DD, inclusive
	EndDate    string // YYYY-MM-DD, exclusive
	Rows       []LeaderboardRow
}

// LeaderboardRow is one ranked account within a window. Rank is 1-based
// in alpha_score order; accounts without a score keep the ranks after
// every scored account, ordered by account_id.
type LeaderboardRow struct {
	Rank       int
	AccountID  string
	Handle     string // empty if the account row is gone
	WindowDays int
	StartDate  string
	EndDate    string

	NSignals          int
	WinRate           *float64
	MeanExcessReturn  *float64
	RiskAdjusted      *float64
	MeanBrier         *float64
	MeanCLVPoints     *float64
	MeanPredictionPnL *float64
	AlphaScore        *float64
}
