package domain

import "strings"

// PricePoint is one observation in an instrument's price series.
// Corresponds to the price_points ClickHouse table.
type PricePoint struct {
	Instrument  string
	TimestampMs int64
	Price       float64
	Source      string
}

// PredictionQuote is one observation in a prediction market's quote
// series. Corresponds to the prediction_quotes ClickHouse table.
type PredictionQuote struct {
	MarketRef   string
	TimestampMs int64
	YesPrice    float64 // [0,1]
	NoPrice     float64 // [0,1]
}

// ResolutionOutcome is a prediction market's terminal outcome.
type ResolutionOutcome string

const (
	ResolutionYes ResolutionOutcome = "YES"
	ResolutionNo  ResolutionOutcome = "NO"
)

// PredictionResolution records the terminal outcome of a market.
type PredictionResolution struct {
	MarketRef  string
	ResolvedAt int64 // ms
	Outcome    ResolutionOutcome
}

// SportsEvent is a sports match with final scores once known.
type SportsEvent struct {
	EventID   string
	League    string
	StartTime int64 // ms
	HomeTeam  string
	AwayTeam  string
	HomeScore *int // nil until final
	AwayScore *int // nil until final
}

// Final reports whether the event has a final score.
func (e *SportsEvent) Final() bool {
	return e.HomeScore != nil && e.AwayScore != nil
}

// MarginFor returns the signed final margin from team's perspective.
// Team names compare case-insensitively since parsed signals carry them
// lowercased. Second return is false when team played in neither slot or
// scores are not final.
func (e *SportsEvent) MarginFor(team string) (int, bool) {
	if !e.Final() {
		return 0, false
	}
	switch {
	case strings.EqualFold(team, e.HomeTeam):
		return *e.HomeScore - *e.AwayScore, true
	case strings.EqualFold(team, e.AwayTeam):
		return *e.AwayScore - *e.HomeScore, true
	}
	return 0, false
}

// TotalScore returns the combined final score.
func (e *SportsEvent) TotalScore() (int, bool) {
	if !e.Final() {
		return 0, false
	}
	return *e.HomeScore + *e.AwayScore, true
}

// SportsLine is one observation in an event's line/odds series.
// Corresponds to the sports_lines ClickHouse table.
type SportsLine struct {
	EventID     string
	TimestampMs int64
	LineType    LineType
	Team        string   // team the line is quoted for; empty for totals
	Line        *float64 // nil for moneyline
	Odds        *float64 // American odds
	IsClosing   bool
}
