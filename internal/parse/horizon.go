package parse

import "regexp"

// Horizon buckets in milliseconds.
const (
	horizonScalp   = int64(15 * 60 * 1000)
	horizonDay     = int64(24 * 60 * 60 * 1000)
	horizonWeek    = 7 * horizonDay
	horizonMonth   = 30 * horizonDay
	horizonQuarter = 90 * horizonDay
	horizonYear    = 365 * horizonDay
)

// horizonBuckets map timeframe language to a horizon. First match wins, so
// more specific phrases come first.
var horizonBuckets = []struct {
	re *regexp.Regexp
	ms int64
}{
	{regexp.MustCompile(`(?:scalp|\b1m\b|\b5m\b|\b15m\b)`), horizonScalp},
	{regexp.MustCompile(`(?:day\s*trade|intraday|today)`), horizonDay},
	{regexp.MustCompile(`(?:by|before|until)\s+(?:eod|close)`), horizonDay},
	{regexp.MustCompile(`(?:swing|this\s+week|weekly|\b1w\b)`), horizonWeek},
	{regexp.MustCompile(`(?:monthly|\b30\s*d(?:ays?)?\b)`), horizonMonth},
	{regexp.MustCompile(`(?:quarterly|\b90\s*d(?:ays?)?\b|\b3\s*months?\b)`), horizonQuarter},
	{regexp.MustCompile(`(?:long\s*term|yearly|annual|hodl|\b12\s*months?\b)`), horizonYear},
	{regexp.MustCompile(`(?:resolves?|settles?|closes?)\s+today`), horizonDay},
	{regexp.MustCompile(`(?:resolves?|settles?|closes?)\s+(?:this\s+)?week`), horizonWeek},
	{regexp.MustCompile(`(?:resolves?|settles?|closes?)\s+(?:this\s+)?month`), horizonMonth},
}

// extractHorizon returns the horizon bucket implied by timeframe language,
// or nil when none is stated.
func extractHorizon(lower string) *int64 {
	for _, b := range horizonBuckets {
		if b.re.MatchString(lower) {
			ms := b.ms
			return &ms
		}
	}
	return nil
}
