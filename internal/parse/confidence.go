package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultConfidence is the neutral value used when the text carries no
// conviction language.
const DefaultConfidence = 0.5

// confidenceOffset is how far explicit high/low conviction language shifts
// the score from neutral.
const confidenceOffset = 0.25

var statedConfidenceRe = regexp.MustCompile(`(\d+)\s*%\s*(?:confidence|conviction|certain|sure)`)

var strongConviction = []string{
	"high conviction", "strong conviction", "high confidence",
	"definitely", "certainly", "absolutely", "guaranteed",
	"lock", "slam dunk", "sure thing", "max bet", "all in",
	"hammer", "full position",
}

var weakConviction = []string{
	"low conviction", "weak conviction", "low confidence",
	"maybe", "perhaps", "might", "possibly", "risky",
	"starter", "nibble", "small position", "lean",
}

// extractConfidence maps conviction language to a [0,1] score. A stated
// percentage wins; otherwise strong language shifts neutral up and hedging
// language shifts it down by a fixed offset.
func extractConfidence(lower string) float64 {
	if m := statedConfidenceRe.FindStringSubmatch(lower); m != nil {
		pct, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return clamp01(pct / 100)
		}
	}

	conf := DefaultConfidence
	for _, phrase := range strongConviction {
		if strings.Contains(lower, phrase) {
			conf += confidenceOffset
			break
		}
	}
	for _, phrase := range weakConviction {
		if strings.Contains(lower, phrase) {
			conf -= confidenceOffset
			break
		}
	}
	return clamp01(conf)
}

// unitConfidence maps a sports bet's unit size onto the confidence scale.
func unitConfidence(units float64) float64 {
	switch {
	case units >= 3:
		return 0.8
	case units >= 2:
		return 0.65
	case units <= 1:
		return 0.4
	}
	return DefaultConfidence
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
