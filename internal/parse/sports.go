package parse

import (
	"regexp"
	"strconv"
	"strings"

	"alpha-tracker/internal/domain"
)

// SportsParser extracts betting signals: league, team, line type, line,
// American odds, and unit size.
type SportsParser struct{}

func NewSportsParser() *SportsParser { return &SportsParser{} }

func (p *SportsParser) AssetClass() domain.AssetClass { return domain.AssetClassSports }

var (
	spreadRe = regexp.MustCompile(`([+\-]\d+(?:\.\d)?)\b`)
	totalRe  = regexp.MustCompile(`(?i)\b[ou](\d{2,3}(?:\.\d)?)\b`)
	overRe   = regexp.MustCompile(`(?i)\b(over|under)\s+(\d+(?:\.\d)?)`)
	oddsRe   = regexp.MustCompile(`([+\-]\d{3,4})\b`)
	unitsRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d)?)\s*u(?:nits?)?\b`)
	underTRe = regexp.MustCompile(`(?i)\bu\d`)
	abbrevRe = regexp.MustCompile(`\b([A-Z]{2,4})\b`)
)

var moneylineWords = []string{"ml", "moneyline", "money line"}

func (p *SportsParser) Parse(text string) []*domain.Signal {
	lower := strings.ToLower(text)

	league := detectLeague(lower)
	if league == "" {
		return nil
	}

	lineType, line, odds := extractLine(text, lower)
	if lineType == "" {
		return nil
	}

	team := extractTeam(text, lower)
	units := extractUnits(text)

	side := team
	if lineType == domain.LineTypeTotal {
		if strings.Contains(lower, "under") || underTRe.MatchString(text) {
			side = domain.SideUnder
		} else {
			side = domain.SideOver
		}
	}
	if side == "" {
		return nil
	}

	conf := DefaultConfidence
	if units != nil {
		conf = unitConfidence(*units)
	} else if c := extractConfidence(lower); c != DefaultConfidence {
		conf = c
	}

	return []*domain.Signal{{
		AssetClass: domain.AssetClassSports,
		Side:       side,
		Confidence: conf,
		Size:       units,
		HorizonMs:  extractHorizon(lower),
		Sports: &domain.SportsPayload{
			League:   league,
			Team:     team,
			LineType: lineType,
			Line:     line,
			Odds:     odds,
		},
	}}
}

func detectLeague(lower string) string {
	for league, words := range leagueKeywords {
		for _, w := range words {
			if containsWord(lower, w) {
				return league
			}
		}
	}
	for league, teams := range leagueTeams {
		for _, team := range teams {
			if strings.Contains(lower, team) {
				return league
			}
		}
	}
	return ""
}

// extractLine determines the bet type, line value, and odds. Spreads and
// odds overlap syntactically: a 3-4 digit signed number is read as odds,
// a shorter one as a spread.
func extractLine(text, lower string) (domain.LineType, *float64, *float64) {
	var odds *float64
	if m := oddsRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			odds = &v
		}
	}

	if m := overRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			return domain.LineTypeTotal, &v, odds
		}
	}
	if m := totalRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return domain.LineTypeTotal, &v, odds
		}
	}

	for _, m := range spreadRe.FindAllStringSubmatch(text, -1) {
		if odds != nil && m[1] == strconv.FormatFloat(*odds, 'f', -1, 64) {
			continue
		}
		if oddsRe.MatchString(m[1]) {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return domain.LineTypeSpread, &v, odds
		}
	}

	for _, w := range moneylineWords {
		if containsWord(lower, w) {
			return domain.LineTypeMoneyline, nil, odds
		}
	}
	if odds != nil {
		return domain.LineTypeMoneyline, nil, odds
	}

	return "", nil, nil
}

// extractTeam prefers a known team name, lowercased as the canonical form,
// then falls back to an uppercase abbreviation.
func extractTeam(text, lower string) string {
	for _, teams := range leagueTeams {
		for _, team := range teams {
			if strings.Contains(lower, team) {
				return team
			}
		}
	}
	if m := abbrevRe.FindStringSubmatch(text); m != nil {
		if !excludedTickers[m[1]] {
			return strings.ToLower(m[1])
		}
	}
	return ""
}

func extractUnits(text string) *float64 {
	m := unitsRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}
