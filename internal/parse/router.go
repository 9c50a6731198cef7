package parse

import (
	"regexp"
	"strings"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/textkit"
)

// Router classifies raw text into an asset class. Resolution order, first
// match wins:
//  1. prediction-market platform link or name
//  2. sport/league keyword plus spread/total/moneyline vocabulary
//  3. cashtag found in the crypto lexicon, or a named crypto mention
//  4. cashtag matching an equity ticker pattern
//
// A cashtag that could be both crypto and equity resolves to crypto only
// when the symbol is in the crypto lexicon.
type Router struct {
	betVocab *regexp.Regexp
}

func NewRouter() *Router {
	return &Router{
		betVocab: regexp.MustCompile(`(?i)([+\-]\d+(?:\.\d)?|\b[ou]\d+(?:\.\d)?\b|\bover\b|\bunder\b|\bml\b|\bmoneyline\b|\bmoney line\b|\bspread\b|\bunits?\b)`),
	}
}

// Route returns the asset class for the text, or false when it carries no
// recognizable signal. Pure function of its input.
func (r *Router) Route(text string) (domain.AssetClass, bool) {
	lower := strings.ToLower(text)

	if r.isPrediction(text, lower) {
		return domain.AssetClassPrediction, true
	}
	if r.isSports(lower) {
		return domain.AssetClassSports, true
	}

	tags := textkit.Cashtags(text)
	for _, tag := range tags {
		if _, ok := cryptoSymbols[tag]; ok {
			return domain.AssetClassCrypto, true
		}
	}
	// Named crypto mentions count even without a cashtag, except names
	// that collide with ordinary English words.
	for name := range cryptoNames {
		if ambiguousCryptoNames[name] {
			continue
		}
		if containsWord(lower, name) {
			return domain.AssetClassCrypto, true
		}
	}
	if len(tags) > 0 {
		return domain.AssetClassEquity, true
	}

	return "", false
}

func (r *Router) isPrediction(text, lower string) bool {
	for _, patterns := range platformPatterns {
		for _, re := range patterns {
			if re.MatchString(text) {
				return true
			}
		}
	}
	for _, word := range platformWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func (r *Router) isSports(lower string) bool {
	if !r.betVocab.MatchString(lower) {
		return false
	}
	for _, words := range leagueKeywords {
		for _, w := range words {
			if containsWord(lower, w) {
				return true
			}
		}
	}
	for _, teams := range leagueTeams {
		for _, team := range teams {
			if strings.Contains(lower, team) {
				return true
			}
		}
	}
	return false
}

// containsWord reports whether lower contains word bounded by non-letters.
// Avoids matching "sol" inside "solution" or "op" inside "open".
func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		leftOK := start == 0 || !isLetter(lower[start-1])
		rightOK := end == len(lower) || !isLetter(lower[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
