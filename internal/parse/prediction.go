package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/idhash"
)

// PredictionParser extracts prediction-market signals: platform, market
// reference, YES/NO side, stated probability, and bet size.
type PredictionParser struct{}

func NewPredictionParser() *PredictionParser { return &PredictionParser{} }

func (p *PredictionParser) AssetClass() domain.AssetClass { return domain.AssetClassPrediction }

var probRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*(?:chance|probability|likely|odds|prob)`),
	regexp.MustCompile(`(?i)(?:probability|chance|odds|prob)\s*(?:is|at|of)?\s*(\d+(?:\.\d+)?)\s*%`),
	regexp.MustCompile(`(?i)(?:i\s+(?:think|believe|estimate))\s*(\d+(?:\.\d+)?)\s*%`),
	regexp.MustCompile(`(?i)(?:market\s+(?:is|at))\s*(\d+(?:\.\d+)?)\s*%`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%`),
}

var centsPriceRe = regexp.MustCompile(`(?i)(?:at|@|trading\s+at)\s*(\d+(?:\.\d+)?)\s*[c¢]\b`)

var yesWords = []string{"buy yes", "long yes", "buying yes", "yes", "will happen", "agree"}
var noWords = []string{"buy no", "long no", "buying no", "won't happen", "disagree", "fade", "no"}

var contractsRe = regexp.MustCompile(`(?i)(\d+(?:,\d{3})*)\s*(?:shares?|contracts?)`)
var betSizeRe = regexp.MustCompile(`(?i)(?:\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:on|in|position|bet)|(?:bet|wager|position)\s*(?:of|size)?\s*\$(\d+(?:,\d{3})*(?:\.\d+)?))`)

func (p *PredictionParser) Parse(text string) []*domain.Signal {
	lower := strings.ToLower(text)

	refs := extractMarketRefs(text)
	if len(refs) == 0 {
		if !mentionsPlatform(lower) && !strings.Contains(lower, "prediction") {
			return nil
		}
		// A named platform without a link still identifies a market;
		// derive a stable reference from the text itself.
		refs = []marketRef{{Ref: "inferred-" + idhash.ComputeTextRef(lower), Platform: inferPlatform(lower)}}
	}

	prob := extractProbability(text, lower)
	side := extractPosition(lower)
	if side == "" {
		if prob == nil {
			return nil
		}
		if *prob > 0.5 {
			side = domain.SideYes
		} else {
			side = domain.SideNo
		}
	}

	// Confidence is the stated probability of the chosen side when given.
	conf := extractConfidence(lower)
	if prob != nil {
		if side == domain.SideYes {
			conf = clamp01(*prob)
		} else {
			conf = clamp01(1 - *prob)
		}
	}

	size, contracts := extractBetSize(text)
	horizon := extractHorizon(lower)

	var signals []*domain.Signal
	for _, ref := range refs {
		signals = append(signals, &domain.Signal{
			AssetClass: domain.AssetClassPrediction,
			MarketRef:  ref.Ref,
			Side:       side,
			Confidence: conf,
			Size:       size,
			HorizonMs:  horizon,
			Prediction: &domain.PredictionPayload{
				Platform:    ref.Platform,
				Probability: prob,
				Contracts:   contracts,
			},
		})
	}
	return signals
}

type marketRef struct {
	Ref      string
	Platform string
}

// extractMarketRefs finds every linked market, deduplicated, in a stable
// platform order.
func extractMarketRefs(text string) []marketRef {
	var out []marketRef
	seen := map[string]bool{}
	for _, platform := range platformWords {
		for _, re := range platformPatterns[platform] {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				ref := m[1]
				if len(m) > 2 && m[2] != "" {
					ref = fmt.Sprintf("%s/%s", m[1], m[2])
				}
				if !seen[ref] {
					seen[ref] = true
					out = append(out, marketRef{Ref: ref, Platform: platform})
				}
			}
		}
	}
	return out
}

func mentionsPlatform(lower string) bool {
	for _, w := range platformWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func inferPlatform(lower string) string {
	for _, w := range platformWords {
		if strings.Contains(lower, w) {
			return w
		}
	}
	return ""
}

// extractPosition scores YES vs NO vocabulary; explicit market language
// like "buy yes" outweighs bare words.
func extractPosition(lower string) string {
	yesScore, noScore := 0, 0
	for _, w := range yesWords {
		if containsWord(lower, w) {
			yesScore++
			if strings.Contains(w, "yes") && w != "yes" {
				yesScore += 2
			}
		}
	}
	for _, w := range noWords {
		if containsWord(lower, w) {
			noScore++
			if strings.Contains(w, "no") && w != "no" {
				noScore += 2
			}
		}
	}
	switch {
	case yesScore > noScore:
		return domain.SideYes
	case noScore > yesScore:
		return domain.SideNo
	}
	return ""
}

// extractProbability returns a stated probability in [0,1]: an explicit
// percentage, a cents price, or a qualitative phrase.
func extractProbability(text, lower string) *float64 {
	for _, re := range probRes {
		if m := re.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if v > 1 {
				v /= 100
			}
			v = clamp01(v)
			return &v
		}
	}
	if m := centsPriceRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			v = clamp01(v / 100)
			return &v
		}
	}
	for _, q := range qualitativeProbability {
		if strings.Contains(lower, q.Phrase) {
			v := q.Prob
			return &v
		}
	}
	return nil
}

func extractBetSize(text string) (size, contracts *float64) {
	if m := contractsRe.FindStringSubmatch(text); m != nil {
		if v, ok := parsePrice(m[1]); ok {
			contracts = &v
		}
	}
	if m := betSizeRe.FindStringSubmatch(text); m != nil {
		tok := m[1]
		if tok == "" {
			tok = m[2]
		}
		if v, ok := parsePrice(tok); ok {
			size = &v
		}
	}
	// Contracts without a dollar size imply a size at the 50c midpoint.
	if size == nil && contracts != nil {
		v := *contracts * 0.50
		size = &v
	}
	return size, contracts
}
