package parse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Price level extraction shared by the equity and crypto parsers.

var entryRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:entry|enter(?:ed)?|bought|longed|shorted)\s*(?:at|@|:|around)?\s*\$?(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(?:buy|long|short)\s+(?:at|@|around)\s+\$?(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)\$?(\d+(?:,\d{3})*(?:\.\d+)?)\s+entry\b`),
}

var targetRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:tp|take\s*profit|target|pt|price\s+target)(?:\s*\d+)?\s*(?:at|@|:|=)?\s*\$?(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)\$?(\d+(?:,\d{3})*(?:\.\d+)?)\s+(?:target|tp|pt)\b`),
}

var stopRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:sl|stop\s*loss|stop)\s*(?:at|@|:|=)?\s*\$?(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(?:risk(?:ing)?|invalidation)\s*(?:to|at|@|:)?\s*\$?(\d+(?:,\d{3})*(?:\.\d+)?)`),
}

// extractLevels pulls entry, targets, and stop from the text. Targets are
// deduplicated and returned in ascending order.
func extractLevels(text string) (entry *float64, targets []float64, stop *float64) {
	for _, re := range entryRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := parsePrice(m[1]); ok {
				entry = &v
				break
			}
		}
	}

	seen := map[float64]bool{}
	for _, re := range targetRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, ok := parsePrice(m[1])
			if ok && !seen[v] {
				seen[v] = true
				targets = append(targets, v)
			}
		}
	}
	sort.Float64s(targets)

	for _, re := range stopRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := parsePrice(m[1]); ok {
				stop = &v
				break
			}
		}
	}

	return entry, targets, stop
}

// Dollar amounts only count as size with position context nearby, so a
// price target like "PT $195" is never read as a bet size.
var sizeDollarRe = regexp.MustCompile(`(?i)(?:size|position|bet|wager|putting|deployed)\D{0,10}\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*([kmb])?\b`)
var sizePctRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*(?:of\s+)?(?:portfolio|account|capital|allocation)`)
var sizeSharesRe = regexp.MustCompile(`(?i)(\d+(?:,\d{3})*)\s+(?:shares?|stocks?)`)

// extractSize pulls a position size: a portfolio fraction, a dollar
// amount, or a share count, in that precedence.
func extractSize(text string) *float64 {
	if m := sizePctRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			frac := v / 100
			return &frac
		}
	}
	if m := sizeDollarRe.FindStringSubmatch(text); m != nil {
		if v, ok := parsePrice(m[1]); ok {
			switch strings.ToLower(m[2]) {
			case "k":
				v *= 1e3
			case "m":
				v *= 1e6
			case "b":
				v *= 1e9
			}
			return &v
		}
	}
	if m := sizeSharesRe.FindStringSubmatch(text); m != nil {
		if v, ok := parsePrice(m[1]); ok {
			return &v
		}
	}
	return nil
}

func parsePrice(tok string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
