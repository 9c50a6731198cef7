// Package textkit holds shared text normalization and extraction helpers
// used by the signal parsers.
package textkit

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	cashtagRe    = regexp.MustCompile(`\$([A-Z]{1,6})\b`)
	urlRe        = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
)

// Clean collapses whitespace, trims, and normalizes curly quotes so the
// parsers see a stable form of the post text.
func Clean(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	r := strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
	return r.Replace(text)
}

// Cashtags returns all $-prefixed uppercase symbols in order of appearance,
// deduplicated.
func Cashtags(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range cashtagRe.FindAllStringSubmatch(text, -1) {
		tag := m[1]
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

// URLs returns all http(s) URLs in the text.
func URLs(text string) []string {
	return urlRe.FindAllString(text, -1)
}

// ParseNumber parses a numeric token that may carry $, commas, or a %
// suffix. Returns false if the cleaned token is not a number.
func ParseNumber(tok string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(tok)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
