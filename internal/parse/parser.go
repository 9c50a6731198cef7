// Package parse turns free-form post text into draft signals. A router
// picks the asset class first, then the matching parser extracts the
// structured fields. Parsers never return errors: text they cannot read
// yields zero drafts.
package parse

import (
	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/textkit"
)

// Parser extracts draft signals for one asset class. Drafts carry the
// asset class, instrument or market reference, side, confidence, and the
// class payload; the caller fills in post identity and lifecycle fields.
type Parser interface {
	AssetClass() domain.AssetClass
	// Parse returns zero or more draft signals. Parsing the same text
	// twice yields structurally identical drafts.
	Parse(text string) []*domain.Signal
}

// Registry routes text to the right parser and runs it.
type Registry struct {
	router  *Router
	parsers map[domain.AssetClass]Parser
}

// NewRegistry wires the default parser set behind the default router.
func NewRegistry() *Registry {
	r := &Registry{
		router:  NewRouter(),
		parsers: make(map[domain.AssetClass]Parser),
	}
	for _, p := range []Parser{
		NewEquityParser(),
		NewCryptoParser(),
		NewPredictionParser(),
		NewSportsParser(),
	} {
		r.parsers[p.AssetClass()] = p
	}
	return r
}

// Parse routes the text and runs the selected parser. Returns the routed
// class and the drafts; (false, nil) when the text carries no signal.
func (r *Registry) Parse(text string) (domain.AssetClass, []*domain.Signal, bool) {
	cleaned := textkit.Clean(text)
	class, ok := r.router.Route(cleaned)
	if !ok {
		return "", nil, false
	}
	p := r.parsers[class]
	if p == nil {
		return class, nil, true
	}
	return class, p.Parse(cleaned), true
}
