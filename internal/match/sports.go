package match

import (
	"context"
	"fmt"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/lookup"
)

// eventSearchBackMs is how far before the post an event may have started
// and still be the game the signal refers to.
const eventSearchBackMs = int64(6 * 60 * 60 * 1000)

// matchSports settles a sports signal against the event's final score and
// scores closing-line value against the flagged closing line.
func (m *Matcher) matchSports(ctx context.Context, sig *domain.Signal) (*Result, error) {
	payload := sig.Sports
	if payload == nil || payload.Team == "" {
		// Without a team the event cannot be identified.
		return m.verdict(sig, 0), nil
	}

	events, err := m.events.FindByTeam(ctx, payload.League, payload.Team, sig.PostedAt-eventSearchBackMs, m.horizonTs(sig))
	if err != nil {
		return nil, fmt.Errorf("find event for %s/%s: %w", payload.League, payload.Team, err)
	}
	var event *domain.SportsEvent
	for _, e := range events {
		if e.Final() {
			event = e
			break
		}
	}
	if event == nil {
		return m.verdict(sig, 0), nil
	}

	lines, err := m.lines.GetByEventID(ctx, event.EventID)
	if err != nil {
		return nil, fmt.Errorf("load lines for %s: %w", event.EventID, err)
	}

	// A signal that states no line takes the line quoted at post time.
	graded := *payload
	lineTeam := graded.Team
	if graded.LineType == domain.LineTypeTotal {
		lineTeam = "" // totals are quoted for the game, not a team
	}
	if graded.Line == nil && graded.LineType != domain.LineTypeMoneyline {
		if l, lErr := lookup.SignalLine(sig.PostedAt, lines, graded.LineType, lineTeam); lErr == nil {
			graded.Line = l.Line
			if graded.Odds == nil {
				graded.Odds = l.Odds
			}
		}
	}
	if graded.Odds == nil && graded.LineType == domain.LineTypeMoneyline {
		if l, lErr := lookup.SignalLine(sig.PostedAt, lines, graded.LineType, lineTeam); lErr == nil {
			graded.Odds = l.Odds
		}
	}

	won, ok := sportsWon(sig, &graded, event)
	if !ok {
		return m.verdict(sig, 0), nil
	}

	clv := closingLineValue(sig, &graded, lines)

	outcome := &domain.Outcome{
		SignalID:  sig.SignalID,
		SettledAt: event.StartTime,
		ExitKind:  domain.ExitKindFinalScore,
		CLVPoints: clv,
		Won:       won,
	}
	return &Result{Status: domain.SignalStatusSettled, Outcome: outcome}, nil
}

// sportsWon grades the bet against the final score. A push returns
// (nil, true): recorded, but in neither side of win rate.
func sportsWon(sig *domain.Signal, payload *domain.SportsPayload, event *domain.SportsEvent) (*bool, bool) {
	switch payload.LineType {
	case domain.LineTypeSpread:
		if payload.Line == nil {
			return nil, false
		}
		margin, ok := event.MarginFor(payload.Team)
		if !ok {
			return nil, false
		}
		covered := float64(margin) + *payload.Line
		if covered == 0 {
			return nil, true // push
		}
		return ptr(covered > 0), true

	case domain.LineTypeTotal:
		if payload.Line == nil {
			return nil, false
		}
		total, ok := event.TotalScore()
		if !ok {
			return nil, false
		}
		diff := float64(total) - *payload.Line
		if diff == 0 {
			return nil, true // push
		}
		over := diff > 0
		if sig.Side == domain.SideUnder {
			return ptr(!over), true
		}
		return ptr(over), true

	case domain.LineTypeMoneyline:
		margin, ok := event.MarginFor(payload.Team)
		if !ok {
			return nil, false
		}
		if margin == 0 {
			return nil, true // push
		}
		return ptr(margin > 0), true
	}
	return nil, false
}

// closingLineValue computes signed CLV in line or odds points. Positive
// means the bettor's number was more favorable than the close.
func closingLineValue(sig *domain.Signal, payload *domain.SportsPayload, lines []*domain.SportsLine) *float64 {
	closing, err := lookup.ClosingLine(lines, payload.LineType, payload.Team)
	if err != nil {
		return nil
	}

	switch payload.LineType {
	case domain.LineTypeSpread:
		if payload.Line == nil || closing.Line == nil {
			return nil
		}
		// A bigger spread number is easier to cover, for favorites and
		// underdogs alike.
		return ptr(*payload.Line - *closing.Line)

	case domain.LineTypeTotal:
		if payload.Line == nil || closing.Line == nil {
			return nil
		}
		if sig.Side == domain.SideUnder {
			return ptr(*payload.Line - *closing.Line)
		}
		return ptr(*closing.Line - *payload.Line)

	case domain.LineTypeMoneyline:
		if payload.Odds == nil || closing.Odds == nil {
			return nil
		}
		return ptr(*payload.Odds - *closing.Odds)
	}
	return nil
}
