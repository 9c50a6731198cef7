package memory

import (
	"context"
	"testing"

	"alpha-tracker/internal/domain"
)

func TestSportsEventStore_UpsertUpdatesScores(t *testing.T) {
	store := NewSportsEventStore()
	ctx := context.Background()

	pregame := &domain.SportsEvent{
		EventID: "e1", League: "NFL", StartTime: 1000,
		HomeTeam: "Chiefs", AwayTeam: "Raiders",
	}
	if err := store.Upsert(ctx, pregame); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	final := &domain.SportsEvent{
		EventID: "e1", League: "NFL", StartTime: 1000,
		HomeTeam: "Chiefs", AwayTeam: "Raiders",
		HomeScore: iptr(27), AwayScore: iptr(20),
	}
	if err := store.Upsert(ctx, final); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "e1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.Final() || *got.HomeScore != 27 {
		t.Errorf("scores not updated: %+v", got)
	}
}

func TestSportsEventStore_FindByTeamCaseInsensitive(t *testing.T) {
	store := NewSportsEventStore()
	ctx := context.Background()

	events := []*domain.SportsEvent{
		{EventID: "e1", League: "NFL", StartTime: 1000, HomeTeam: "Chiefs", AwayTeam: "Raiders"},
		{EventID: "e2", League: "NFL", StartTime: 5000, HomeTeam: "Bills", AwayTeam: "Chiefs"},
		{EventID: "e3", League: "NBA", StartTime: 2000, HomeTeam: "Chiefs", AwayTeam: "Lakers"},
	}
	for _, e := range events {
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	// Parsers emit lowercase team names.
	got, err := store.FindByTeam(ctx, "NFL", "chiefs", 0, 10000)
	if err != nil {
		t.Fatalf("FindByTeam failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].EventID != "e1" || got[1].EventID != "e2" {
		t.Errorf("order = %s, %s", got[0].EventID, got[1].EventID)
	}

	none, err := store.FindByTeam(ctx, "NFL", "chiefs", 2000, 4000)
	if err != nil {
		t.Fatalf("FindByTeam failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no events outside the time window, got %d", len(none))
	}
}

func TestSportsLineStore_GetByEventID(t *testing.T) {
	store := NewSportsLineStore()
	ctx := context.Background()

	lines := []*domain.SportsLine{
		{EventID: "e1", TimestampMs: 2000, LineType: domain.LineTypeSpread, Team: "chiefs", Line: fptr(-4.5), IsClosing: true},
		{EventID: "e1", TimestampMs: 1000, LineType: domain.LineTypeSpread, Team: "chiefs", Line: fptr(-3.5)},
		{EventID: "e2", TimestampMs: 1500, LineType: domain.LineTypeTotal, Line: fptr(47.5)},
	}
	if err := store.InsertBulk(ctx, lines); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByEventID(ctx, "e1")
	if err != nil {
		t.Fatalf("GetByEventID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0].TimestampMs != 1000 || got[1].TimestampMs != 2000 {
		t.Errorf("lines not ordered by timestamp: %+v", got)
	}
	if !got[1].IsClosing || *got[1].Line != -4.5 {
		t.Errorf("closing line = %+v", got[1])
	}
}
