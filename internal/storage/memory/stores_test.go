package memory

import (
	"context"
	"errors"
	"testing"

	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/storage"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func bptr(v bool) *bool       { return &v }

func TestStores_AccountDeleteCascades(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	if err := stores.Accounts.Upsert(ctx, &domain.Account{AccountID: "a1", Platform: "x", Handle: "h1"}); err != nil {
		t.Fatalf("Upsert account failed: %v", err)
	}
	if err := stores.Posts.Insert(ctx, &domain.Post{PostID: "p1", AccountID: "a1", PostedAt: 1000}); err != nil {
		t.Fatalf("Insert post failed: %v", err)
	}
	if err := stores.Signals.Upsert(ctx, testSignal("s1", "a1", 1000)); err != nil {
		t.Fatalf("Upsert signal failed: %v", err)
	}
	if err := stores.Outcomes.Upsert(ctx, &domain.Outcome{SignalID: "s1", SettledAt: 2000, ExitKind: domain.ExitKindTarget, Won: bptr(true)}); err != nil {
		t.Fatalf("Upsert outcome failed: %v", err)
	}

	if err := stores.Accounts.Delete(ctx, "a1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := stores.Posts.GetByID(ctx, "p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("post survived cascade: %v", err)
	}
	if _, err := stores.Signals.GetByID(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("signal survived cascade: %v", err)
	}
	if _, err := stores.Outcomes.GetBySignalID(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("outcome survived cascade: %v", err)
	}
}

func TestStores_GetUnparsedSkipsParsedPosts(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	if err := stores.Posts.Insert(ctx, &domain.Post{PostID: "post-s1", AccountID: "a1", PostedAt: 1000}); err != nil {
		t.Fatalf("Insert post failed: %v", err)
	}
	if err := stores.Posts.Insert(ctx, &domain.Post{PostID: "p2", AccountID: "a1", PostedAt: 2000}); err != nil {
		t.Fatalf("Insert post failed: %v", err)
	}
	// testSignal derives PostID "post-s1", marking the first post parsed.
	if err := stores.Signals.Upsert(ctx, testSignal("s1", "a1", 1000)); err != nil {
		t.Fatalf("Upsert signal failed: %v", err)
	}

	got, err := stores.Posts.GetUnparsed(ctx)
	if err != nil {
		t.Fatalf("GetUnparsed failed: %v", err)
	}
	if len(got) != 1 || got[0].PostID != "p2" {
		t.Errorf("expected only p2 unparsed, got %d rows", len(got))
	}
}
