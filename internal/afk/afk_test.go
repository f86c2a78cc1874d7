package afk

import (
	"context"
	"errors"
	"testing"

	"lumin/internal/storage"

	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(store, zap.NewNop())
}

func TestSetAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "g1", "u1", "lunch", "Alice"); err != nil {
		t.Fatalf("set: %v", err)
	}

	entry, found, err := svc.Get(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || entry.Reason != "lunch" || entry.PreviousNick != "Alice" {
		t.Fatalf("unexpected entry: found=%t %+v", found, entry)
	}
}

func TestSetEmptyReasonDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "g1", "u1", "", ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	entry, found, _ := svc.Get(ctx, "g1", "u1")
	if !found || entry.Reason != "AFK" {
		t.Fatalf("expected default reason, got found=%t %+v", found, entry)
	}
}

func TestSetRejectsInviteLink(t *testing.T) {
	svc := newTestService(t)
	err := svc.Set(context.Background(), "g1", "u1", "join discord.gg/abc", "Alice")
	if !errors.Is(err, ErrInviteInReason) {
		t.Fatalf("expected ErrInviteInReason, got %v", err)
	}
	if _, found, _ := svc.Get(context.Background(), "g1", "u1"); found {
		t.Fatal("rejected reason must not be stored")
	}
}

func TestClearReturnsPreviousNick(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "g1", "u1", "brb", "Alice"); err != nil {
		t.Fatalf("set: %v", err)
	}

	nick, cleared, err := svc.Clear(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !cleared || nick != "Alice" {
		t.Fatalf("expected cleared entry with nick Alice, got cleared=%t nick=%q", cleared, nick)
	}
	if _, found, _ := svc.Get(ctx, "g1", "u1"); found {
		t.Fatal("cleared entry must not be active")
	}
}

func TestClearWithoutEntryIsHarmless(t *testing.T) {
	svc := newTestService(t)
	nick, cleared, err := svc.Clear(context.Background(), "g1", "nobody")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared || nick != "" {
		t.Fatalf("expected no-op clear, got cleared=%t nick=%q", cleared, nick)
	}
}

func TestReSetAfterClear(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "g1", "u1", "first", "Alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, _, err := svc.Clear(ctx, "g1", "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := svc.Set(ctx, "g1", "u1", "second", "Alice"); err != nil {
		t.Fatalf("re-set: %v", err)
	}

	entry, found, _ := svc.Get(ctx, "g1", "u1")
	if !found || entry.Reason != "second" {
		t.Fatalf("expected re-activated entry, got found=%t %+v", found, entry)
	}
}

func TestStorageEntryIsolationAcrossGuilds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "g1", "u1", "away", ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found, _ := svc.Get(ctx, "g2", "u1"); found {
		t.Fatal("entry must be scoped to its guild")
	}
}
