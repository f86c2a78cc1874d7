package snapshot

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"lumin/internal/storage"
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
	return NewService(store)
}

func samplePayload() Payload {
	return Payload{
		Name: "community",
		Roles: []Role{
			{Name: "admin", Color: 0xFF0000, Permissions: 8, Hoist: true, Position: 2},
			{Name: "member", Color: 0x00FF00, Position: 1},
		},
		Channels: []Channel{
			{Name: "general", Type: 0, Topic: "talk", Position: 0},
			{Name: "rules", Type: 0, Parent: "info", Position: 1},
			{Name: "voice", Type: 2, Position: 2},
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	code, err := svc.Save(ctx, "g1", "layout", "u1", samplePayload())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("unexpected code %q", code)
	}

	payload, record, err := svc.Load(ctx, code)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(payload, samplePayload()) {
		t.Fatalf("payload changed in round trip: %+v", payload)
	}
	if record.GuildID != "g1" || record.Name != "layout" || record.AuthorID != "u1" {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestLoadUnknownCode(t *testing.T) {
	svc := newTestService(t)
	if _, _, err := svc.Load(context.Background(), "nope1234"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadFromAnotherGuild(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	code, err := svc.Save(ctx, "g1", "layout", "u1", samplePayload())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Codes are global handles: any guild can load a shared snapshot.
	if _, _, err := svc.Load(ctx, code); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, "g1", "one", "u1", samplePayload())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.Save(ctx, "g1", "two", "u1", samplePayload()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.Save(ctx, "g2", "other", "u2", samplePayload()); err != nil {
		t.Fatalf("save: %v", err)
	}

	records, err := svc.List(ctx, "g1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 snapshots for g1, got %d", len(records))
	}

	if err := svc.Delete(ctx, "g1", first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	records, _ = svc.List(ctx, "g1")
	if len(records) != 1 || records[0].Name != "two" {
		t.Fatalf("unexpected snapshots after delete: %+v", records)
	}
}

func TestCodesAreUnique(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := svc.Save(ctx, "g1", "layout", "u1", samplePayload())
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}
