package eventlog

import (
	"context"
	"testing"
	"time"

	"lumin/internal/storage"

	"go.uber.org/zap"
)

func newTestLogger(t *testing.T) (*Logger, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	defaults := storage.GuildSettings{Language: "en"}
	return NewLogger(store, zap.NewNop(), defaults), store
}

func TestLogPersistsEvent(t *testing.T) {
	logger, store := newTestLogger(t)
	ctx := context.Background()

	logger.Log(ctx, LevelInfo, ModuleMod, "g1", "u1", "warn_created", "case #1")

	logs, err := store.ListEventLogs(ctx, "g1", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 || logs[0].Event != "warn_created" || logs[0].Level != LevelInfo {
		t.Fatalf("unexpected logs: %+v", logs)
	}
}

func TestLogNotifiesOnlyWhenEnabled(t *testing.T) {
	logger, store := newTestLogger(t)
	ctx := context.Background()

	var notified []string
	logger.SetNotifier(func(ctx context.Context, channelID string, entry storage.EventLog) {
		notified = append(notified, channelID+":"+entry.Event)
	})

	// No settings row: event logging is off by default.
	logger.Log(ctx, LevelInfo, ModuleMod, "g1", "u1", "first", "")
	if len(notified) != 0 {
		t.Fatalf("expected no notification without settings, got %v", notified)
	}

	settings := storage.GuildSettings{
		GuildID:         "g1",
		Language:        "en",
		EventLogChannel: "c9",
		EventLogEnabled: true,
		EventLogModules: []string{ModuleMod},
	}
	if err := store.UpsertGuildSettings(ctx, settings); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	logger.Log(ctx, LevelWarn, ModuleMod, "g1", "u1", "second", "")
	if len(notified) != 1 || notified[0] != "c9:second" {
		t.Fatalf("expected one notification, got %v", notified)
	}

	// A module outside the guild's list stays silent.
	logger.Log(ctx, LevelInfo, ModuleEconomy, "g1", "u1", "third", "")
	if len(notified) != 1 {
		t.Fatalf("economy module should be filtered, got %v", notified)
	}
}

func TestNilLoggerIsNoOp(t *testing.T) {
	ctx := context.Background()
	var logger *Logger

	// All entry points must tolerate a nil logger without panicking.
	logger.SetNotifier(func(ctx context.Context, channelID string, entry storage.EventLog) {})
	logger.Log(ctx, LevelInfo, ModuleMod, "g1", "u1", "warn_created", "")
	logger.Cleanup(ctx, 30)
}

func TestCleanupDropsOldEvents(t *testing.T) {
	logger, store := newTestLogger(t)
	ctx := context.Background()

	old := storage.EventLog{GuildID: "g1", UserID: "u1", Level: LevelInfo, Event: "old", CreatedAt: time.Now().AddDate(0, 0, -60)}
	if err := store.AddEventLog(ctx, old); err != nil {
		t.Fatalf("add: %v", err)
	}
	logger.Log(ctx, LevelInfo, ModuleMod, "g1", "u1", "fresh", "")

	logger.Cleanup(ctx, 30)

	logs, err := store.ListEventLogs(ctx, "g1", time.Now().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 || logs[0].Event != "fresh" {
		t.Fatalf("expected only the fresh event, got %+v", logs)
	}
}
