package eventlog

import (
	"context"
	"time"

	"lumin/internal/storage"

	"go.uber.org/zap"
)

const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
	LevelCrit = "CRIT"
)

// Event-log modules map to the areas a guild can toggle individually.
const (
	ModuleMod      = "mod"
	ModuleMember   = "member"
	ModuleEconomy  = "economy"
	ModuleAFK      = "afk"
	ModuleSnapshot = "snapshot"
)

// Logger records guild events. Every event is persisted; the channel
// notification only fires when the guild has event logging switched on for
// the event's module and has picked a log channel.
type Logger struct {
	store    *storage.Store
	logger   *zap.Logger
	defaults storage.GuildSettings
	clock    func() time.Time
	notify   func(ctx context.Context, channelID string, entry storage.EventLog)
}

func NewLogger(store *storage.Store, logger *zap.Logger, defaults storage.GuildSettings) *Logger {
	return &Logger{store: store, logger: logger, defaults: defaults, clock: time.Now}
}

func (l *Logger) SetNotifier(notify func(ctx context.Context, channelID string, entry storage.EventLog)) {
	if l == nil {
		return
	}
	l.notify = notify
}

// Log records one event. A nil Logger discards everything, so callers
// wired without event logging need no guard.
func (l *Logger) Log(ctx context.Context, level, module, guildID, userID, event, details string) {
	if l == nil {
		return
	}
	entry := storage.EventLog{
		GuildID:   guildID,
		UserID:    userID,
		Level:     level,
		Event:     event,
		Details:   details,
		CreatedAt: l.clock(),
	}
	if l.store != nil {
		if err := l.store.AddEventLog(ctx, entry); err != nil {
			l.logger.Warn("event log write failed", zap.String("event", event), zap.Error(err))
		}
	}

	if l.notify != nil {
		settings, err := l.store.GetGuildSettings(ctx, guildID, l.defaults)
		if err == nil && settings.ModuleEnabled(module) && settings.EventLogChannel != "" {
			l.notify(ctx, settings.EventLogChannel, entry)
		}
	}

	l.logger.Info("event",
		zap.String("level", level),
		zap.String("module", module),
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("event", event),
		zap.String("details", details))
}

// Cleanup drops events older than the retention window.
func (l *Logger) Cleanup(ctx context.Context, retentionDays int) {
	if l == nil || l.store == nil {
		return
	}
	if err := l.store.CleanupEventLogs(ctx, retentionDays); err != nil {
		l.logger.Warn("event log cleanup failed", zap.Error(err))
	}
}
