package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type GuildSettings struct {
	GuildID         string
	Language        string
	EventLogChannel string
	EventLogEnabled bool
	EventLogModules []string
}

// ModuleEnabled reports whether an event-log module is switched on. An
// empty module list means everything is on.
func (g GuildSettings) ModuleEnabled(module string) bool {
	if !g.EventLogEnabled {
		return false
	}
	if len(g.EventLogModules) == 0 {
		return true
	}
	for _, m := range g.EventLogModules {
		if m == module {
			return true
		}
	}
	return false
}

func (s *Store) GetGuildSettings(ctx context.Context, guildID string, defaults GuildSettings) (GuildSettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT language, event_log_channel, event_log_enabled, event_log_modules
		FROM guild_settings WHERE guild_id = ?`, guildID)

	result := defaults
	result.GuildID = guildID

	var enabled int
	var modules string
	err := row.Scan(&result.Language, &result.EventLogChannel, &enabled, &modules)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, nil
		}
		return GuildSettings{}, err
	}
	result.EventLogEnabled = enabled == 1
	result.EventLogModules = splitModules(modules)
	if result.Language == "" {
		result.Language = defaults.Language
	}
	return result, nil
}

func (s *Store) UpsertGuildSettings(ctx context.Context, settings GuildSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guild_settings (guild_id, language, event_log_channel, event_log_enabled, event_log_modules)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			language = excluded.language,
			event_log_channel = excluded.event_log_channel,
			event_log_enabled = excluded.event_log_enabled,
			event_log_modules = excluded.event_log_modules
	`, settings.GuildID, settings.Language, settings.EventLogChannel,
		boolToInt(settings.EventLogEnabled), strings.Join(settings.EventLogModules, ","))
	return err
}

func splitModules(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
