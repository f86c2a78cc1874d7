package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type AFKEntry struct {
	GuildID      string `db:"guild_id"`
	UserID       string `db:"user_id"`
	Reason       string `db:"reason"`
	PreviousNick string `db:"previous_nick"`
	Active       bool   `db:"-"`
	SetAt        time.Time
}

type afkRow struct {
	GuildID      string `db:"guild_id"`
	UserID       string `db:"user_id"`
	Reason       string `db:"reason"`
	PreviousNick string `db:"previous_nick"`
	Active       int    `db:"active"`
	SetAt        int64  `db:"set_at"`
}

func (r afkRow) toEntry() AFKEntry {
	return AFKEntry{
		GuildID:      r.GuildID,
		UserID:       r.UserID,
		Reason:       r.Reason,
		PreviousNick: r.PreviousNick,
		Active:       r.Active == 1,
		SetAt:        time.Unix(r.SetAt, 0),
	}
}

// GetAFK returns the user's AFK entry and whether one exists at all,
// active or not.
func (s *Store) GetAFK(ctx context.Context, guildID, userID string) (AFKEntry, bool, error) {
	var row afkRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM afk WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AFKEntry{}, false, nil
		}
		return AFKEntry{}, false, err
	}
	return row.toEntry(), true, nil
}

func (s *Store) SetAFK(ctx context.Context, entry AFKEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO afk (guild_id, user_id, reason, previous_nick, active, set_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET
			reason = excluded.reason,
			previous_nick = excluded.previous_nick,
			active = excluded.active,
			set_at = excluded.set_at
	`, entry.GuildID, entry.UserID, entry.Reason, entry.PreviousNick, boolToInt(entry.Active), entry.SetAt.Unix())
	return err
}

func (s *Store) ClearAFK(ctx context.Context, guildID, userID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE afk SET active = 0 WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	return err
}
