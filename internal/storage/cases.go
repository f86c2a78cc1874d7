package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"lumin/internal/cases"
)

// caseRow mirrors one row of the cases table. Timestamps are stored as
// Unix seconds, optional columns as SQL NULLs.
type caseRow struct {
	Kind          int            `db:"kind"`
	CaseID        int64          `db:"case_id"`
	GuildID       string         `db:"guild_id"`
	TargetID      string         `db:"target_id"`
	ModeratorID   string         `db:"moderator_id"`
	Reason        sql.NullString `db:"reason"`
	ExpiresAt     sql.NullInt64  `db:"expires_at"`
	OriginMessage sql.NullString `db:"origin_message"`
	CreatedAt     int64          `db:"created_at"`
}

func (r caseRow) toCase() cases.Case {
	c := cases.Case{
		Kind:        cases.Kind(r.Kind),
		ID:          r.CaseID,
		GuildID:     r.GuildID,
		TargetID:    r.TargetID,
		ModeratorID: r.ModeratorID,
		CreatedAt:   time.Unix(r.CreatedAt, 0),
	}
	if r.Reason.Valid {
		c.Reason = r.Reason.String
	}
	if r.OriginMessage.Valid {
		c.OriginMessage = r.OriginMessage.String
	}
	if r.ExpiresAt.Valid {
		expires := time.Unix(r.ExpiresAt.Int64, 0)
		c.ExpiresAt = &expires
	}
	return c
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullUnix(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value.Unix(), Valid: true}
}

// Insert appends one case row. A duplicate (guild_id, case_id) pair
// surfaces as a constraint violation from the driver.
func (s *Store) Insert(ctx context.Context, c cases.Case) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cases (kind, case_id, guild_id, target_id, moderator_id, reason, expires_at, origin_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, int(c.Kind), c.ID, c.GuildID, c.TargetID, c.ModeratorID,
		nullString(c.Reason), nullUnix(c.ExpiresAt), nullString(c.OriginMessage), c.CreatedAt.Unix())
	return err
}

// Update writes only the columns the patch sets.
func (s *Store) Update(ctx context.Context, guildID string, id int64, p cases.Patch) error {
	var sets []string
	var args []any

	if p.TargetID != nil {
		sets = append(sets, "target_id = ?")
		args = append(args, *p.TargetID)
	}
	if p.Reason != nil {
		sets = append(sets, "reason = ?")
		args = append(args, nullString(*p.Reason))
	}
	if p.ExpiresAt != nil {
		sets = append(sets, "expires_at = ?")
		args = append(args, p.ExpiresAt.Unix())
	}
	if p.OriginMessage != nil {
		sets = append(sets, "origin_message = ?")
		args = append(args, nullString(*p.OriginMessage))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, guildID, id)
	_, err := s.db.ExecContext(ctx, `UPDATE cases SET `+strings.Join(sets, ", ")+` WHERE guild_id = ? AND case_id = ?`, args...)
	return err
}

// Delete removes a case row. Deleting an id that is already gone is a
// no-op, which makes concurrent deletions of the same case harmless.
func (s *Store) Delete(ctx context.Context, guildID string, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cases WHERE guild_id = ? AND case_id = ?`, guildID, id)
	return err
}

func (s *Store) FindByID(ctx context.Context, guildID string, id int64) (cases.Case, bool, error) {
	var row caseRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM cases WHERE guild_id = ? AND case_id = ?`, guildID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return cases.Case{}, false, nil
		}
		return cases.Case{}, false, err
	}
	return row.toCase(), true, nil
}

// Find runs a conjunctive filter over a guild's cases, newest first.
func (s *Store) Find(ctx context.Context, guildID string, f cases.Filter) ([]cases.Case, error) {
	query := `SELECT * FROM cases WHERE guild_id = ?`
	args := []any{guildID}

	if f.TargetID != "" {
		query += ` AND target_id = ?`
		args = append(args, f.TargetID)
	}
	if f.ModeratorID != "" {
		query += ` AND moderator_id = ?`
		args = append(args, f.ModeratorID)
	}
	if f.ExpiresAt != nil {
		query += ` AND expires_at = ?`
		args = append(args, f.ExpiresAt.Unix())
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	var rows []caseRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	result := make([]cases.Case, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toCase())
	}
	return result, nil
}

// FindExpired returns every timed case, in any guild, whose expiry is at
// or before now. Permanent cases never appear here.
func (s *Store) FindExpired(ctx context.Context, now time.Time) ([]cases.Case, error) {
	var rows []caseRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM cases WHERE expires_at IS NOT NULL AND expires_at <= ?
	`, now.Unix())
	if err != nil {
		return nil, err
	}
	result := make([]cases.Case, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toCase())
	}
	return result, nil
}
