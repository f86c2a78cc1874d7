package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type SnapshotRecord struct {
	Code      string `db:"code"`
	GuildID   string `db:"guild_id"`
	Name      string `db:"name"`
	AuthorID  string `db:"author_id"`
	Payload   string `db:"payload"`
	CreatedAt time.Time
}

type snapshotRow struct {
	Code      string `db:"code"`
	GuildID   string `db:"guild_id"`
	Name      string `db:"name"`
	AuthorID  string `db:"author_id"`
	Payload   string `db:"payload"`
	CreatedAt int64  `db:"created_at"`
}

func (r snapshotRow) toRecord() SnapshotRecord {
	return SnapshotRecord{
		Code:      r.Code,
		GuildID:   r.GuildID,
		Name:      r.Name,
		AuthorID:  r.AuthorID,
		Payload:   r.Payload,
		CreatedAt: time.Unix(r.CreatedAt, 0),
	}
}

func (s *Store) AddSnapshot(ctx context.Context, record SnapshotRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (code, guild_id, name, author_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.Code, record.GuildID, record.Name, record.AuthorID, record.Payload, record.CreatedAt.Unix())
	return err
}

func (s *Store) GetSnapshot(ctx context.Context, code string) (SnapshotRecord, bool, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM snapshots WHERE code = ?`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SnapshotRecord{}, false, nil
		}
		return SnapshotRecord{}, false, err
	}
	return row.toRecord(), true, nil
}

func (s *Store) ListSnapshots(ctx context.Context, guildID string) ([]SnapshotRecord, error) {
	var rows []snapshotRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM snapshots WHERE guild_id = ? ORDER BY created_at DESC`, guildID)
	if err != nil {
		return nil, err
	}
	records := make([]SnapshotRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, guildID, code string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE guild_id = ? AND code = ?`, guildID, code)
	return err
}
