package storage

import (
	"context"
	"database/sql"
	"errors"
)

type Balance struct {
	GuildID string `db:"guild_id"`
	UserID  string `db:"user_id"`
	Cash    int64  `db:"cash"`
	Bank    int64  `db:"bank"`
}

type ShopItem struct {
	GuildID     string `db:"guild_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Price       int64  `db:"price"`
	RoleID      string `db:"role_id"`
	CreatorID   string `db:"creator_id"`
}

// GetBalance returns the stored balance. The second return reports whether
// the user has a row yet; callers decide what a first sighting is worth.
func (s *Store) GetBalance(ctx context.Context, guildID, userID string) (Balance, bool, error) {
	var b Balance
	err := s.db.GetContext(ctx, &b, `SELECT * FROM economy WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Balance{GuildID: guildID, UserID: userID}, false, nil
		}
		return Balance{}, false, err
	}
	return b, true, nil
}

func (s *Store) SetBalance(ctx context.Context, b Balance) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO economy (guild_id, user_id, cash, bank)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET
			cash = excluded.cash,
			bank = excluded.bank
	`, b.GuildID, b.UserID, b.Cash, b.Bank)
	return err
}

// TopBalances lists the richest users of a guild by combined cash and bank.
func (s *Store) TopBalances(ctx context.Context, guildID string, limit int) ([]Balance, error) {
	var rows []Balance
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM economy WHERE guild_id = ? ORDER BY cash + bank DESC LIMIT ?
	`, guildID, limit)
	return rows, err
}

func (s *Store) GetShopItem(ctx context.Context, guildID, name string) (ShopItem, bool, error) {
	var item ShopItem
	err := s.db.GetContext(ctx, &item, `
		SELECT * FROM shop_items WHERE guild_id = ? AND LOWER(name) = LOWER(?)
	`, guildID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ShopItem{}, false, nil
		}
		return ShopItem{}, false, err
	}
	return item, true, nil
}

func (s *Store) AddShopItem(ctx context.Context, item ShopItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shop_items (guild_id, name, description, price, role_id, creator_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.GuildID, item.Name, item.Description, item.Price, item.RoleID, item.CreatorID)
	return err
}

func (s *Store) RemoveShopItem(ctx context.Context, guildID, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM shop_items WHERE guild_id = ? AND LOWER(name) = LOWER(?)`, guildID, name)
	return err
}

func (s *Store) ListShopItems(ctx context.Context, guildID string) ([]ShopItem, error) {
	var items []ShopItem
	err := s.db.SelectContext(ctx, &items, `SELECT * FROM shop_items WHERE guild_id = ? ORDER BY price, name`, guildID)
	return items, err
}
