package economy

import (
	"context"
	"errors"
	"math/rand"

	"lumin/internal/config"
	"lumin/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrInvalidAmount     = errors.New("economy: amount must be positive")
	ErrInsufficientFunds = errors.New("economy: insufficient funds")
	ErrItemNotFound      = errors.New("economy: no such shop item")
)

// RoleGranter assigns a role to a member after a shop purchase.
type RoleGranter interface {
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
}

type Service struct {
	store  *storage.Store
	cfg    config.EconomyConfig
	roles  RoleGranter
	logger *zap.Logger
	randFn func(n int64) int64
}

func NewService(store *storage.Store, cfg config.EconomyConfig, roles RoleGranter, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		cfg:    cfg,
		roles:  roles,
		logger: logger,
		randFn: rand.Int63n,
	}
}

// Balance returns the member's balance, registering them with the
// configured start amount on first sight. Registration happens once: a
// member who spends back down to zero stays at zero.
func (s *Service) Balance(ctx context.Context, guildID, userID string) (storage.Balance, error) {
	b, found, err := s.store.GetBalance(ctx, guildID, userID)
	if err != nil {
		return storage.Balance{}, err
	}
	if found {
		return b, nil
	}
	b.Cash = s.cfg.StartBalance
	if err := s.store.SetBalance(ctx, b); err != nil {
		return storage.Balance{}, err
	}
	return b, nil
}

// Deposit moves cash into the bank.
func (s *Service) Deposit(ctx context.Context, guildID, userID string, amount int64) (storage.Balance, error) {
	if amount <= 0 {
		return storage.Balance{}, ErrInvalidAmount
	}
	b, err := s.Balance(ctx, guildID, userID)
	if err != nil {
		return storage.Balance{}, err
	}
	if b.Cash < amount {
		return storage.Balance{}, ErrInsufficientFunds
	}
	b.Cash -= amount
	b.Bank += amount
	return b, s.store.SetBalance(ctx, b)
}

// Withdraw moves bank funds back to cash.
func (s *Service) Withdraw(ctx context.Context, guildID, userID string, amount int64) (storage.Balance, error) {
	if amount <= 0 {
		return storage.Balance{}, ErrInvalidAmount
	}
	b, err := s.Balance(ctx, guildID, userID)
	if err != nil {
		return storage.Balance{}, err
	}
	if b.Bank < amount {
		return storage.Balance{}, ErrInsufficientFunds
	}
	b.Bank -= amount
	b.Cash += amount
	return b, s.store.SetBalance(ctx, b)
}

// Pay transfers cash between two members of the same guild.
func (s *Service) Pay(ctx context.Context, guildID, fromID, toID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	from, err := s.Balance(ctx, guildID, fromID)
	if err != nil {
		return err
	}
	if from.Cash < amount {
		return ErrInsufficientFunds
	}
	to, err := s.Balance(ctx, guildID, toID)
	if err != nil {
		return err
	}

	from.Cash -= amount
	to.Cash += amount
	if err := s.store.SetBalance(ctx, from); err != nil {
		return err
	}
	return s.store.SetBalance(ctx, to)
}

// Award adds cash to a member without a source. Moderator-only surface.
func (s *Service) Award(ctx context.Context, guildID, userID string, amount int64) (storage.Balance, error) {
	if amount <= 0 {
		return storage.Balance{}, ErrInvalidAmount
	}
	b, err := s.Balance(ctx, guildID, userID)
	if err != nil {
		return storage.Balance{}, err
	}
	b.Cash += amount
	return b, s.store.SetBalance(ctx, b)
}

// Take removes up to amount cash from a member, clamping at zero.
func (s *Service) Take(ctx context.Context, guildID, userID string, amount int64) (storage.Balance, error) {
	if amount <= 0 {
		return storage.Balance{}, ErrInvalidAmount
	}
	b, err := s.Balance(ctx, guildID, userID)
	if err != nil {
		return storage.Balance{}, err
	}
	b.Cash -= amount
	if b.Cash < 0 {
		b.Cash = 0
	}
	return b, s.store.SetBalance(ctx, b)
}

// Work pays out a random amount between the configured bounds.
func (s *Service) Work(ctx context.Context, guildID, userID string) (int64, storage.Balance, error) {
	span := s.cfg.WorkMax - s.cfg.WorkMin
	earned := s.cfg.WorkMin
	if span > 0 {
		earned += s.randFn(span + 1)
	}

	b, err := s.Balance(ctx, guildID, userID)
	if err != nil {
		return 0, storage.Balance{}, err
	}
	b.Cash += earned
	return earned, b, s.store.SetBalance(ctx, b)
}

func (s *Service) Top(ctx context.Context, guildID string, limit int) ([]storage.Balance, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.TopBalances(ctx, guildID, limit)
}

// Buy charges the item's price from cash and grants its role if it has
// one. A failed role grant is logged but does not refund the purchase.
func (s *Service) Buy(ctx context.Context, guildID, userID, itemName string) (storage.ShopItem, error) {
	item, found, err := s.store.GetShopItem(ctx, guildID, itemName)
	if err != nil {
		return storage.ShopItem{}, err
	}
	if !found {
		return storage.ShopItem{}, ErrItemNotFound
	}

	b, err := s.Balance(ctx, guildID, userID)
	if err != nil {
		return storage.ShopItem{}, err
	}
	if b.Cash < item.Price {
		return storage.ShopItem{}, ErrInsufficientFunds
	}
	b.Cash -= item.Price
	if err := s.store.SetBalance(ctx, b); err != nil {
		return storage.ShopItem{}, err
	}

	if item.RoleID != "" && s.roles != nil {
		if err := s.roles.GrantRole(ctx, guildID, userID, item.RoleID); err != nil {
			s.logger.Warn("shop role grant failed",
				zap.String("guild_id", guildID),
				zap.String("user_id", userID),
				zap.String("role_id", item.RoleID),
				zap.Error(err))
		}
	}
	return item, nil
}
