package afk

import (
	"context"
	"errors"
	"time"

	"lumin/internal/storage"
	"lumin/internal/utils"

	"go.uber.org/zap"
)

var ErrInviteInReason = errors.New("afk: reason contains an invite link")

// Service tracks away members. Setting AFK remembers the member's current
// nickname so clearing it can restore the name the "[AFK]" prefix replaced.
type Service struct {
	store  *storage.Store
	logger *zap.Logger
	clock  func() time.Time
}

func NewService(store *storage.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger, clock: time.Now}
}

// Set marks the member away. The reason is refused when it smuggles an
// invite link, since AFK reasons are echoed into public channels.
func (s *Service) Set(ctx context.Context, guildID, userID, reason, currentNick string) error {
	if utils.ContainsInvite(reason) {
		return ErrInviteInReason
	}
	if reason == "" {
		reason = "AFK"
	}

	entry := storage.AFKEntry{
		GuildID:      guildID,
		UserID:       userID,
		Reason:       reason,
		PreviousNick: currentNick,
		Active:       true,
		SetAt:        s.clock(),
	}
	return s.store.SetAFK(ctx, entry)
}

// Get returns the member's active AFK entry, if any.
func (s *Service) Get(ctx context.Context, guildID, userID string) (storage.AFKEntry, bool, error) {
	entry, found, err := s.store.GetAFK(ctx, guildID, userID)
	if err != nil || !found || !entry.Active {
		return storage.AFKEntry{}, false, err
	}
	return entry, true, nil
}

// Clear deactivates the member's AFK entry. It reports whether an active
// entry existed and the nickname to restore, which may be empty.
func (s *Service) Clear(ctx context.Context, guildID, userID string) (string, bool, error) {
	entry, found, err := s.store.GetAFK(ctx, guildID, userID)
	if err != nil {
		return "", false, err
	}
	if !found || !entry.Active {
		return "", false, nil
	}
	if err := s.store.ClearAFK(ctx, guildID, userID); err != nil {
		return "", false, err
	}
	return entry.PreviousNick, true, nil
}
