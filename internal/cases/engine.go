package cases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Repository persists case rows. Delete is idempotent: removing an id that
// is already gone is not an error.
type Repository interface {
	Insert(ctx context.Context, c Case) error
	Update(ctx context.Context, guildID string, id int64, p Patch) error
	Delete(ctx context.Context, guildID string, id int64) error
	FindByID(ctx context.Context, guildID string, id int64) (Case, bool, error)
	Find(ctx context.Context, guildID string, f Filter) ([]Case, error)
	FindExpired(ctx context.Context, now time.Time) ([]Case, error)
}

// Platform is the slice of the chat platform the lifecycle engine needs.
// RemoveTimeout is a no-op when the member has no active timeout.
type Platform interface {
	IsMember(ctx context.Context, guildID, userID string) bool
	Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error
	RemoveTimeout(ctx context.Context, guildID, userID string) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	Unban(ctx context.Context, guildID, userID, reason string) error
}

// Notifier delivers templated messages to case targets. Notify returns
// ErrForbidden when the target blocks DMs. Render resolves a template to a
// plain string in the guild's language, for audit-facing reason text.
type Notifier interface {
	Notify(ctx context.Context, c Case, key string) error
	Render(ctx context.Context, guildID, key string, c Case) string
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Engine runs the case lifecycle: membership precondition, kind-specific
// before hook, persistence, kind-specific after hook, in that order.
type Engine struct {
	repo      Repository
	platform  Platform
	notifier  Notifier
	logger    *zap.Logger
	scheduler *Scheduler
	clock     Clock
}

func NewEngine(repo Repository, platform Platform, notifier Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		repo:     repo,
		platform: platform,
		notifier: notifier,
		logger:   logger,
		clock:    realClock{},
	}
}

func (e *Engine) WithClock(clock Clock) {
	e.clock = clock
}

// SetScheduler hands the engine the expiry scheduler it should poke after
// creating or editing a timed case.
func (e *Engine) SetScheduler(s *Scheduler) {
	e.scheduler = s
}

// Create persists the case and applies its platform action. A target that
// is not a guild member short-circuits to (nil, nil): nothing is written
// and no hook runs. A failed insert aborts before the after hook, so the
// platform action that follows persistence never fires for duplicates.
func (e *Engine) Create(ctx context.Context, c Case) (*Case, error) {
	if !c.Kind.Valid() {
		return nil, fmt.Errorf("cases: invalid kind %d", c.Kind)
	}
	if c.Kind == KindMute && c.ExpiresAt == nil {
		return nil, errors.New("cases: mute requires an expiry")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = e.clock.Now()
	}

	if !e.platform.IsMember(ctx, c.GuildID, c.TargetID) {
		return nil, nil
	}

	if err := e.beforeCreation(ctx, c); err != nil {
		return nil, err
	}
	if err := e.repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	if err := e.afterCreation(ctx, c); err != nil {
		return nil, err
	}

	if c.ExpiresAt != nil && e.scheduler != nil {
		e.scheduler.Restart()
	}
	return &c, nil
}

// Delete removes the case and reverses its platform action. If the target
// has left the guild the row is left in place so the record survives the
// departure.
func (e *Engine) Delete(ctx context.Context, c Case) error {
	if !e.platform.IsMember(ctx, c.GuildID, c.TargetID) {
		return nil
	}

	if err := e.beforeDeletion(ctx, c); err != nil {
		return err
	}
	if err := e.repo.Delete(ctx, c.GuildID, c.ID); err != nil {
		return err
	}
	return e.afterDeletion(ctx, c)
}

// Edit applies a partial update to the stored row. Creation and deletion
// hooks do not re-run; a changed expiry restarts the scheduler.
func (e *Engine) Edit(ctx context.Context, c Case, p Patch) error {
	if p.Empty() {
		return nil
	}
	if err := e.repo.Update(ctx, c.GuildID, c.ID, p); err != nil {
		return err
	}
	if p.ExpiresAt != nil && e.scheduler != nil {
		e.scheduler.Restart()
	}
	return nil
}

func (e *Engine) beforeCreation(ctx context.Context, c Case) error {
	switch c.Kind {
	case KindWarn:
		return nil
	case KindKick:
		e.notify(ctx, c, "mod.kick.notify")
		return nil
	case KindMute:
		reason := e.notifier.Render(ctx, c.GuildID, "mod.mute.reason", c)
		return e.platform.Timeout(ctx, c.GuildID, c.TargetID, *c.ExpiresAt, reason)
	case KindBan:
		e.notify(ctx, c, "mod.ban.notify")
		return nil
	default:
		return fmt.Errorf("cases: invalid kind %d", c.Kind)
	}
}

func (e *Engine) afterCreation(ctx context.Context, c Case) error {
	switch c.Kind {
	case KindWarn:
		e.notify(ctx, c, "mod.warn.notify")
		return nil
	case KindKick:
		return e.platform.Kick(ctx, c.GuildID, c.TargetID, "Kicked by "+c.ModeratorID)
	case KindMute:
		e.notify(ctx, c, "mod.mute.notify")
		return nil
	case KindBan:
		return e.platform.Ban(ctx, c.GuildID, c.TargetID, "Banned by "+c.ModeratorID)
	default:
		return fmt.Errorf("cases: invalid kind %d", c.Kind)
	}
}

func (e *Engine) beforeDeletion(ctx context.Context, c Case) error {
	switch c.Kind {
	case KindWarn, KindKick:
		return nil
	case KindMute:
		return e.platform.RemoveTimeout(ctx, c.GuildID, c.TargetID)
	case KindBan:
		err := e.platform.Unban(ctx, c.GuildID, c.TargetID, "Ban removed")
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("cases: invalid kind %d", c.Kind)
	}
}

func (e *Engine) afterDeletion(ctx context.Context, c Case) error {
	switch c.Kind {
	case KindWarn:
		e.notify(ctx, c, "mod.warn.unwarned")
		return nil
	case KindKick:
		return nil
	case KindMute:
		e.notify(ctx, c, "mod.unmute.notify")
		return nil
	case KindBan:
		// Only members get the unban notice; ex-members are left alone.
		if e.platform.IsMember(ctx, c.GuildID, c.TargetID) {
			e.notify(ctx, c, "mod.unban.notify")
		}
		return nil
	default:
		return fmt.Errorf("cases: invalid kind %d", c.Kind)
	}
}

func (e *Engine) notify(ctx context.Context, c Case, key string) {
	err := e.notifier.Notify(ctx, c, key)
	if err == nil || errors.Is(err, ErrForbidden) {
		return
	}
	e.logger.Warn("case notification failed",
		zap.String("guild_id", c.GuildID),
		zap.String("target_id", c.TargetID),
		zap.String("key", key),
		zap.Error(err))
}
