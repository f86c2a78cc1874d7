package cases

import (
	"strconv"
	"time"
)

// Kind discriminates the four moderation actions a case can record.
type Kind int

const (
	KindWarn Kind = 1
	KindMute Kind = 2
	KindKick Kind = 3
	KindBan  Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindWarn:
		return "warn"
	case KindMute:
		return "mute"
	case KindKick:
		return "kick"
	case KindBan:
		return "ban"
	default:
		return "unknown"
	}
}

func (k Kind) Valid() bool {
	switch k {
	case KindWarn, KindMute, KindKick, KindBan:
		return true
	default:
		return false
	}
}

// Case is one persisted moderation action. IDs are snowflake-derived and
// unique per guild, not globally. A nil ExpiresAt means the case is
// permanent; Mute cases always carry an expiry.
type Case struct {
	Kind          Kind
	ID            int64
	GuildID       string
	TargetID      string
	ModeratorID   string
	Reason        string
	ExpiresAt     *time.Time
	OriginMessage string
	CreatedAt     time.Time
}

// Active reports whether the case is still in force: permanent cases are
// always active, timed ones only until their expiry.
func (c Case) Active(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.After(now)
}

// Equal compares by ID only; two reads of the same row are the same case.
func (c Case) Equal(other Case) bool {
	return c.ID == other.ID
}

// Before orders cases by expiry. Permanent cases sort after timed ones,
// ties are left to the caller.
func (c Case) Before(other Case) bool {
	if c.ExpiresAt == nil {
		return false
	}
	if other.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Before(*other.ExpiresAt)
}

// GenerateID derives a per-guild unique case ID from the snowflake of the
// message or interaction that triggered the action. Snowflakes are
// timestamp-ordered, so collisions within a guild do not occur in practice.
func GenerateID(snowflake string) (int64, error) {
	return strconv.ParseInt(snowflake, 10, 64)
}

// Patch carries the fields an edit may change. Nil fields keep the stored
// value; an edit never rewrites the whole row.
type Patch struct {
	TargetID      *string
	Reason        *string
	ExpiresAt     *time.Time
	OriginMessage *string
}

func (p Patch) Empty() bool {
	return p.TargetID == nil && p.Reason == nil && p.ExpiresAt == nil && p.OriginMessage == nil
}

// Filter is a conjunctive query over stored case columns. Zero values are
// not matched on. Limit of zero returns everything, newest first.
type Filter struct {
	TargetID    string
	ModeratorID string
	ExpiresAt   *time.Time
	Limit       int
}
