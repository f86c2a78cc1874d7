package cases

import "errors"

var (
	// ErrForbidden marks a notification the target refused (closed DMs).
	// Callers discard it; a failed DM never blocks the moderation action.
	ErrForbidden = errors.New("cases: notification forbidden")

	// ErrNotFound marks a platform lookup that came back empty, such as
	// unbanning a user who is not banned.
	ErrNotFound = errors.New("cases: not found")

	// ErrPermission marks a platform action the bot lacked privileges for.
	// It is never swallowed; the command surface reports it.
	ErrPermission = errors.New("cases: missing permission")
)
