package bot

import (
	"context"
	"errors"
	"time"

	"lumin/internal/cases"

	"github.com/bwmarrin/discordgo"
)

// Discord error codes the lifecycle engine distinguishes.
const (
	codeCannotDM          = 50007
	codeMissingPermission = 50013
	codeUnknownMember     = 10007
	codeUnknownBan        = 10026
)

// platform adapts a discordgo session to the lifecycle engine's view of
// the guild.
type platform struct {
	session *discordgo.Session
}

func newPlatform(session *discordgo.Session) *platform {
	return &platform{session: session}
}

func (p *platform) IsMember(ctx context.Context, guildID, userID string) bool {
	if member, err := p.session.State.Member(guildID, userID); err == nil && member != nil {
		return true
	}
	member, err := p.session.GuildMember(guildID, userID)
	return err == nil && member != nil
}

func (p *platform) Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	return mapDiscordError(p.session.GuildMemberTimeout(guildID, userID, &until))
}

// RemoveTimeout clears a communication timeout. Clearing a timeout that
// is not set succeeds.
func (p *platform) RemoveTimeout(ctx context.Context, guildID, userID string) error {
	err := mapDiscordError(p.session.GuildMemberTimeout(guildID, userID, nil))
	if errors.Is(err, cases.ErrNotFound) {
		return nil
	}
	return err
}

func (p *platform) Kick(ctx context.Context, guildID, userID, reason string) error {
	return mapDiscordError(p.session.GuildMemberDeleteWithReason(guildID, userID, reason))
}

func (p *platform) Ban(ctx context.Context, guildID, userID, reason string) error {
	return mapDiscordError(p.session.GuildBanCreateWithReason(guildID, userID, reason, 0))
}

func (p *platform) Unban(ctx context.Context, guildID, userID, reason string) error {
	return mapDiscordError(p.session.GuildBanDelete(guildID, userID))
}

func (p *platform) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	return mapDiscordError(p.session.GuildMemberRoleAdd(guildID, userID, roleID))
}

func mapDiscordError(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil {
		switch rest.Message.Code {
		case codeCannotDM:
			return cases.ErrForbidden
		case codeMissingPermission:
			return cases.ErrPermission
		case codeUnknownMember, codeUnknownBan:
			return cases.ErrNotFound
		}
	}
	return err
}
