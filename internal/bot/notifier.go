package bot

import (
	"context"
	"time"

	"lumin/internal/cases"
	"lumin/internal/respond"
	"lumin/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// notifier delivers case messages to targets over DM, rendered in the
// guild's configured language.
type notifier struct {
	session     *discordgo.Session
	store       *storage.Store
	responder   *respond.Responder
	defaultLang string
}

func newNotifier(session *discordgo.Session, store *storage.Store, responder *respond.Responder, defaultLang string) *notifier {
	return &notifier{session: session, store: store, responder: responder, defaultLang: defaultLang}
}

func (n *notifier) Notify(ctx context.Context, c cases.Case, key string) error {
	channel, err := n.session.UserChannelCreate(c.TargetID)
	if err != nil {
		return mapDiscordError(err)
	}
	content := n.Render(ctx, c.GuildID, key, c)
	_, err = n.session.ChannelMessageSend(channel.ID, content)
	return mapDiscordError(err)
}

func (n *notifier) Render(ctx context.Context, guildID, key string, c cases.Case) string {
	lang := n.language(ctx, guildID)

	reason := c.Reason
	if reason == "" {
		reason = n.responder.Get(lang, "mod.no_reason", nil)
	}

	vars := map[string]string{
		"guild":     n.guildName(guildID),
		"reason":    reason,
		"moderator": "<@" + c.ModeratorID + ">",
	}
	if c.ExpiresAt != nil {
		vars["expires"] = c.ExpiresAt.UTC().Format(time.RFC1123)
	}
	return n.responder.Get(lang, key, vars)
}

func (n *notifier) language(ctx context.Context, guildID string) string {
	defaults := storage.GuildSettings{Language: n.defaultLang}
	settings, err := n.store.GetGuildSettings(ctx, guildID, defaults)
	if err != nil || settings.Language == "" {
		return n.defaultLang
	}
	return settings.Language
}

func (n *notifier) guildName(guildID string) string {
	if guild, err := n.session.State.Guild(guildID); err == nil && guild != nil {
		return guild.Name
	}
	if guild, err := n.session.Guild(guildID); err == nil && guild != nil {
		return guild.Name
	}
	return guildID
}
