package bot

import (
	"sort"

	"lumin/internal/snapshot"

	"github.com/bwmarrin/discordgo"
)

// captureLayout reads the guild's roles and channels into a portable
// snapshot payload. Managed roles and the @everyone role are skipped
// since they cannot be recreated elsewhere.
func (b *Bot) captureLayout(guildID string) (snapshot.Payload, error) {
	guild, err := b.session.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = b.session.Guild(guildID)
		if err != nil {
			return snapshot.Payload{}, err
		}
	}

	payload := snapshot.Payload{Name: guild.Name}

	for _, role := range guild.Roles {
		if role == nil || role.ID == guildID || role.Managed {
			continue
		}
		payload.Roles = append(payload.Roles, snapshot.Role{
			Name:        role.Name,
			Color:       role.Color,
			Permissions: role.Permissions,
			Hoist:       role.Hoist,
			Mentionable: role.Mentionable,
			Position:    role.Position,
		})
	}
	sort.Slice(payload.Roles, func(i, j int) bool { return payload.Roles[i].Position < payload.Roles[j].Position })

	channels, err := b.session.GuildChannels(guildID)
	if err != nil {
		return snapshot.Payload{}, err
	}

	parentNames := make(map[string]string)
	for _, channel := range channels {
		if channel != nil && channel.Type == discordgo.ChannelTypeGuildCategory {
			parentNames[channel.ID] = channel.Name
		}
	}
	for _, channel := range channels {
		if channel == nil {
			continue
		}
		switch channel.Type {
		case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildCategory, discordgo.ChannelTypeGuildNews:
		default:
			continue
		}
		payload.Channels = append(payload.Channels, snapshot.Channel{
			Name:     channel.Name,
			Type:     int(channel.Type),
			Topic:    channel.Topic,
			Parent:   parentNames[channel.ParentID],
			Position: channel.Position,
			NSFW:     channel.NSFW,
		})
	}
	sort.Slice(payload.Channels, func(i, j int) bool { return payload.Channels[i].Position < payload.Channels[j].Position })

	return payload, nil
}

// applyLayout creates the payload's roles and channels in the guild.
// Existing structure is left alone; the snapshot adds, it never deletes.
func (b *Bot) applyLayout(guildID string, payload snapshot.Payload) error {
	for _, role := range payload.Roles {
		color := role.Color
		hoist := role.Hoist
		mentionable := role.Mentionable
		permissions := role.Permissions
		params := &discordgo.RoleParams{
			Name:        role.Name,
			Color:       &color,
			Hoist:       &hoist,
			Permissions: &permissions,
			Mentionable: &mentionable,
		}
		if _, err := b.session.GuildRoleCreate(guildID, params); err != nil {
			return mapDiscordError(err)
		}
	}

	// Categories first so their children can reference them.
	categoryIDs := make(map[string]string)
	for _, channel := range payload.Channels {
		if channel.Type != int(discordgo.ChannelTypeGuildCategory) {
			continue
		}
		created, err := b.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:     channel.Name,
			Type:     discordgo.ChannelTypeGuildCategory,
			Position: channel.Position,
		})
		if err != nil {
			return mapDiscordError(err)
		}
		categoryIDs[channel.Name] = created.ID
	}

	for _, channel := range payload.Channels {
		if channel.Type == int(discordgo.ChannelTypeGuildCategory) {
			continue
		}
		data := discordgo.GuildChannelCreateData{
			Name:     channel.Name,
			Type:     discordgo.ChannelType(channel.Type),
			Topic:    channel.Topic,
			Position: channel.Position,
			NSFW:     channel.NSFW,
			ParentID: categoryIDs[channel.Parent],
		}
		if _, err := b.session.GuildChannelCreateComplex(guildID, data); err != nil {
			return mapDiscordError(err)
		}
	}
	return nil
}
