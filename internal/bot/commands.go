package bot

import "github.com/bwmarrin/discordgo"

var (
	permModerate = int64(discordgo.PermissionModerateMembers)
	permKick     = int64(discordgo.PermissionKickMembers)
	permBan      = int64(discordgo.PermissionBanMembers)
	permManage   = int64(discordgo.PermissionManageServer)
)

func (b *Bot) commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     "warn",
			Description:              "Warn a member",
			DefaultMemberPermissions: &permModerate,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "member to warn", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "reason for the warning"},
			},
		},
		{
			Name:                     "mute",
			Description:              "Mute a member for a duration",
			DefaultMemberPermissions: &permModerate,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "member to mute", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "for how long, e.g. 30m or 1d12h", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "reason for the mute"},
			},
		},
		{
			Name:                     "unmute",
			Description:              "Lift a member's mute",
			DefaultMemberPermissions: &permModerate,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "member to unmute", Required: true},
			},
		},
		{
			Name:                     "kick",
			Description:              "Kick a member",
			DefaultMemberPermissions: &permKick,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "member to kick", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "reason for the kick"},
			},
		},
		{
			Name:                     "ban",
			Description:              "Ban a member",
			DefaultMemberPermissions: &permBan,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "member to ban", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "temporary ban length, e.g. 7d"},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "reason for the ban"},
			},
		},
		{
			Name:                     "unban",
			Description:              "Lift a member's ban",
			DefaultMemberPermissions: &permBan,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "user to unban", Required: true},
			},
		},
		{
			Name:                     "case",
			Description:              "Inspect and manage moderation cases",
			DefaultMemberPermissions: &permModerate,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "info", Description: "Show one case",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "case id", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List cases",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "filter by target"},
						{Type: discordgo.ApplicationCommandOptionUser, Name: "moderator", Description: "filter by moderator"},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "limit", Description: "max results"},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "delete", Description: "Delete a case and undo its action",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "case id", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "edit", Description: "Edit a case",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "case id", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "new reason"},
						{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "new duration from now"},
					},
				},
			},
		},
		{
			Name:        "afk",
			Description: "Mark yourself away",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "why you are away"},
			},
		},
		{
			Name:        "balance",
			Description: "Show a member's balance",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "whose balance"},
			},
		},
		{
			Name:        "deposit",
			Description: "Move cash into your bank",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "how much", Required: true},
			},
		},
		{
			Name:        "withdraw",
			Description: "Take cash out of your bank",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "how much", Required: true},
			},
		},
		{
			Name:        "pay",
			Description: "Pay another member",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "who to pay", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "how much", Required: true},
			},
		},
		{
			Name:        "work",
			Description: "Earn some cash",
		},
		{
			Name:        "leaderboard",
			Description: "Richest members of this server",
		},
		{
			Name:                     "award",
			Description:              "Add cash to a member",
			DefaultMemberPermissions: &permManage,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "who to award", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "how much", Required: true},
			},
		},
		{
			Name:                     "take",
			Description:              "Remove cash from a member",
			DefaultMemberPermissions: &permManage,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "who to take from", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "how much", Required: true},
			},
		},
		{
			Name:        "shop",
			Description: "Server shop",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List shop items"},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "buy", Description: "Buy an item",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "item name", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "add", Description: "Add an item",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "item name", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "price", Description: "price in cash", Required: true},
						{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "role granted on purchase"},
						{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "item description"},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "remove", Description: "Remove an item",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "item name", Required: true},
					},
				},
			},
		},
		{
			Name:                     "snapshot",
			Description:              "Save and restore the server layout",
			DefaultMemberPermissions: &permManage,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "save", Description: "Save roles and channels",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "snapshot name", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "load", Description: "Apply a snapshot by share code",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "code", Description: "share code", Required: true},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List this server's snapshots"},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "delete", Description: "Delete a snapshot",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "code", Description: "share code", Required: true},
					},
				},
			},
		},
		{
			Name:                     "language",
			Description:              "View or set the server language",
			DefaultMemberPermissions: &permManage,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionString, Name: "value", Description: "language code",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "English", Value: "en"},
						{Name: "Magyar", Value: "hu"},
					},
				},
			},
		},
		{
			Name:                     "eventlog",
			Description:              "Configure event logging",
			DefaultMemberPermissions: &permManage,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "channel", Description: "Pick the log channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "where to post events", Required: true},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "enable", Description: "Turn event logging on"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "disable", Description: "Turn event logging off"},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "modules", Description: "Limit logging to some modules",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "value", Description: "comma-separated list, empty for all"},
					},
				},
			},
		},
	}
}

func (b *Bot) registerCommands() error {
	commands := b.commandDefinitions()

	appID := b.session.State.User.ID
	existing, err := b.session.ApplicationCommands(appID, "")
	if err != nil {
		for _, cmd := range commands {
			if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
				return err
			}
		}
		return nil
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingByName[cmd.Name] = cmd
	}

	desired := make(map[string]struct{})
	for _, cmd := range commands {
		desired[cmd.Name] = struct{}{}
		if current, ok := existingByName[cmd.Name]; ok {
			if _, err := b.session.ApplicationCommandEdit(appID, "", current.ID, cmd); err != nil {
				return err
			}
			continue
		}
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}

	for _, cmd := range existing {
		if _, ok := desired[cmd.Name]; ok {
			continue
		}
		_ = b.session.ApplicationCommandDelete(appID, "", cmd.ID)
	}

	return nil
}
