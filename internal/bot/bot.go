package bot

import (
	"context"
	"time"

	"lumin/internal/afk"
	"lumin/internal/cases"
	"lumin/internal/config"
	"lumin/internal/economy"
	"lumin/internal/eventlog"
	"lumin/internal/respond"
	"lumin/internal/snapshot"
	"lumin/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	colorAction  = 0x57F287
	colorWarning = 0xF59E0B
	colorError   = 0xED4245
)

type Bot struct {
	cfg       config.Config
	logger    *zap.Logger
	store     *storage.Store
	session   *discordgo.Session
	responder *respond.Responder
	events    *eventlog.Logger

	platform  *platform
	engine    *cases.Engine
	scheduler *cases.Scheduler
	economy   *economy.Service
	afk       *afk.Service
	snapshots *snapshot.Service
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, responder *respond.Responder, events *eventlog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		session:   session,
		responder: responder,
		events:    events,
	}

	b.platform = newPlatform(session)
	caseNotifier := newNotifier(session, store, responder, cfg.DefaultLanguage)
	b.engine = cases.NewEngine(store, b.platform, caseNotifier, logger)
	b.scheduler = cases.NewScheduler(b.engine, store, logger,
		time.Duration(cfg.SchedulerIntervalSeconds)*time.Second)
	b.engine.SetScheduler(b.scheduler)

	b.economy = economy.NewService(store, cfg.Economy, b.platform, logger)
	b.afk = afk.NewService(store, logger)
	b.snapshots = snapshot.NewService(store)

	b.events.SetNotifier(func(ctx context.Context, channelID string, entry storage.EventLog) {
		b.postEventEmbed(channelID, entry)
	})

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	// Timed cases persisted before a restart still need their expiry scan.
	b.scheduler.Restart()

	return nil
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	b.scheduler.Stop()
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready",
		zap.String("user", session.State.User.Username),
		zap.Int("guilds", len(event.Guilds)))
}

// onMessageCreate drives the AFK flow: a message from an away member
// clears their status, and mentioning an away member echoes their reason.
func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.Author.Bot || msg.GuildID == "" {
		return
	}

	ctx := context.Background()
	lang := b.guildLanguage(ctx, msg.GuildID)

	prevNick, cleared, err := b.afk.Clear(ctx, msg.GuildID, msg.Author.ID)
	if err != nil {
		b.logger.Warn("afk clear failed", zap.String("user_id", msg.Author.ID), zap.Error(err))
	} else if cleared {
		if prevNick != "" {
			if err := session.GuildMemberNickname(msg.GuildID, msg.Author.ID, prevNick); err != nil {
				b.logger.Debug("nickname restore failed", zap.String("user_id", msg.Author.ID), zap.Error(err))
			}
		}
		content := b.responder.Get(lang, "afk.disabled", nil)
		if _, err := session.ChannelMessageSendReply(msg.ChannelID, content, msg.Reference()); err != nil {
			b.logger.Debug("afk reply failed", zap.Error(err))
		}
	}

	for _, mention := range msg.Mentions {
		if mention == nil || mention.ID == msg.Author.ID {
			continue
		}
		entry, found, err := b.afk.Get(ctx, msg.GuildID, mention.ID)
		if err != nil || !found {
			continue
		}
		content := b.responder.Get(lang, "afk.notice", map[string]string{
			"user":   "<@" + mention.ID + ">",
			"reason": entry.Reason,
		})
		if _, err := session.ChannelMessageSend(msg.ChannelID, content); err != nil {
			b.logger.Debug("afk notice failed", zap.Error(err))
		}
	}
}

func (b *Bot) guildSettings(ctx context.Context, guildID string) storage.GuildSettings {
	defaults := storage.GuildSettings{Language: b.cfg.DefaultLanguage}
	settings, err := b.store.GetGuildSettings(ctx, guildID, defaults)
	if err != nil {
		b.logger.Warn("guild settings load failed", zap.String("guild_id", guildID), zap.Error(err))
		defaults.GuildID = guildID
		return defaults
	}
	return settings
}

func (b *Bot) guildLanguage(ctx context.Context, guildID string) string {
	lang := b.guildSettings(ctx, guildID).Language
	if lang == "" {
		lang = b.cfg.DefaultLanguage
	}
	return lang
}

func (b *Bot) t(lang, key string, vars map[string]string) string {
	return b.responder.Get(lang, key, vars)
}

func (b *Bot) respondText(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: flags},
	})
	if err != nil {
		b.logger.Warn("interaction response failed", zap.Error(err))
	}
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}, Flags: flags},
	})
	if err != nil {
		b.logger.Warn("interaction response failed", zap.Error(err))
	}
}

func (b *Bot) commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields:      fields,
	}
}

func (b *Bot) postEventEmbed(channelID string, entry storage.EventLog) {
	color := colorAction
	switch entry.Level {
	case eventlog.LevelWarn:
		color = colorWarning
	case eventlog.LevelCrit:
		color = colorError
	}
	embed := &discordgo.MessageEmbed{
		Title:       entry.Event,
		Description: entry.Details,
		Color:       color,
		Timestamp:   entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.UserID != "" {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "User", Value: "<@" + entry.UserID + ">", Inline: true},
		}
	}
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Warn("event channel post failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}
