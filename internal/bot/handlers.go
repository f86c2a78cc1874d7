package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lumin/internal/afk"
	"lumin/internal/cases"
	"lumin/internal/economy"
	"lumin/internal/eventlog"
	"lumin/internal/snapshot"
	"lumin/internal/storage"
	"lumin/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx := context.Background()
	data := interaction.ApplicationCommandData()

	if interaction.GuildID == "" {
		b.respondText(session, interaction, b.t(b.cfg.DefaultLanguage, "common.internal_error", nil), true)
		return
	}
	lang := b.guildLanguage(ctx, interaction.GuildID)

	switch data.Name {
	case "warn":
		b.handleCaseCreate(ctx, session, interaction, lang, cases.KindWarn, data.Options)
	case "mute":
		b.handleCaseCreate(ctx, session, interaction, lang, cases.KindMute, data.Options)
	case "kick":
		b.handleCaseCreate(ctx, session, interaction, lang, cases.KindKick, data.Options)
	case "ban":
		b.handleCaseCreate(ctx, session, interaction, lang, cases.KindBan, data.Options)
	case "unmute":
		b.handleCaseRevoke(ctx, session, interaction, lang, cases.KindMute, data.Options)
	case "unban":
		b.handleCaseRevoke(ctx, session, interaction, lang, cases.KindBan, data.Options)
	case "case":
		b.handleCaseCommand(ctx, session, interaction, lang, data.Options)
	case "afk":
		b.handleAFK(ctx, session, interaction, lang, data.Options)
	case "balance", "deposit", "withdraw", "pay", "work", "leaderboard", "award", "take":
		b.handleEconomy(ctx, session, interaction, lang, data.Name, data.Options)
	case "shop":
		b.handleShop(ctx, session, interaction, lang, data.Options)
	case "snapshot":
		b.handleSnapshot(ctx, session, interaction, lang, data.Options)
	case "language":
		b.handleLanguage(ctx, session, interaction, data.Options)
	case "eventlog":
		b.handleEventLog(ctx, session, interaction, lang, data.Options)
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func (b *Bot) moderatorID(interaction *discordgo.InteractionCreate) string {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User.ID
	}
	return ""
}

func (b *Bot) handleCaseCreate(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, lang string, kind cases.Kind, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)

	userOpt, ok := opts["user"]
	if !ok || userOpt.UserValue(session) == nil {
		b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
		return
	}
	target := userOpt.UserValue(session)
	if target.ID == b.moderatorID(interaction) || target.Bot {
		b.respondText(session, interaction, b.t(lang, "common.permission_denied", nil), true)
		return
	}

	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	var expiresAt *time.Time
	if opt, ok := opts["duration"]; ok && opt.StringValue() != "" {
		d, err := utils.ParseDuration(opt.StringValue())
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "common.duration_invalid", map[string]string{"input": opt.StringValue()}), true)
			return
		}
		t := time.Now().Add(d)
		expiresAt = &t
	}
	if kind == cases.KindMute && expiresAt == nil {
		b.respondText(session, interaction, b.t(lang, "common.duration_invalid", map[string]string{"input": ""}), true)
		return
	}

	id, err := cases.GenerateID(interaction.ID)
	if err != nil {
		b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
		return
	}

	c := cases.Case{
		Kind:          kind,
		ID:            id,
		GuildID:       interaction.GuildID,
		TargetID:      target.ID,
		ModeratorID:   b.moderatorID(interaction),
		Reason:        reason,
		ExpiresAt:     expiresAt,
		OriginMessage: interaction.ID,
	}

	created, err := b.engine.Create(ctx, c)
	if err != nil {
		b.respondCaseError(session, interaction, lang, err)
		return
	}
	if created == nil {
		b.respondText(session, interaction, b.t(lang, "case.target_left", nil), true)
		return
	}

	b.events.Log(ctx, eventlog.LevelInfo, eventlog.ModuleMod, interaction.GuildID, target.ID,
		kind.String()+"_created", fmt.Sprintf("case #%d by <@%s>: %s", created.ID, created.ModeratorID, reason))

	content := b.t(lang, "case.created", map[string]string{
		"id":     strconv.FormatInt(created.ID, 10),
		"kind":   kind.String(),
		"target": "<@" + target.ID + ">",
	})
	b.respondText(session, interaction, content, false)
}

// handleCaseRevoke lifts the target's newest active case of the kind.
func (b *Bot) handleCaseRevoke(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, lang string, kind cases.Kind, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	userOpt, ok := opts["user"]
	if !ok || userOpt.UserValue(session) == nil {
		b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
		return
	}
	target := userOpt.UserValue(session)

	found, err := b.store.Find(ctx, interaction.GuildID, cases.Filter{TargetID: target.ID})
	if err != nil {
		b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
		return
	}

	now := time.Now()
	var match *cases.Case
	for i := range found {
		if found[i].Kind == kind && found[i].Active(now) {
			match = &found[i]
			break
		}
	}
	if match == nil {
		b.respondText(session, interaction, b.t(lang, "case.list_empty", nil), true)
		return
	}

	if err := b.engine.Delete(ctx, *match); err != nil {
		b.respondCaseError(session, interaction, lang, err)
		return
	}

	b.events.Log(ctx, eventlog.LevelInfo, eventlog.ModuleMod, interaction.GuildID, target.ID,
		kind.String()+"_revoked", fmt.Sprintf("case #%d by <@%s>", match.ID, b.moderatorID(interaction)))

	content := b.t(lang, "case.deleted", map[string]string{"id": strconv.FormatInt(match.ID, 10)})
	b.respondText(session, interaction, content, false)
}

func (b *Bot) handleCaseCommand(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, lang string, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
		return
	}
	sub := options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "info":
		id, err := strconv.ParseInt(opts["id"].StringValue(), 10, 64)
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "case.not_found", map[string]string{"id": opts["id"].StringValue()}), true)
			return
		}
		c, found, err := b.store.FindByID(ctx, interaction.GuildID, id)
		if err != nil || !found {
			b.respondText(session, interaction, b.t(lang, "case.not_found", map[string]string{"id": strconv.FormatInt(id, 10)}), true)
			return
		}
		b.respondEmbed(session, interaction, b.caseEmbed(c), true)
	case "list":
		filter := cases.Filter{Limit: 10}
		var targetID string
		if opt, ok := opts["user"]; ok && opt.UserValue(session) != nil {
			filter.TargetID = opt.UserValue(session).ID
			targetID = filter.TargetID
		}
		if opt, ok := opts["moderator"]; ok && opt.UserValue(session) != nil {
			filter.ModeratorID = opt.UserValue(session).ID
		}
		if opt, ok := opts["limit"]; ok && opt.IntValue() > 0 {
			filter.Limit = int(opt.IntValue())
		}
		found, err := b.store.Find(ctx, interaction.GuildID, filter)
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		if len(found) == 0 {
			b.respondText(session, interaction, b.t(lang, "case.list_empty", nil), true)
			return
		}

		lines := make([]string, 0, len(found))
		for _, c := range found {
			line := fmt.Sprintf("`#%d` **%s** <@%s>", c.ID, c.Kind, c.TargetID)
			if c.Reason != "" {
				line += " — " + c.Reason
			}
			lines = append(lines, line)
		}
		title := b.t(lang, "case.list_header", map[string]string{"target": "<@" + targetID + ">"})
		if targetID == "" {
			title = "Cases"
		}
		b.respondEmbed(session, interaction, b.commandEmbed(title, strings.Join(lines, "\n"), colorAction, nil), true)
	case "delete":
		id, err := strconv.ParseInt(opts["id"].StringValue(), 10, 64)
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "case.not_found", map[string]string{"id": opts["id"].StringValue()}), true)
			return
		}
		c, found, err := b.store.FindByID(ctx, interaction.GuildID, id)
		if err != nil || !found {
			b.respondText(session, interaction, b.t(lang, "case.not_found", map[string]string{"id": strconv.FormatInt(id, 10)}), true)
			return
		}
		if err := b.engine.Delete(ctx, c); err != nil {
			b.respondCaseError(session, interaction, lang, err)
			return
		}
		b.events.Log(ctx, eventlog.LevelInfo, eventlog.ModuleMod, interaction.GuildID, c.TargetID,
			"case_deleted", fmt.Sprintf("case #%d by <@%s>", c.ID, b.moderatorID(interaction)))
		b.respondText(session, interaction, b.t(lang, "case.deleted", map[string]string{"id": strconv.FormatInt(id, 10)}), false)
	case "edit":
		id, err := strconv.ParseInt(opts["id"].StringValue(), 10, 64)
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "case.not_found", map[string]string{"id": opts["id"].StringValue()}), true)
			return
		}
		c, found, err := b.store.FindByID(ctx, interaction.GuildID, id)
		if err != nil || !found {
			b.respondText(session, interaction, b.t(lang, "case.not_found", map[string]string{"id": strconv.FormatInt(id, 10)}), true)
			return
		}

		var patch cases.Patch
		if opt, ok := opts["reason"]; ok {
			reason := opt.StringValue()
			patch.Reason = &reason
		}
		if opt, ok := opts["duration"]; ok && opt.StringValue() != "" {
			d, err := utils.ParseDuration(opt.StringValue())
			if err != nil {
				b.respondText(session, interaction, b.t(lang, "common.duration_invalid", map[string]string{"input": opt.StringValue()}), true)
				return
			}
			t := time.Now().Add(d)
			patch.ExpiresAt = &t
		}
		if patch.Empty() {
			b.respondEmbed(session, interaction, b.caseEmbed(c), true)
			return
		}
		if err := b.engine.Edit(ctx, c, patch); err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "case.edited", map[string]string{"id": strconv.FormatInt(id, 10)}), false)
	}
}

func (b *Bot) caseEmbed(c cases.Case) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Kind", Value: c.Kind.String(), Inline: true},
		{Name: "Target", Value: "<@" + c.TargetID + ">", Inline: true},
		{Name: "Moderator", Value: "<@" + c.ModeratorID + ">", Inline: true},
	}
	if c.Reason != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Reason", Value: c.Reason})
	}
	if c.ExpiresAt != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Expires", Value: c.ExpiresAt.UTC().Format(time.RFC1123), Inline: true,
		})
	}
	return &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Case #%d", c.ID),
		Color:     colorAction,
		Fields:    fields,
		Timestamp: c.CreatedAt.Format(time.RFC3339),
	}
}

func (b *Bot) respondCaseError(session *discordgo.Session, interaction *discordgo.InteractionCreate, lang string, err error) {
	key := "common.internal_error"
	switch {
	case errors.Is(err, cases.ErrPermission):
		key = "common.permission_denied"
	case errors.Is(err, cases.ErrForbidden):
		key = "common.forbidden_dm"
	}
	b.logger.Warn("case command failed", zap.Error(err))
	b.respondText(session, interaction, b.t(lang, key, nil), true)
}

func (b *Bot) handleAFK(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, lang string, options []*discordgo.ApplicationCommandInteractionDataOption) {
	reason := ""
	if opts := optionMap(options); opts["reason"] != nil {
		reason = opts["reason"].StringValue()
	}

	currentNick := ""
	userID := b.moderatorID(interaction)
	if interaction.Member != nil {
		currentNick = interaction.Member.Nick
	}

	if err := b.afk.Set(ctx, interaction.GuildID, userID, reason, currentNick); err != nil {
		key := "common.internal_error"
		if errors.Is(err, afk.ErrInviteInReason) {
			key = "afk.invite_rejected"
		}
		b.respondText(session, interaction, b.t(lang, key, nil), true)
		return
	}

	// Prefix the nickname so the away state is visible in member lists.
	display := currentNick
	if display == "" && interaction.Member != nil && interaction.Member.User != nil {
		display = interaction.Member.User.Username
	}
	if err := session.GuildMemberNickname(interaction.GuildID, userID, "[AFK] "+display); err != nil {
		b.logger.Debug("afk nickname failed", zap.String("user_id", userID), zap.Error(err))
	}

	entry, _, _ := b.afk.Get(ctx, interaction.GuildID, userID)
	b.respondText(session, interaction, b.t(lang, "afk.enabled", map[string]string{"reason": entry.Reason}), false)
}

func (b *Bot) handleEconomy(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, lang, name string, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	userID := b.moderatorID(interaction)

	switch name {
	case "balance":
		targetID := userID
		if opt, ok := opts["user"]; ok && opt.UserValue(session) != nil {
			targetID = opt.UserValue(session).ID
		}
		bal, err := b.economy.Balance(ctx, interaction.GuildID, targetID)
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "economy.balance", map[string]string{
			"user": "<@" + targetID + ">",
			"cash": strconv.FormatInt(bal.Cash, 10),
			"bank": strconv.FormatInt(bal.Bank, 10),
		}), false)
	case "deposit":
		bal, err := b.economy.Deposit(ctx, interaction.GuildID, userID, opts["amount"].IntValue())
		if err != nil {
			b.respondEconomyError(session, interaction, lang, err)
			return
		}
		b.respondText(session, interaction, b.t(lang, "economy.deposited", map[string]string{
			"amount": strconv.FormatInt(opts["amount"].IntValue(), 10),
			"bank":   strconv.FormatInt(bal.Bank, 10),
		}), false)
	case "withdraw":
		bal, err := b.economy.Withdraw(ctx, interaction.GuildID, userID, opts["amount"].IntValue())
		if err != nil {
			b.respondEconomyError(session, interaction, lang, err)
			return
		}
		b.respondText(session, interaction, b.t(lang, "economy.withdrawn", map[string]string{
			"amount": strconv.FormatInt(opts["amount"].IntValue(), 10),
			"cash":   strconv.FormatInt(bal.Cash, 10),
		}), false)
	case "pay":
		target := opts["user"].UserValue(session)
		if target == nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		amount := opts["amount"].IntValue()
		if err := b.economy.Pay(ctx, interaction.GuildID, userID, target.ID, amount); err != nil {
			b.respondEconomyError(session, interaction, lang, err)
			return
		}
		b.events.Log(ctx, eventlog.LevelInfo, eventlog.ModuleEconomy, interaction.GuildID, userID,
			"payment", fmt.Sprintf("%d to <@%s>", amount, target.ID))
		b.respondText(session, interaction, b.t(lang, "economy.paid", map[string]string{
			"amount": strconv.FormatInt(amount, 10),
			"target": "<@" + target.ID + ">",
		}), false)
	case "work":
		earned, _, err := b.economy.Work(ctx, interaction.GuildID, userID)
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "economy.worked", map[string]string{
			"amount": strconv.FormatInt(earned, 10),
		}), false)
	case "leaderboard":
		top, err := b.economy.Top(ctx, interaction.GuildID, 10)
		if err != nil || len(top) == 0 {
			b.respondText(session, interaction, b.t(lang, "case.list_empty", nil), true)
			return
		}
		lines := make([]string, 0, len(top))
		for i, bal := range top {
			lines = append(lines, fmt.Sprintf("%d. <@%s> — %d", i+1, bal.UserID, bal.Cash+bal.Bank))
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Leaderboard", strings.Join(lines, "\n"), colorAction, nil), false)
	case "award":
		target := opts["user"].UserValue(session)
		if target == nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		amount := opts["amount"].IntValue()
		if _, err := b.economy.Award(ctx, interaction.GuildID, target.ID, amount); err != nil {
			b.respondEconomyError(session, interaction, lang, err)
			return
		}
		b.events.Log(ctx, eventlog.LevelInfo, eventlog.ModuleEconomy, interaction.GuildID, target.ID,
			"award", fmt.Sprintf("%d by <@%s>", amount, userID))
		b.respondText(session, interaction, b.t(lang, "economy.awarded", map[string]string{
			"amount": strconv.FormatInt(amount, 10),
			"target": "<@" + target.ID + ">",
		}), false)
	case "take":
		target := opts["user"].UserValue(session)
		if target == nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		amount := opts["amount"].IntValue()
		if _, err := b.economy.Take(ctx, interaction.GuildID, target.ID, amount); err != nil {
			b.respondEconomyError(session, interaction, lang, err)
			return
		}
		b.events.Log(ctx, eventlog.LevelInfo, eventlog.ModuleEconomy, interaction.GuildID, target.ID,
			"take", fmt.Sprintf("%d by <@%s>", amount, userID))
		b.respondText(session, interaction, b.t(lang, "economy.taken", map[string]string{
			"amount": strconv.FormatInt(amount, 10),
			"target": "<@" + target.ID + ">",
		}), false)
	}
}

func (b *Bot) respondEconomyError(session *discordgo.Session, interaction *discordgo.InteractionCreate, lang string, err error) {
	key := "common.internal_error"
	switch {
	case errors.Is(err, economy.ErrInsufficientFunds):
		key = "economy.insufficient"
	case errors.Is(err, economy.ErrInvalidAmount):
		key = "economy.invalid_amount"
	case errors.Is(err, economy.ErrItemNotFound):
		key = "shop.missing"
	}
	b.respondText(session, interaction, b.t(lang, key, nil), true)
}

func (b *Bot) handleShop(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, lang string, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
		return
	}
	sub := options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "list":
		items, err := b.store.ListShopItems(ctx, interaction.GuildID)
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		if len(items) == 0 {
			b.respondText(session, interaction, b.t(lang, "shop.list_empty", nil), true)
			return
		}
		lines := make([]string, 0, len(items))
		for _, item := range items {
			line := fmt.Sprintf("**%s** — %d", item.Name, item.Price)
			if item.Description != "" {
				line += " · " + item.Description
			}
			lines = append(lines, line)
		}
		b.respondEmbed(session, interaction, b.commandEmbed(b.t(lang, "shop.list_header", nil), strings.Join(lines, "\n"), colorAction, nil), false)
	case "buy":
		item, err := b.economy.Buy(ctx, interaction.GuildID, b.moderatorID(interaction), opts["item"].StringValue())
		if err != nil {
			if errors.Is(err, economy.ErrItemNotFound) {
				b.respondText(session, interaction, b.t(lang, "shop.missing", map[string]string{"item": opts["item"].StringValue()}), true)
				return
			}
			b.respondEconomyError(session, interaction, lang, err)
			return
		}
		b.respondText(session, interaction, b.t(lang, "shop.bought", map[string]string{
			"item":  item.Name,
			"price": strconv.FormatInt(item.Price, 10),
		}), false)
	case "add":
		item := storage.ShopItem{
			GuildID:   interaction.GuildID,
			Name:      opts["name"].StringValue(),
			Price:     opts["price"].IntValue(),
			CreatorID: b.moderatorID(interaction),
		}
		if opt, ok := opts["role"]; ok && opt.RoleValue(session, interaction.GuildID) != nil {
			item.RoleID = opt.RoleValue(session, interaction.GuildID).ID
		}
		if opt, ok := opts["description"]; ok {
			item.Description = opt.StringValue()
		}
		if err := b.store.AddShopItem(ctx, item); err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "shop.added", map[string]string{
			"item":  item.Name,
			"price": strconv.FormatInt(item.Price, 10),
		}), false)
	case "remove":
		name := opts["name"].StringValue()
		if err := b.store.RemoveShopItem(ctx, interaction.GuildID, name); err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "shop.removed", map[string]string{"item": name}), false)
	}
}

func (b *Bot) handleSnapshot(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, lang string, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
		return
	}
	sub := options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "save":
		payload, err := b.captureLayout(interaction.GuildID)
		if err != nil {
			b.logger.Warn("snapshot capture failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		code, err := b.snapshots.Save(ctx, interaction.GuildID, opts["name"].StringValue(), b.moderatorID(interaction), payload)
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.events.Log(ctx, eventlog.LevelInfo, eventlog.ModuleSnapshot, interaction.GuildID, b.moderatorID(interaction),
			"snapshot_saved", code)
		b.respondText(session, interaction, b.t(lang, "snapshot.created", map[string]string{"code": code}), false)
	case "load":
		code := opts["code"].StringValue()
		payload, _, err := b.snapshots.Load(ctx, code)
		if err != nil {
			if errors.Is(err, snapshot.ErrNotFound) {
				b.respondText(session, interaction, b.t(lang, "snapshot.not_found", map[string]string{"code": code}), true)
				return
			}
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		if err := b.applyLayout(interaction.GuildID, payload); err != nil {
			b.logger.Warn("snapshot apply failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
			b.respondText(session, interaction, b.t(lang, "common.permission_denied", nil), true)
			return
		}
		b.events.Log(ctx, eventlog.LevelWarn, eventlog.ModuleSnapshot, interaction.GuildID, b.moderatorID(interaction),
			"snapshot_applied", code)
		b.respondText(session, interaction, b.t(lang, "snapshot.applied", map[string]string{"code": code}), false)
	case "list":
		records, err := b.snapshots.List(ctx, interaction.GuildID)
		if err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		if len(records) == 0 {
			b.respondText(session, interaction, b.t(lang, "snapshot.list_empty", nil), true)
			return
		}
		lines := make([]string, 0, len(records))
		for _, record := range records {
			lines = append(lines, fmt.Sprintf("`%s` **%s** — %s", record.Code, record.Name, record.CreatedAt.UTC().Format("2006-01-02")))
		}
		b.respondEmbed(session, interaction, b.commandEmbed("Snapshots", strings.Join(lines, "\n"), colorAction, nil), true)
	case "delete":
		code := opts["code"].StringValue()
		if err := b.snapshots.Delete(ctx, interaction.GuildID, code); err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "snapshot.deleted", map[string]string{"code": code}), false)
	}
}

func (b *Bot) handleLanguage(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	settings := b.guildSettings(ctx, interaction.GuildID)
	lang := settings.Language
	if lang == "" {
		lang = b.cfg.DefaultLanguage
	}

	if len(options) == 0 {
		b.respondText(session, interaction, b.t(lang, "settings.language_set", map[string]string{"language": lang}), true)
		return
	}

	value := options[0].StringValue()
	if !b.responder.Has(value) {
		b.respondText(session, interaction, b.t(lang, "settings.language_unknown", map[string]string{
			"language":  value,
			"available": strings.Join(b.responder.Languages(), ", "),
		}), true)
		return
	}

	settings.Language = value
	if err := b.store.UpsertGuildSettings(ctx, settings); err != nil {
		b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
		return
	}
	b.respondText(session, interaction, b.t(value, "settings.language_set", map[string]string{"language": value}), false)
}

func (b *Bot) handleEventLog(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, lang string, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
		return
	}
	settings := b.guildSettings(ctx, interaction.GuildID)
	sub := options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "channel":
		channel := opts["channel"].ChannelValue(session)
		if channel == nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		settings.EventLogChannel = channel.ID
		if err := b.store.UpsertGuildSettings(ctx, settings); err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "settings.eventlog_channel_set", map[string]string{"channel": "<#" + channel.ID + ">"}), false)
	case "enable":
		settings.EventLogEnabled = true
		if err := b.store.UpsertGuildSettings(ctx, settings); err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "settings.eventlog_enabled", nil), false)
	case "disable":
		settings.EventLogEnabled = false
		if err := b.store.UpsertGuildSettings(ctx, settings); err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "settings.eventlog_disabled", nil), false)
	case "modules":
		var modules []string
		if opt, ok := opts["value"]; ok && opt.StringValue() != "" {
			for _, module := range strings.Split(opt.StringValue(), ",") {
				module = strings.TrimSpace(strings.ToLower(module))
				if module != "" {
					modules = append(modules, module)
				}
			}
		}
		settings.EventLogModules = modules
		if err := b.store.UpsertGuildSettings(ctx, settings); err != nil {
			b.respondText(session, interaction, b.t(lang, "common.internal_error", nil), true)
			return
		}
		b.respondText(session, interaction, b.t(lang, "settings.eventlog_enabled", nil), false)
	}
}
