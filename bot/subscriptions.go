package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"raffler/bot/common"
	"raffler/domain/events"
	"raffler/infrastructure"
)

// RegisterBotSubscriptions registers bot-level event subscriptions. Fill
// events originate from claim transactions that have already responded to
// their interaction, so the announcement goes through the configured
// raffle channel instead.
func RegisterBotSubscriptions(bus *infrastructure.EventBus, bot *Bot) {
	bus.Subscribe(events.EventTypeRaffleFilled, func(ctx context.Context, event events.Event) {
		filled, ok := event.(events.RaffleFilled)
		if !ok {
			log.Errorf("received non-RaffleFilled event in fill handler: %T", event)
			return
		}
		bot.announceRaffleFilled(ctx, filled)
	})

	log.Info("Bot event subscriptions registered")
}

// announceRaffleFilled posts the fill notice to the guild's raffle channel
func (b *Bot) announceRaffleFilled(ctx context.Context, event events.RaffleFilled) {
	channelID, err := b.raffleChannelID(ctx, event.GuildID)
	if err != nil {
		log.WithField("guild_id", event.GuildID).Errorf("Failed to resolve raffle channel: %v", err)
		return
	}
	if channelID == "" {
		log.WithField("guild_id", event.GuildID).Debug("no raffle channel configured, skipping fill announcement")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎟️ Raffle %s Is Full!", event.RaffleCode),
		Color: common.ColorSuccess,
		Description: fmt.Sprintf("All %d slots of **%s** are claimed. %s can now draw with `/raffle pick_winner`.",
			event.TotalSlots, event.ItemTitle, common.GetUserMention(event.HostID)),
	}
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.WithFields(log.Fields{
			"guild_id":    event.GuildID,
			"raffle_code": event.RaffleCode,
		}).Errorf("Failed to post fill announcement: %v", err)
	}
}

func (b *Bot) raffleChannelID(ctx context.Context, guildID int64) (string, error) {
	uow := b.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx)
	if err != nil {
		return "", err
	}
	if err := uow.Commit(); err != nil {
		return "", err
	}

	if settings.RaffleChannelID == nil {
		return "", nil
	}
	return strconv.FormatInt(*settings.RaffleChannelID, 10), nil
}
