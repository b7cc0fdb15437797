package admin

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"raffler/bot/common"
	"raffler/domain/services"
)

// handleSetHostRole sets or clears the role required to host raffles
func (f *Feature) handleSetHostRole(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to configure raffles")
		return
	}

	var roleID *int64
	var roleMention string
	for _, opt := range opts {
		if opt.Name == "role" {
			role := opt.RoleValue(s, i.GuildID)
			if role != nil {
				id, err := common.ParseUserID(role.ID)
				if err != nil {
					common.RespondWithError(s, i, "Invalid role")
					return
				}
				roleID = &id
				roleMention = role.Mention()
			}
		}
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := services.NewGuildSettingsService(uow.GuildSettingsRepository())
	if err := service.UpdateHostRole(ctx, roleID); err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to update host role"), false)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to save settings")
		return
	}

	msg := "Anyone with a host profile can now create raffles"
	if roleID != nil {
		msg = fmt.Sprintf("Only members with %s can now create raffles", roleMention)
	}
	if err := common.RespondWithSuccess(s, i, msg, true); err != nil {
		log.Errorf("Failed to send host role response: %v", err)
	}
}

// handleSetChannel sets or clears the raffle announcement channel
func (f *Feature) handleSetChannel(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to configure raffles")
		return
	}

	var channelID *int64
	var channelMention string
	for _, opt := range opts {
		if opt.Name == "channel" {
			channel := opt.ChannelValue(s)
			if channel != nil {
				id, err := common.ParseUserID(channel.ID)
				if err != nil {
					common.RespondWithError(s, i, "Invalid channel")
					return
				}
				channelID = &id
				channelMention = channel.Mention()
			}
		}
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := services.NewGuildSettingsService(uow.GuildSettingsRepository())
	if err := service.UpdateRaffleChannel(ctx, channelID); err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to update raffle channel"), false)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to save settings")
		return
	}

	msg := "Raffle announcements will post where the host runs the command"
	if channelID != nil {
		msg = fmt.Sprintf("Raffle announcements will post in %s", channelMention)
	}
	if err := common.RespondWithSuccess(s, i, msg, true); err != nil {
		log.Errorf("Failed to send channel response: %v", err)
	}
}
