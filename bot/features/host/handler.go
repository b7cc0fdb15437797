package host

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"raffler/bot/common"
	"raffler/domain/services"
)

// handleSetup creates or replaces the caller's host profile
func (f *Feature) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, hostID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	var commission string
	var localMeetup, shipping, proxyClaims bool
	for _, opt := range opts {
		switch opt.Name {
		case "commission":
			commission = opt.StringValue()
		case "local_meetup":
			localMeetup = opt.BoolValue()
		case "shipping":
			shipping = opt.BoolValue()
		case "allow_proxy_claims":
			proxyClaims = opt.BoolValue()
		}
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := services.NewHostService(uow.HostRepository())
	profile, err := service.SetupProfile(ctx, hostID, commission, localMeetup, shipping, proxyClaims)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to set up host profile"), false)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to save host profile")
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateProfileSavedEmbed(profile), nil, true); err != nil {
		log.Errorf("Failed to send setup response: %v", err)
	}
}

// handlePaymentAdd registers a payment handle for a platform
func (f *Feature) handlePaymentAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, hostID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	var platform, handle string
	for _, opt := range opts {
		switch opt.Name {
		case "platform":
			platform = opt.StringValue()
		case "handle":
			handle = opt.StringValue()
		}
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := services.NewHostService(uow.HostRepository())
	if err := service.AddPaymentMethod(ctx, hostID, platform, handle); err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to add payment method"), false)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to save payment method")
		return
	}

	msg := fmt.Sprintf("Added **%s** payment method", platform)
	if err := common.RespondWithSuccess(s, i, msg, true); err != nil {
		log.Errorf("Failed to send payment add response: %v", err)
	}
}

// handlePaymentRemove removes the handle for a platform
func (f *Feature) handlePaymentRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, hostID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	var platform string
	for _, opt := range opts {
		if opt.Name == "platform" {
			platform = opt.StringValue()
		}
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := services.NewHostService(uow.HostRepository())
	if err := service.RemovePaymentMethod(ctx, hostID, platform); err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to remove payment method"), false)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to remove payment method")
		return
	}

	msg := fmt.Sprintf("Removed **%s** payment method", platform)
	if err := common.RespondWithSuccess(s, i, msg, true); err != nil {
		log.Errorf("Failed to send payment remove response: %v", err)
	}
}

// handleInfo shows a host's profile and payment methods
func (f *Feature) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, callerID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	hostID := callerID
	for _, opt := range opts {
		if opt.Name == "user" {
			user := opt.UserValue(s)
			if user != nil {
				id, err := common.ParseUserID(user.ID)
				if err != nil {
					common.RespondWithError(s, i, "Invalid user")
					return
				}
				hostID = id
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

	service := services.NewHostService(uow.HostRepository())
	profile, methods, err := service.GetHostInfo(ctx, hostID)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to get host info"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateHostInfoEmbed(profile, methods), nil, true); err != nil {
		log.Errorf("Failed to send host info response: %v", err)
	}
}
