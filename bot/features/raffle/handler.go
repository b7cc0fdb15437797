package raffle

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"raffler/application"
	"raffler/bot/common"
	"raffler/domain/entities"
	"raffler/domain/interfaces"
	"raffler/domain/services"
)

func (f *Feature) newService(uow application.UnitOfWork) interfaces.RaffleService {
	return services.NewRaffleService(
		uow.RaffleRepository(),
		uow.SlotRepository(),
		uow.HostRepository(),
		uow.GuildSettingsRepository(),
		uow.EventBus(),
	)
}

// handleCreate creates the pending raffle and opens the details modal
func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, hostID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	var title string
	var images []string
	for _, opt := range opts {
		switch opt.Name {
		case "title":
			title = opt.StringValue()
		case "image":
			attachmentID, ok := opt.Value.(string)
			if !ok {
				continue
			}
			if att, found := i.ApplicationCommandData().Resolved.Attachments[attachmentID]; found {
				images = append(images, att.URL)
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

	service := f.newService(uow)
	raffle, err := service.CreateRaffle(ctx, hostID, common.MemberRoleIDs(i), title, images)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to create raffle"), false)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to create raffle")
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: CreateDetailsModal(raffle.RaffleCode),
	}); err != nil {
		log.Errorf("Failed to open details modal: %v", err)
	}
}

// handleDetailsModal fixes pricing on the pending raffle and shows the preview
func (f *Feature) handleDetailsModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	data := i.ModalSubmitData()

	guildID, hostID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	values := modalValues(data)

	marketPrice, err := entities.ParseCents(values["market_price"])
	if err != nil {
		common.RespondWithError(s, i, "Please enter a valid market price, e.g. 120 or 119.99")
		return
	}
	totalSlots, err := strconv.Atoi(strings.TrimSpace(values["total_slots"]))
	if err != nil || totalSlots < 1 {
		common.RespondWithError(s, i, "Total slots must be a positive whole number")
		return
	}
	maxPerUser, err := strconv.Atoi(strings.TrimSpace(values["max_slots_per_user"]))
	if err != nil || maxPerUser < 1 {
		common.RespondWithError(s, i, "Max slots per user must be a positive whole number")
		return
	}

	var closeTimer *time.Time
	if raw := strings.TrimSpace(values["duration_hours"]); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 1 {
			common.RespondWithError(s, i, "Duration must be a whole number of hours")
			return
		}
		deadline := time.Now().UTC().Add(time.Duration(hours) * time.Hour)
		closeTimer = &deadline
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := f.newService(uow)
	raffle, err := service.ConfirmDetails(ctx, hostID, values["description"], marketPrice, totalSlots, maxPerUser, closeTimer)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to confirm raffle details"), false)
		return
	}

	// Commission figures on the preview come from the host's profile so
	// the preview and the payout never disagree
	var commission services.Commission
	if profile, err := uow.HostRepository().GetByID(ctx, hostID); err != nil {
		log.Errorf("Failed to get host profile for preview: %v", err)
	} else if profile != nil {
		commission, err = services.ParseCommission(profile.CommissionRate)
		if err != nil {
			log.Warnf("Stored commission rate %q no longer parses: %v", profile.CommissionRate, err)
		}
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to save raffle details")
		return
	}

	embed := CreatePricingPreviewEmbed(raffle, commission.AmountOn(raffle.MarketPrice), services.NetToHost(raffle.MarketPrice, commission))
	if err := common.RespondWithEmbed(s, i, embed, CreateConfirmComponents(), true); err != nil {
		log.Errorf("Failed to send pricing preview: %v", err)
	}
}

// handleConfirmButton activates the pending raffle and announces it
func (f *Feature) handleConfirmButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, hostID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := f.newService(uow)
	raffle, err := service.ActivateRaffle(ctx, hostID)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to activate raffle"), false)
		return
	}

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx)
	if err != nil {
		log.Errorf("Failed to get guild settings: %v", err)
		common.RespondWithError(s, i, "Failed to start raffle")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to start raffle")
		return
	}

	// Replace the ephemeral preview so the buttons cannot fire twice
	content := fmt.Sprintf("✅ Raffle **%s** is live!", raffle.RaffleCode)
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	}); err != nil {
		log.Errorf("Failed to update confirmation message: %v", err)
	}

	// Announce in the configured raffle channel, falling back to wherever
	// the host ran the command
	channelID := i.ChannelID
	if settings.RaffleChannelID != nil {
		channelID = strconv.FormatInt(*settings.RaffleChannelID, 10)
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, CreateAnnouncementEmbed(raffle)); err != nil {
		log.WithFields(log.Fields{
			"raffle_code": raffle.RaffleCode,
			"channel_id":  channelID,
		}).Errorf("Failed to post raffle announcement: %v", err)
	}
}

// handleCancelButton deletes the pending raffle
func (f *Feature) handleCancelButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, hostID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := f.newService(uow)
	if err := service.CancelPending(ctx, hostID); err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to cancel pending raffle"), false)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to cancel raffle")
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Raffle cancelled.",
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	}); err != nil {
		log.Errorf("Failed to update cancellation message: %v", err)
	}
}

// handleClose closes the active raffle manually
func (f *Feature) handleClose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, callerID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := f.newService(uow)
	raffle, err := service.CloseRaffle(ctx, callerID)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to close raffle"), false)
		return
	}

	claimed, err := uow.SlotRepository().CountByRaffle(ctx, raffle.ID)
	if err != nil {
		log.Errorf("Failed to count claimed slots: %v", err)
		common.RespondWithError(s, i, "Failed to close raffle")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to close raffle")
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateClosedEmbed(raffle, claimed), nil, false); err != nil {
		log.Errorf("Failed to send close response: %v", err)
	}
}

// handleUpdate changes the per-user cap on the active raffle
func (f *Feature) handleUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, callerID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	maxPerUser := 0
	for _, opt := range opts {
		if opt.Name == "max_slots_per_user" {
			maxPerUser = int(opt.IntValue())
		}
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := f.newService(uow)
	raffle, err := service.UpdateMaxSlots(ctx, callerID, maxPerUser)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to update max slots"), false)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to update raffle")
		return
	}

	msg := fmt.Sprintf("Raffle **%s** now allows up to %d slots per user", raffle.RaffleCode, raffle.MaxSlotsPerUser)
	if err := common.RespondWithSuccess(s, i, msg, false); err != nil {
		log.Errorf("Failed to send update response: %v", err)
	}
}

// handlePickWinner draws the winner for the guild's raffle
func (f *Feature) handlePickWinner(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, callerID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	service := f.newService(uow)
	info, err := service.PickWinner(ctx, callerID)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to pick winner"), false)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit transaction: %v", err)
		common.RespondWithError(s, i, "Failed to record winner")
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateWinnerEmbed(info), nil, false); err != nil {
		log.Errorf("Failed to send winner response: %v", err)
	}
}

// handleStatus shows the active raffle, or a specific one by code
func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	var code string
	for _, opt := range opts {
		if opt.Name == "raffle_code" {
			code = strings.TrimSpace(opt.StringValue())
		}
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	var info *entities.RaffleStatusInfo
	if code == "" {
		info, err = f.newService(uow).GetStatus(ctx)
		if err != nil {
			common.HandleError(s, i, common.FromDomain(err, "failed to get raffle status"), false)
			return
		}
	} else {
		raffle, err := uow.RaffleRepository().GetByCode(ctx, code)
		if err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to look up raffle by code"), false)
			return
		}
		if raffle == nil {
			common.RespondWithError(s, i, fmt.Sprintf("No raffle found with code %s", code))
			return
		}
		claimed, err := uow.SlotRepository().CountByRaffle(ctx, raffle.ID)
		if err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to count claimed slots"), false)
			return
		}
		info = &entities.RaffleStatusInfo{Raffle: raffle, ClaimedSlots: claimed}
	}

	if err := common.RespondWithEmbed(s, i, CreateStatusEmbed(info), nil, false); err != nil {
		log.Errorf("Failed to send status response: %v", err)
	}
}

// handleList shows one page of the guild's raffle history
func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	page := 1
	for _, opt := range opts {
		if opt.Name == "page" {
			page = int(opt.IntValue())
		}
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	result, err := f.newService(uow).ListRaffles(ctx, page)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to list raffles"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, CreateListEmbed(result), CreateListComponents(result), false); err != nil {
		log.Errorf("Failed to send list response: %v", err)
	}
}

// handleListPage flips the history embed to another page in place
func (f *Feature) handleListPage(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	customID := i.MessageComponentData().CustomID

	page, err := strconv.Atoi(strings.TrimPrefix(customID, "raffle_page_"))
	if err != nil {
		common.RespondWithError(s, i, "Invalid page button")
		return
	}

	guildID, _, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	result, err := f.newService(uow).ListRaffles(ctx, page)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to list raffles"), false)
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{CreateListEmbed(result)},
			Components: CreateListComponents(result),
		},
	}); err != nil {
		log.Errorf("Failed to update list page: %v", err)
	}
}

// handleParticipants DMs the host the per-claimant slot report
func (f *Feature) handleParticipants(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, callerID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		common.RespondWithError(s, i, "Failed to process request")
		return
	}
	defer uow.Rollback()

	raffle, participants, err := f.newService(uow).GetParticipants(ctx)
	if err != nil {
		common.HandleError(s, i, common.FromDomain(err, "failed to get participants"), false)
		return
	}
	if raffle.HostID != callerID {
		common.RespondWithError(s, i, "Only the host can view the participant report")
		return
	}

	dm, err := s.UserChannelCreate(common.FormatUserID(callerID))
	if err != nil {
		log.Errorf("Failed to open DM channel: %v", err)
		common.RespondWithError(s, i, "Could not open a DM with you, check your privacy settings")
		return
	}
	if _, err := s.ChannelMessageSendEmbed(dm.ID, CreateParticipantsEmbed(raffle, participants)); err != nil {
		log.Errorf("Failed to send participants DM: %v", err)
		common.RespondWithError(s, i, "Could not DM you the report, check your privacy settings")
		return
	}

	if err := common.RespondWithSuccess(s, i, "Sent you the participant report in a DM", true); err != nil {
		log.Errorf("Failed to send participants response: %v", err)
	}
}

// modalValues flattens text inputs into a custom-id keyed map
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}
