package claims

import (
	"context"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"raffler/bot/common"
	"raffler/domain/entities"
	"raffler/domain/services"
)

// handleClaim processes /claim. Claims race on the slot unique index, so
// the whole transaction is retried on conflict with a fresh view of the
// taken numbers.
func (f *Feature) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, callerID, err := common.ParseInteractionIDs(i)
	if err != nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	quantity := 1
	claimantID := callerID
	claimantName := i.Member.User.Username
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "quantity":
			quantity = int(opt.IntValue())
		case "on_behalf_of":
			user := opt.UserValue(s)
			if user != nil {
				id, err := common.ParseUserID(user.ID)
				if err != nil {
					common.RespondWithError(s, i, "Invalid user")
					return
				}
				claimantID = id
				claimantName = user.Username
			}
		}
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	var result *entities.ClaimResult
	var hostMethods []*entities.PaymentMethod

	for attempt := 0; attempt < f.claimRetries; attempt++ {
		result, hostMethods, err = f.claimOnce(ctx, guildID, callerID, claimantID, claimantName, quantity)
		if err == nil {
			break
		}
		if !entities.IsConflict(err) {
			common.HandleError(s, i, common.FromDomain(err, "failed to claim slots"), true)
			return
		}
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"claimant": claimantID,
			"attempt":  attempt + 1,
		}).Warn("claim conflict, retrying")
	}
	if err != nil {
		common.FollowUpWithError(s, i, "Slots are going fast! Someone beat you to those numbers, please try again.")
		return
	}

	// The fill check must run after the claim commits so it sees slots
	// committed by concurrent claimants
	if result.Filled {
		f.finalizeFill(ctx, guildID, result.Raffle.ID)
	}

	proxy := claimantID != callerID
	if !proxy {
		f.sendPaymentInstructions(s, result, hostMethods)
	}

	if err := common.UpdateMessage(s, i, CreateClaimConfirmationEmbed(result, proxy), nil); err != nil {
		log.Errorf("Failed to send claim confirmation: %v", err)
	}
}

// claimOnce runs a single claim attempt in its own transaction
func (f *Feature) claimOnce(ctx context.Context, guildID, callerID, claimantID int64, claimantName string, quantity int) (*entities.ClaimResult, []*entities.PaymentMethod, error) {
	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Upsert(ctx, &entities.User{
		DiscordID: claimantID,
		Username:  claimantName,
	}); err != nil {
		return nil, nil, err
	}

	claimService := services.NewClaimService(
		uow.RaffleRepository(),
		uow.SlotRepository(),
		uow.HostRepository(),
		uow.EventBus(),
	)
	result, err := claimService.ClaimSlots(ctx, callerID, claimantID, quantity)
	if err != nil {
		return nil, nil, err
	}

	methods, err := uow.HostRepository().ListPaymentMethods(ctx, result.Raffle.HostID)
	if err != nil {
		log.Errorf("Failed to list host payment methods: %v", err)
		methods = nil
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}
	return result, methods, nil
}

// finalizeFill closes the raffle in a fresh transaction once the final
// slot is claimed
func (f *Feature) finalizeFill(ctx context.Context, guildID int64, raffleID string) {
	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin fill transaction: %v", err)
		return
	}
	defer uow.Rollback()

	claimService := services.NewClaimService(
		uow.RaffleRepository(),
		uow.SlotRepository(),
		uow.HostRepository(),
		uow.EventBus(),
	)
	closed, err := claimService.FinalizeFill(ctx, raffleID)
	if err != nil {
		log.WithField("raffle_id", raffleID).Errorf("Failed to finalize filled raffle: %v", err)
		return
	}
	if err := uow.Commit(); err != nil {
		log.Errorf("Failed to commit fill transaction: %v", err)
		return
	}
	if closed {
		log.WithField("raffle_id", raffleID).Info("raffle filled and closed")
	}
}

// sendPaymentInstructions DMs the claimant what they owe and where to send it
func (f *Feature) sendPaymentInstructions(s *discordgo.Session, result *entities.ClaimResult, methods []*entities.PaymentMethod) {
	dm, err := s.UserChannelCreate(common.FormatUserID(result.ClaimantID))
	if err != nil {
		log.WithField("claimant", result.ClaimantID).Errorf("Failed to open DM channel: %v", err)
		return
	}
	if _, err := s.ChannelMessageSendEmbed(dm.ID, CreatePaymentInstructionsEmbed(result, methods)); err != nil {
		log.WithField("claimant", result.ClaimantID).Errorf("Failed to send payment instructions: %v", err)
	}
}
