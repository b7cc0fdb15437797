package raffle

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"raffler/application"
	"raffler/bot/common"
)

// Feature handles the raffle lifecycle commands and interactions
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new raffle feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes raffle subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "create":
		f.handleCreate(s, i, options[0].Options)
	case "close":
		f.handleClose(s, i)
	case "update":
		f.handleUpdate(s, i, options[0].Options)
	case "pick_winner":
		f.handlePickWinner(s, i)
	case "status":
		f.handleStatus(s, i, options[0].Options)
	case "list":
		f.handleList(s, i, options[0].Options)
	case "participants":
		f.handleParticipants(s, i)
	}
}

// HandleInteraction handles raffle button interactions and modals
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		f.handleComponentInteraction(s, i)
	case discordgo.InteractionModalSubmit:
		f.handleModalSubmit(s, i)
	default:
		log.Warnf("Unknown interaction type in raffle: %v", i.Type)
	}
}

func (f *Feature) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case customID == "raffle_confirm":
		f.handleConfirmButton(s, i)
	case customID == "raffle_cancel":
		f.handleCancelButton(s, i)
	case strings.HasPrefix(customID, "raffle_page_"):
		f.handleListPage(s, i)
	default:
		common.RespondWithError(s, i, "Unknown raffle interaction")
	}
}

func (f *Feature) handleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.ModalSubmitData().CustomID

	if customID == "raffle_details_modal" {
		f.handleDetailsModal(s, i)
		return
	}

	log.Warnf("Unknown raffle modal customID: %s", customID)
	common.RespondWithError(s, i, "Unknown raffle modal")
}
