package host

import (
	"github.com/bwmarrin/discordgo"

	"raffler/application"
)

// Feature handles host profile and payment method commands
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new host feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes host subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "setup":
		f.handleSetup(s, i, options[0].Options)
	case "payment":
		if len(options[0].Options) == 0 {
			return
		}
		switch options[0].Options[0].Name {
		case "add":
			f.handlePaymentAdd(s, i, options[0].Options[0].Options)
		case "remove":
			f.handlePaymentRemove(s, i, options[0].Options[0].Options)
		}
	case "info":
		f.handleInfo(s, i, options[0].Options)
	}
}
