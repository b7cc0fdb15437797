package admin

import (
	"github.com/bwmarrin/discordgo"

	"raffler/application"
)

// Feature handles admin-gated guild configuration
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new admin feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes raffle-admin subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "set_host_role":
		f.handleSetHostRole(s, i, options[0].Options)
	case "set_channel":
		f.handleSetChannel(s, i, options[0].Options)
	}
}
