package claims

import (
	"github.com/bwmarrin/discordgo"

	"raffler/application"
)

// Feature handles slot claims
type Feature struct {
	session      *discordgo.Session
	uowFactory   application.UnitOfWorkFactory
	claimRetries int
}

// NewFeature creates a new claims feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, claimRetries int) *Feature {
	if claimRetries < 1 {
		claimRetries = 1
	}
	return &Feature{
		session:      session,
		uowFactory:   uowFactory,
		claimRetries: claimRetries,
	}
}

// HandleCommand handles the /claim command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleClaim(s, i)
}
