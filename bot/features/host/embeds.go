package host

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"raffler/bot/common"
	"raffler/domain/entities"
)

// CreateProfileSavedEmbed confirms a /host setup
func CreateProfileSavedEmbed(profile *entities.HostProfile) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Host Profile Saved",
		Color:       common.ColorSuccess,
		Description: "You can now create raffles with `/raffle create`.",
		Fields:      profileFields(profile),
	}
}

// CreateHostInfoEmbed shows a host's profile and payment methods
func CreateHostInfoEmbed(profile *entities.HostProfile, methods []*entities.PaymentMethod) *discordgo.MessageEmbed {
	payTo := "None on file"
	if len(methods) > 0 {
		lines := make([]string, 0, len(methods))
		for _, m := range methods {
			lines = append(lines, "**"+m.Platform+"**: "+m.Handle)
		}
		payTo = strings.Join(lines, "\n")
	}

	fields := profileFields(profile)
	fields = append(fields, &discordgo.MessageEmbedField{
		Name:   "Payment Methods",
		Value:  payTo,
		Inline: false,
	})

	return &discordgo.MessageEmbed{
		Title:       "Host Profile",
		Color:       common.ColorInfo,
		Description: common.GetUserMention(profile.HostID),
		Fields:      fields,
	}
}

func profileFields(profile *entities.HostProfile) []*discordgo.MessageEmbedField {
	commission := profile.CommissionRate
	if commission == "" {
		commission = "None"
	}
	return []*discordgo.MessageEmbedField{
		{Name: "Commission", Value: commission, Inline: true},
		{Name: "Local Meetup", Value: yesNo(profile.AllowsLocalMeetup), Inline: true},
		{Name: "Shipping", Value: yesNo(profile.AllowsShipping), Inline: true},
		{Name: "Proxy Claims", Value: yesNo(profile.ProxyClaimEnabled), Inline: true},
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
