package claims

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"raffler/bot/common"
	"raffler/domain/entities"
)

// CreateClaimConfirmationEmbed confirms the claim to the caller
func CreateClaimConfirmationEmbed(result *entities.ClaimResult, proxy bool) *discordgo.MessageEmbed {
	title := "Slots Claimed!"
	description := fmt.Sprintf("You claimed %s in raffle **%s**.",
		common.FormatSlotNumbers(result.SlotNumbers), result.Raffle.RaffleCode)
	if proxy {
		title = "Proxy Claim Recorded"
		description = fmt.Sprintf("Claimed %s for %s in raffle **%s**.",
			common.FormatSlotNumbers(result.SlotNumbers),
			common.GetUserMention(result.ClaimantID),
			result.Raffle.RaffleCode)
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Color:       common.ColorSuccess,
		Description: description,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Due", Value: result.TotalDue.String(), Inline: true},
			{Name: "Slots Left", Value: fmt.Sprintf("%d", result.OpenSlots), Inline: true},
		},
	}
	if result.Filled {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Raffle Full",
			Value:  "You took the last slot! The draw is up next.",
			Inline: false,
		})
	}
	return embed
}

// CreatePaymentInstructionsEmbed is DM'd to the claimant after a claim
func CreatePaymentInstructionsEmbed(result *entities.ClaimResult, methods []*entities.PaymentMethod) *discordgo.MessageEmbed {
	payTo := "Ask the host how they accept payment."
	if len(methods) > 0 {
		lines := make([]string, 0, len(methods))
		for _, m := range methods {
			lines = append(lines, fmt.Sprintf("**%s**: %s", m.Platform, m.Handle))
		}
		payTo = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Payment Due - Raffle %s", result.Raffle.RaffleCode),
		Color: common.ColorInfo,
		Description: fmt.Sprintf("You claimed %s of **%s**.",
			common.FormatSlotNumbers(result.SlotNumbers), result.Raffle.ItemTitle),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Due", Value: result.TotalDue.String(), Inline: true},
			{Name: "Host", Value: common.GetUserMention(result.Raffle.HostID), Inline: true},
			{Name: "Pay Via", Value: payTo, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Send payment promptly to keep your slots.",
		},
	}
}
