package raffle

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"raffler/bot/common"
	"raffler/domain/entities"
)

// CreatePricingPreviewEmbed shows the computed slot price before the host
// confirms the raffle. Commission is absorbed into the market price, so
// claimants pay the slot price and the host nets market minus commission.
func CreatePricingPreviewEmbed(raffle *entities.Raffle, commission, netToHost entities.Cents) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Raffle %s - Confirm Details", raffle.RaffleCode),
		Color:       common.ColorInfo,
		Description: raffle.ItemTitle,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Market Price", Value: raffle.MarketPrice.String(), Inline: true},
			{Name: "Total Slots", Value: fmt.Sprintf("%d", raffle.TotalSlots), Inline: true},
			{Name: "Price Per Slot", Value: raffle.CostPerSlot.String(), Inline: true},
			{Name: "Max Per User", Value: fmt.Sprintf("%d", raffle.MaxSlotsPerUser), Inline: true},
		},
	}
	if commission > 0 {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Commission", Value: commission.String(), Inline: true},
			&discordgo.MessageEmbedField{Name: "Net To You", Value: netToHost.String(), Inline: true},
		)
	}
	if raffle.CloseTimer != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Closes",
			Value:  common.FormatDiscordTimestamp(*raffle.CloseTimer, "f"),
			Inline: true,
		})
	}
	if url := raffle.MainImage(); url != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
	}
	return embed
}

// CreateAnnouncementEmbed is the public message posted when a raffle goes live
func CreateAnnouncementEmbed(raffle *entities.Raffle) *discordgo.MessageEmbed {
	description := raffle.ItemDescription
	if description == "" {
		description = raffle.ItemTitle
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎟️ Raffle %s - %s", raffle.RaffleCode, raffle.ItemTitle),
		Color:       common.ColorSuccess,
		Description: description,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Host", Value: common.GetUserMention(raffle.HostID), Inline: true},
			{Name: "Market Price", Value: raffle.MarketPrice.String(), Inline: true},
			{Name: "Price Per Slot", Value: raffle.CostPerSlot.String(), Inline: true},
			{Name: "Slots", Value: fmt.Sprintf("%d open", raffle.TotalSlots), Inline: true},
			{Name: "Max Per User", Value: fmt.Sprintf("%d", raffle.MaxSlotsPerUser), Inline: true},
			{Name: "How To Enter", Value: "Use `/claim` to grab your slots", Inline: false},
		},
	}
	if raffle.CloseTimer != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Closes",
			Value:  common.FormatDiscordTimestamp(*raffle.CloseTimer, "R"),
			Inline: true,
		})
	}
	if url := raffle.MainImage(); url != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: url}
	}
	return embed
}

// CreateStatusEmbed shows a raffle with its claim progress
func CreateStatusEmbed(info *entities.RaffleStatusInfo) *discordgo.MessageEmbed {
	raffle := info.Raffle

	color := common.ColorInfo
	if raffle.IsTerminal() {
		color = common.ColorWarning
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Raffle %s - %s", raffle.RaffleCode, raffle.ItemTitle),
		Color:       color,
		Description: raffle.ItemDescription,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: string(raffle.Status), Inline: true},
			{Name: "Host", Value: common.GetUserMention(raffle.HostID), Inline: true},
			{Name: "Price Per Slot", Value: raffle.CostPerSlot.String(), Inline: true},
			{Name: "Progress", Value: common.FormatSlotProgress(info.ClaimedSlots, raffle.TotalSlots), Inline: true},
			{Name: "Started", Value: common.FormatDiscordTimestamp(raffle.CreatedAt, "f"), Inline: true},
		},
	}
	if raffle.CloseTimer != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Closes",
			Value:  common.FormatDiscordTimestamp(*raffle.CloseTimer, "R"),
			Inline: true,
		})
	}
	if raffle.WinnerID != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Winner",
			Value:  common.GetUserMention(*raffle.WinnerID),
			Inline: true,
		})
	}
	if url := raffle.MainImage(); url != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
	}
	return embed
}

// CreateClosedEmbed announces a manual close
func CreateClosedEmbed(raffle *entities.Raffle, claimed int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Raffle %s Closed", raffle.RaffleCode),
		Color:       common.ColorWarning,
		Description: fmt.Sprintf("**%s** is no longer accepting claims.", raffle.ItemTitle),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Final Count", Value: common.FormatSlotProgress(claimed, raffle.TotalSlots), Inline: true},
			{Name: "Next Step", Value: "The host can draw with `/raffle pick_winner`", Inline: false},
		},
	}
}

// CreateWinnerEmbed announces the drawn winner
func CreateWinnerEmbed(info *entities.RaffleStatusInfo) *discordgo.MessageEmbed {
	raffle := info.Raffle
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎉 Raffle %s - Winner!", raffle.RaffleCode),
		Color:       common.ColorSuccess,
		Description: fmt.Sprintf("%s won **%s** with slot #%d!", common.GetUserMention(*raffle.WinnerID), raffle.ItemTitle, info.WinningSlot),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Entries", Value: fmt.Sprintf("%d claimed slots", info.ClaimedSlots), Inline: true},
			{Name: "Host", Value: common.GetUserMention(raffle.HostID), Inline: true},
		},
	}
}

// CreateListEmbed shows one page of the guild's raffle history
func CreateListEmbed(page *entities.RafflePage) *discordgo.MessageEmbed {
	description := "No raffles yet."
	if len(page.Raffles) > 0 {
		lines := make([]string, 0, len(page.Raffles))
		for _, r := range page.Raffles {
			line := fmt.Sprintf("`%s` **%s** - %s, %d slots at %s",
				r.RaffleCode, r.ItemTitle, r.Status, r.TotalSlots, r.CostPerSlot)
			if r.WinnerID != nil {
				line += fmt.Sprintf(", won by %s", common.GetUserMention(*r.WinnerID))
			}
			lines = append(lines, line)
		}
		description = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:       "Raffle History",
		Color:       common.ColorInfo,
		Description: description,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d - %d raffles total", page.Page, maxInt(page.TotalPages, 1), page.TotalCount),
		},
	}
}

// CreateParticipantsEmbed is the per-claimant report DM'd to the host
func CreateParticipantsEmbed(raffle *entities.Raffle, participants []*entities.ParticipantInfo) *discordgo.MessageEmbed {
	description := "No slots have been claimed yet."
	if len(participants) > 0 {
		lines := make([]string, 0, len(participants))
		shown := len(participants)
		if shown > common.MaxParticipantsShown {
			shown = common.MaxParticipantsShown
		}
		for _, p := range participants[:shown] {
			owed := raffle.CostPerSlot * entities.Cents(len(p.SlotNumbers))
			lines = append(lines, fmt.Sprintf("%s - %s (%s owed)",
				common.GetUserMention(p.ClaimantID), common.FormatSlotNumbers(p.SlotNumbers), owed))
		}
		if len(participants) > shown {
			lines = append(lines, fmt.Sprintf("...and %d more", len(participants)-shown))
		}
		description = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Participants - Raffle %s", raffle.RaffleCode),
		Color:       common.ColorInfo,
		Description: description,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
