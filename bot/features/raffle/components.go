package raffle

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"raffler/domain/entities"
)

// CreateDetailsModal builds the pricing details form shown after /raffle create
func CreateDetailsModal(raffleCode string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: "raffle_details_modal",
		Title:    fmt.Sprintf("Raffle %s Details", raffleCode),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "description",
						Label:       "Item Description",
						Style:       discordgo.TextInputParagraph,
						Placeholder: "Condition, size, extras...",
						Required:    false,
						MaxLength:   1000,
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "market_price",
						Label:       "Market Price (USD)",
						Style:       discordgo.TextInputShort,
						Placeholder: "119.99",
						Required:    true,
						MaxLength:   12,
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "total_slots",
						Label:       "Total Slots",
						Style:       discordgo.TextInputShort,
						Placeholder: "20",
						Required:    true,
						MaxLength:   4,
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "max_slots_per_user",
						Label:       "Max Slots Per User",
						Style:       discordgo.TextInputShort,
						Placeholder: "3",
						Required:    true,
						MaxLength:   4,
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "duration_hours",
						Label:       "Duration In Hours (optional)",
						Style:       discordgo.TextInputShort,
						Placeholder: "48",
						Required:    false,
						MaxLength:   4,
					},
				},
			},
		},
	}
}

// CreateConfirmComponents builds the Confirm/Cancel buttons for the preview
func CreateConfirmComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Start Raffle",
					Style:    discordgo.SuccessButton,
					CustomID: "raffle_confirm",
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: "raffle_cancel",
				},
			},
		},
	}
}

// CreateListComponents builds the Previous/Next pagination buttons
func CreateListComponents(page *entities.RafflePage) []discordgo.MessageComponent {
	if page.TotalPages <= 1 {
		return nil
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("raffle_page_%d", page.Page-1),
					Disabled: page.Page <= 1,
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("raffle_page_%d", page.Page+1),
					Disabled: page.Page >= page.TotalPages,
				},
			},
		},
	}
}
