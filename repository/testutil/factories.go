package testutil

import (
	"time"

	"github.com/google/uuid"

	"raffler/domain/entities"
)

// CreateTestHost creates a host profile with default values
func CreateTestHost(hostID int64) *entities.HostProfile {
	return &entities.HostProfile{
		HostID:            hostID,
		CommissionRate:    "5%",
		AllowsLocalMeetup: true,
		AllowsShipping:    true,
		ProxyClaimEnabled: true,
	}
}

// CreateTestRaffle creates a pending raffle with default pricing
func CreateTestRaffle(hostID int64, code string) *entities.Raffle {
	return &entities.Raffle{
		ID:              uuid.NewString(),
		RaffleCode:      code,
		HostID:          hostID,
		Status:          entities.RaffleStatusPending,
		ItemTitle:       "Test Item",
		ItemDescription: "A test item",
		Images:          []string{"https://example.com/item.png"},
		MarketPrice:     10000,
		CostPerSlot:     1000,
		TotalSlots:      10,
		MaxSlotsPerUser: 3,
	}
}

// CreateTestActiveRaffle creates an active raffle with default pricing
func CreateTestActiveRaffle(hostID int64, code string) *entities.Raffle {
	raffle := CreateTestRaffle(hostID, code)
	raffle.Status = entities.RaffleStatusActive
	return raffle
}

// CreateTestSlot creates a slot claim
func CreateTestSlot(raffleID string, number int, claimantID int64) *entities.Slot {
	return &entities.Slot{
		RaffleID:   raffleID,
		SlotNumber: number,
		ClaimantID: claimantID,
		ClaimedAt:  time.Now().UTC(),
	}
}
