package entities

import (
	"time"
)

// Slot represents one claimed fixed-price unit of a raffle.
// (raffle_id, slot_number) is the unique key; a slot is never deleted or
// reassigned within the lifetime of its raffle.
type Slot struct {
	ID         int64     `db:"id"`
	RaffleID   string    `db:"raffle_id"`
	SlotNumber int       `db:"slot_number"` // 1..total_slots
	ClaimantID int64     `db:"claimant_id"`
	ClaimedAt  time.Time `db:"claimed_at"`
}

// ParticipantInfo summarizes one claimant's slots in a raffle
type ParticipantInfo struct {
	ClaimantID  int64
	SlotNumbers []int // ascending
}
