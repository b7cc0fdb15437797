package entities

import (
	"time"
)

// RaffleStatus represents the lifecycle state of a raffle
type RaffleStatus string

const (
	RaffleStatusPending   RaffleStatus = "PENDING"
	RaffleStatusActive    RaffleStatus = "ACTIVE"
	RaffleStatusClosed    RaffleStatus = "CLOSED"
	RaffleStatusCancelled RaffleStatus = "CANCELLED"
)

// Raffle represents a single raffle-style group buy
type Raffle struct {
	ID              string       `db:"raffle_id"` // UUID, assigned at creation
	RaffleCode      string       `db:"raffle_code"`
	GuildID         int64        `db:"guild_id"`
	HostID          int64        `db:"host_id"`
	Status          RaffleStatus `db:"status"`
	ItemTitle       string       `db:"item_title"`
	ItemDescription string       `db:"item_description"`
	Images          []string     `db:"images"`
	MarketPrice     Cents        `db:"market_price"`
	CostPerSlot     Cents        `db:"cost_per_slot"` // Fixed at confirmation, never recomputed
	TotalSlots      int          `db:"total_slots"`   // Fixed at confirmation
	MaxSlotsPerUser int          `db:"max_slots_per_user"`
	CloseTimer      *time.Time   `db:"close_timer"` // Optional absolute deadline
	WinnerID        *int64       `db:"winner_id"`   // Set exactly once by the winner draw
	CreatedAt       time.Time    `db:"created_at"`  // Reset to confirmation time on PENDING->ACTIVE
}

// IsPending returns true while the raffle awaits pricing confirmation
func (r *Raffle) IsPending() bool {
	return r.Status == RaffleStatusPending
}

// IsActive returns true while the raffle accepts claims
func (r *Raffle) IsActive() bool {
	return r.Status == RaffleStatusActive
}

// IsTerminal returns true once the raffle can no longer change status
// (winner assignment on a CLOSED raffle is the one exception)
func (r *Raffle) IsTerminal() bool {
	return r.Status == RaffleStatusClosed || r.Status == RaffleStatusCancelled
}

// HasPricing returns true once the confirmation modal has fixed the
// slot count and price.
func (r *Raffle) HasPricing() bool {
	return r.TotalSlots >= 1
}

// DeadlinePassed returns true if the close timer is set and elapsed.
// The deadline is checked lazily; no background worker closes raffles.
func (r *Raffle) DeadlinePassed(now time.Time) bool {
	return r.CloseTimer != nil && now.After(*r.CloseTimer)
}

// CanAcceptClaims returns true if a claim submitted now could succeed
func (r *Raffle) CanAcceptClaims(now time.Time) bool {
	return r.IsActive() && !r.DeadlinePassed(now)
}

// Activate performs the PENDING -> ACTIVE transition. CreatedAt is reset
// so it marks the effective start of the raffle rather than the moment
// the creation form was opened.
func (r *Raffle) Activate(now time.Time) error {
	if r.Status != RaffleStatusPending {
		return NewDomainError(ErrKindInvalidState, "raffle is %s, only a pending raffle can be confirmed", r.Status)
	}
	if !r.HasPricing() {
		return NewDomainError(ErrKindInvalidState, "raffle pricing has not been set")
	}
	r.Status = RaffleStatusActive
	r.CreatedAt = now
	return nil
}

// Close performs the ACTIVE -> CLOSED transition (manual close or fill)
func (r *Raffle) Close() error {
	if r.Status != RaffleStatusActive {
		return NewDomainError(ErrKindInvalidState, "raffle is %s, only an active raffle can be closed", r.Status)
	}
	r.Status = RaffleStatusClosed
	return nil
}

// SetWinner records the drawn winner and closes the raffle. The winner
// is set exactly once; a second draw is rejected.
func (r *Raffle) SetWinner(claimantID int64) error {
	if r.WinnerID != nil {
		return NewDomainError(ErrKindWinnerAlreadyDrawn, "winner already drawn: <@%d>", *r.WinnerID)
	}
	if r.Status != RaffleStatusActive && r.Status != RaffleStatusClosed {
		return NewDomainError(ErrKindInvalidState, "cannot draw a winner for a %s raffle", r.Status)
	}
	r.WinnerID = &claimantID
	r.Status = RaffleStatusClosed
	return nil
}

// OpenSlots returns how many slots remain unclaimed
func (r *Raffle) OpenSlots(claimedCount int) int {
	open := r.TotalSlots - claimedCount
	if open < 0 {
		return 0
	}
	return open
}

// MainImage returns the first item image URL, or "" if none
func (r *Raffle) MainImage() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0]
}
