package events

import (
	"time"

	"raffler/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRaffleStarted EventType = "raffle_started"
	EventTypeSlotsClaimed  EventType = "slots_claimed"
	EventTypeRaffleFilled  EventType = "raffle_filled"
	EventTypeRaffleClosed  EventType = "raffle_closed"
	EventTypeWinnerDrawn   EventType = "winner_drawn"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// RaffleStarted is published when a pending raffle is confirmed and
// begins accepting claims.
type RaffleStarted struct {
	GuildID     int64
	RaffleID    string
	RaffleCode  string
	HostID      int64
	ItemTitle   string
	CostPerSlot entities.Cents
	TotalSlots  int
	StartedAt   time.Time
}

func (e RaffleStarted) Type() EventType {
	return EventTypeRaffleStarted
}

// SlotsClaimed is published after a claim commits.
type SlotsClaimed struct {
	GuildID     int64
	RaffleID    string
	ClaimantID  int64
	ProxiedBy   int64 // zero unless the host claimed on someone's behalf
	SlotNumbers []int
	TotalDue    entities.Cents
	OpenSlots   int
}

func (e SlotsClaimed) Type() EventType {
	return EventTypeSlotsClaimed
}

// RaffleFilled is published exactly once, when the claim that took the
// final slot is finalized and the raffle auto-closes.
type RaffleFilled struct {
	GuildID    int64
	RaffleID   string
	RaffleCode string
	HostID     int64
	ItemTitle  string
	TotalSlots int
}

func (e RaffleFilled) Type() EventType {
	return EventTypeRaffleFilled
}

// RaffleClosed is published when a host closes the raffle manually.
type RaffleClosed struct {
	GuildID      int64
	RaffleID     string
	RaffleCode   string
	HostID       int64
	ItemTitle    string
	ClaimedSlots int
	TotalSlots   int
}

func (e RaffleClosed) Type() EventType {
	return EventTypeRaffleClosed
}

// WinnerDrawn is published when a winner is recorded.
type WinnerDrawn struct {
	GuildID    int64
	RaffleID   string
	RaffleCode string
	HostID     int64
	ItemTitle  string
	WinnerID   int64
	WinningNum int
	DrawnAt    time.Time
}

func (e WinnerDrawn) Type() EventType {
	return EventTypeWinnerDrawn
}
