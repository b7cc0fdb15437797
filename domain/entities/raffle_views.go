package entities

// RaffleStatusInfo bundles a raffle with its claim progress
type RaffleStatusInfo struct {
	Raffle       *Raffle
	ClaimedSlots int
	WinningSlot  int // set only by the winner draw
}

// OpenSlots returns how many slots remain unclaimed
func (s *RaffleStatusInfo) OpenSlots() int {
	return s.Raffle.OpenSlots(s.ClaimedSlots)
}

// RafflePage is one page of a guild's raffle history
type RafflePage struct {
	Raffles    []*Raffle
	Page       int // 1-based
	TotalPages int
	TotalCount int
}

// ClaimResult describes a successful claim
type ClaimResult struct {
	Raffle      *Raffle
	ClaimantID  int64
	SlotNumbers []int
	TotalDue    Cents
	OpenSlots   int
	Filled      bool // true when this claim took the final slot
}
