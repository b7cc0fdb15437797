package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"raffler/domain/entities"
	"raffler/domain/events"
	"raffler/domain/interfaces"
)

// claimService implements slot claims
type claimService struct {
	raffleRepo     interfaces.RaffleRepository
	slotRepo       interfaces.SlotRepository
	hostRepo       interfaces.HostRepository
	eventPublisher interfaces.EventPublisher
}

// NewClaimService creates a new claim service
func NewClaimService(
	raffleRepo interfaces.RaffleRepository,
	slotRepo interfaces.SlotRepository,
	hostRepo interfaces.HostRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.ClaimService {
	return &claimService{
		raffleRepo:     raffleRepo,
		slotRepo:       slotRepo,
		hostRepo:       hostRepo,
		eventPublisher: eventPublisher,
	}
}

// ClaimSlots assigns the lowest open slot numbers to the claimant.
// The raffle row is read under a shared lock so concurrent claims
// proceed in parallel while a close blocks until they finish. Two claims
// racing for the same number collide on the slot unique index; the loser
// gets a conflict error and retries in a fresh transaction.
func (s *claimService) ClaimSlots(ctx context.Context, callerID, claimantID int64, quantity int) (*entities.ClaimResult, error) {
	if quantity < 1 {
		return nil, entities.NewDomainError(entities.ErrKindValidation, "quantity must be at least 1")
	}

	raffle, err := s.raffleRepo.GetActiveByGuild(ctx, interfaces.LockShare)
	if err != nil {
		return nil, fmt.Errorf("failed to get active raffle: %w", err)
	}
	if raffle == nil {
		return nil, entities.NewDomainError(entities.ErrKindNotFound, "there is no active raffle to claim in")
	}

	now := time.Now().UTC()
	if raffle.DeadlinePassed(now) {
		return nil, entities.NewDomainError(entities.ErrKindInvalidState,
			"the claim window for raffle %s has closed", raffle.RaffleCode)
	}

	proxy := claimantID != callerID
	if proxy {
		if callerID != raffle.HostID {
			return nil, entities.NewDomainError(entities.ErrKindNotAuthorized,
				"only the host can claim slots on someone's behalf")
		}
		profile, err := s.hostRepo.GetByID(ctx, raffle.HostID)
		if err != nil {
			return nil, fmt.Errorf("failed to get host profile: %w", err)
		}
		if profile == nil || !profile.ProxyClaimEnabled {
			return nil, entities.NewDomainError(entities.ErrKindNotAuthorized,
				"proxy claims are not enabled on your host profile")
		}
	}

	// The per-user cap does not apply to proxy claims; the host vouches
	// for payment collected off-platform
	if !proxy && raffle.MaxSlotsPerUser > 0 {
		held, err := s.slotRepo.CountByClaimant(ctx, raffle.ID, claimantID)
		if err != nil {
			return nil, fmt.Errorf("failed to count claimant slots: %w", err)
		}
		if held+quantity > raffle.MaxSlotsPerUser {
			return nil, entities.NewDomainError(entities.ErrKindCapacityExceeded,
				"you hold %d of %d slots allowed per user, %d more would exceed the cap",
				held, raffle.MaxSlotsPerUser, quantity)
		}
	}

	taken, err := s.slotRepo.GetTakenNumbers(ctx, raffle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get taken slot numbers: %w", err)
	}

	numbers := assignLowestOpen(taken, raffle.TotalSlots, quantity)
	if len(numbers) < quantity {
		return nil, entities.NewDomainError(entities.ErrKindCapacityExceeded,
			"only %d slots are open, cannot claim %d", len(numbers), quantity)
	}

	slots := make([]*entities.Slot, 0, quantity)
	for _, num := range numbers {
		slots = append(slots, &entities.Slot{
			RaffleID:   raffle.ID,
			SlotNumber: num,
			ClaimantID: claimantID,
			ClaimedAt:  now,
		})
	}
	if err := s.slotRepo.CreateBatch(ctx, slots); err != nil {
		if entities.IsConflict(err) {
			return nil, entities.WrapDomainError(entities.ErrKindConflict, err,
				"someone claimed one of those slots just before you, try again")
		}
		return nil, fmt.Errorf("failed to create slots: %w", err)
	}

	open := raffle.OpenSlots(len(taken) + quantity)
	result := &entities.ClaimResult{
		Raffle:      raffle,
		ClaimantID:  claimantID,
		SlotNumbers: numbers,
		TotalDue:    raffle.CostPerSlot * entities.Cents(quantity),
		OpenSlots:   open,
		Filled:      open == 0,
	}

	proxiedBy := int64(0)
	if proxy {
		proxiedBy = callerID
	}
	if err := s.eventPublisher.Publish(events.SlotsClaimed{
		GuildID:     raffle.GuildID,
		RaffleID:    raffle.ID,
		ClaimantID:  claimantID,
		ProxiedBy:   proxiedBy,
		SlotNumbers: numbers,
		TotalDue:    result.TotalDue,
		OpenSlots:   open,
	}); err != nil {
		log.WithError(err).Error("failed to publish slots claimed event")
	}

	return result, nil
}

// FinalizeFill closes the raffle if every slot is claimed. It must run
// in its own transaction after a claim commits: only then does the count
// observe slots committed by concurrent claims, so the claim that truly
// completed the raffle cannot slip past the check. The conditional close
// makes the fill event fire exactly once.
func (s *claimService) FinalizeFill(ctx context.Context, raffleID string) (bool, error) {
	raffle, err := s.raffleRepo.GetByID(ctx, raffleID)
	if err != nil {
		return false, fmt.Errorf("failed to get raffle: %w", err)
	}
	if raffle == nil || !raffle.IsActive() {
		return false, nil
	}

	claimed, err := s.slotRepo.CountByRaffle(ctx, raffleID)
	if err != nil {
		return false, fmt.Errorf("failed to count claimed slots: %w", err)
	}
	if claimed < raffle.TotalSlots {
		return false, nil
	}

	closed, err := s.raffleRepo.CloseIfActive(ctx, raffleID)
	if err != nil {
		return false, fmt.Errorf("failed to close filled raffle: %w", err)
	}
	if !closed {
		return false, nil
	}

	if err := s.eventPublisher.Publish(events.RaffleFilled{
		GuildID:    raffle.GuildID,
		RaffleID:   raffle.ID,
		RaffleCode: raffle.RaffleCode,
		HostID:     raffle.HostID,
		ItemTitle:  raffle.ItemTitle,
		TotalSlots: raffle.TotalSlots,
	}); err != nil {
		log.WithError(err).Error("failed to publish raffle filled event")
	}
	return true, nil
}

// assignLowestOpen picks up to quantity open slot numbers in ascending
// order, filling gaps left by earlier claims first. taken must be sorted
// ascending.
func assignLowestOpen(taken []int, totalSlots, quantity int) []int {
	numbers := make([]int, 0, quantity)
	i := 0
	for num := 1; num <= totalSlots && len(numbers) < quantity; num++ {
		for i < len(taken) && taken[i] < num {
			i++
		}
		if i < len(taken) && taken[i] == num {
			continue
		}
		numbers = append(numbers, num)
	}
	return numbers
}
