package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"raffler/domain/entities"
	"raffler/domain/events"
	"raffler/domain/interfaces"
	"raffler/domain/utils"
)

const (
	// codeRetries bounds the raffle code generation loop. With an
	// 8-character alphanumeric code collisions are vanishingly rare.
	codeRetries = 5

	// listPageSize is how many raffles one history page shows
	listPageSize = 5
)

// raffleService implements business logic for the raffle lifecycle
type raffleService struct {
	raffleRepo        interfaces.RaffleRepository
	slotRepo          interfaces.SlotRepository
	hostRepo          interfaces.HostRepository
	guildSettingsRepo interfaces.GuildSettingsRepository
	eventPublisher    interfaces.EventPublisher
}

// NewRaffleService creates a new raffle service
func NewRaffleService(
	raffleRepo interfaces.RaffleRepository,
	slotRepo interfaces.SlotRepository,
	hostRepo interfaces.HostRepository,
	guildSettingsRepo interfaces.GuildSettingsRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.RaffleService {
	return &raffleService{
		raffleRepo:        raffleRepo,
		slotRepo:          slotRepo,
		hostRepo:          hostRepo,
		guildSettingsRepo: guildSettingsRepo,
		eventPublisher:    eventPublisher,
	}
}

// CreateRaffle creates a PENDING raffle for a registered host
func (s *raffleService) CreateRaffle(ctx context.Context, hostID int64, memberRoleIDs []string, itemTitle string, images []string) (*entities.Raffle, error) {
	if itemTitle == "" {
		return nil, entities.NewDomainError(entities.ErrKindValidation, "item title is required")
	}

	profile, err := s.hostRepo.GetByID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host profile: %w", err)
	}
	if profile == nil {
		return nil, entities.NewDomainError(entities.ErrKindNotAuthorized,
			"you need a host profile before creating raffles, run /host setup first")
	}

	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	if settings.RequiresHostRole() && !hasRole(memberRoleIDs, *settings.HostRoleID) {
		return nil, entities.NewDomainError(entities.ErrKindNotAuthorized,
			"you need the <@&%d> role to host raffles in this server", *settings.HostRoleID)
	}

	active, err := s.raffleRepo.GetActiveByGuild(ctx, interfaces.LockNone)
	if err != nil {
		return nil, fmt.Errorf("failed to check for active raffle: %w", err)
	}
	if active != nil {
		return nil, entities.NewDomainError(entities.ErrKindAlreadyActive,
			"raffle %s is still running, close it before starting another", active.RaffleCode)
	}

	pending, err := s.raffleRepo.GetPendingByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for pending raffle: %w", err)
	}
	if pending != nil {
		return nil, entities.NewDomainError(entities.ErrKindInvalidState,
			"you already have a raffle awaiting confirmation, confirm or cancel it first")
	}

	raffle := &entities.Raffle{
		ID:        uuid.NewString(),
		HostID:    hostID,
		Status:    entities.RaffleStatusPending,
		ItemTitle: itemTitle,
		Images:    images,
		CreatedAt: time.Now().UTC(),
	}

	// The code is unique across all guilds; retry on the rare collision
	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := utils.GenerateRaffleCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate raffle code: %w", err)
		}
		raffle.RaffleCode = code

		err = s.raffleRepo.Create(ctx, raffle)
		if err == nil {
			return raffle, nil
		}
		if !entities.IsConflict(err) {
			return nil, fmt.Errorf("failed to create raffle: %w", err)
		}
		log.WithFields(log.Fields{
			"hostID":  hostID,
			"code":    code,
			"attempt": attempt + 1,
		}).Warn("raffle code collision, retrying")
	}

	return nil, fmt.Errorf("failed to generate a unique raffle code after %d attempts", codeRetries)
}

// ConfirmDetails fixes description, pricing and capacity on the pending raffle
func (s *raffleService) ConfirmDetails(ctx context.Context, hostID int64, description string, marketPrice entities.Cents, totalSlots, maxSlotsPerUser int, closeTimer *time.Time) (*entities.Raffle, error) {
	raffle, err := s.raffleRepo.GetPendingByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending raffle: %w", err)
	}
	if raffle == nil {
		return nil, entities.NewDomainError(entities.ErrKindNotFound, "you have no raffle awaiting confirmation")
	}

	if maxSlotsPerUser < 1 || maxSlotsPerUser > totalSlots {
		return nil, entities.NewDomainError(entities.ErrKindValidation,
			"max slots per user must be between 1 and %d", totalSlots)
	}
	if closeTimer != nil && !closeTimer.After(time.Now().UTC()) {
		return nil, entities.NewDomainError(entities.ErrKindValidation, "close time must be in the future")
	}

	costPerSlot, err := CostPerSlot(marketPrice, totalSlots)
	if err != nil {
		return nil, err
	}

	raffle.ItemDescription = description
	raffle.MarketPrice = marketPrice
	raffle.CostPerSlot = costPerSlot
	raffle.TotalSlots = totalSlots
	raffle.MaxSlotsPerUser = maxSlotsPerUser
	raffle.CloseTimer = closeTimer

	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		return nil, fmt.Errorf("failed to update raffle details: %w", err)
	}
	return raffle, nil
}

// ActivateRaffle transitions the host's pending raffle to ACTIVE
func (s *raffleService) ActivateRaffle(ctx context.Context, hostID int64) (*entities.Raffle, error) {
	raffle, err := s.raffleRepo.GetPendingByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending raffle: %w", err)
	}
	if raffle == nil {
		return nil, entities.NewDomainError(entities.ErrKindNotFound, "you have no raffle awaiting confirmation")
	}

	if err := raffle.Activate(time.Now().UTC()); err != nil {
		return nil, err
	}

	// The partial unique index on active raffles rejects this update if
	// another raffle went active since the create-time check
	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		if entities.IsKind(err, entities.ErrKindAlreadyActive) {
			return nil, entities.NewDomainError(entities.ErrKindAlreadyActive,
				"another raffle went live first, wait for it to close")
		}
		return nil, fmt.Errorf("failed to activate raffle: %w", err)
	}

	if err := s.eventPublisher.Publish(events.RaffleStarted{
		GuildID:     raffle.GuildID,
		RaffleID:    raffle.ID,
		RaffleCode:  raffle.RaffleCode,
		HostID:      raffle.HostID,
		ItemTitle:   raffle.ItemTitle,
		CostPerSlot: raffle.CostPerSlot,
		TotalSlots:  raffle.TotalSlots,
		StartedAt:   raffle.CreatedAt,
	}); err != nil {
		log.WithError(err).Error("failed to publish raffle started event")
	}

	return raffle, nil
}

// CancelPending deletes the host's pending raffle
func (s *raffleService) CancelPending(ctx context.Context, hostID int64) error {
	raffle, err := s.raffleRepo.GetPendingByHost(ctx, hostID)
	if err != nil {
		return fmt.Errorf("failed to get pending raffle: %w", err)
	}
	if raffle == nil {
		return entities.NewDomainError(entities.ErrKindNotFound, "you have no raffle awaiting confirmation")
	}
	if err := s.raffleRepo.Delete(ctx, raffle.ID); err != nil {
		return fmt.Errorf("failed to delete pending raffle: %w", err)
	}
	return nil
}

// CloseRaffle transitions the guild's active raffle to CLOSED
func (s *raffleService) CloseRaffle(ctx context.Context, callerID int64) (*entities.Raffle, error) {
	// Exclusive lock: closing must not interleave with in-flight claims
	raffle, err := s.raffleRepo.GetActiveByGuild(ctx, interfaces.LockUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to get active raffle: %w", err)
	}
	if raffle == nil {
		return nil, entities.NewDomainError(entities.ErrKindNotFound, "there is no active raffle")
	}
	if raffle.HostID != callerID {
		return nil, entities.NewDomainError(entities.ErrKindNotAuthorized, "only the host can close this raffle")
	}

	if err := raffle.Close(); err != nil {
		return nil, err
	}
	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		return nil, fmt.Errorf("failed to close raffle: %w", err)
	}

	claimed, err := s.slotRepo.CountByRaffle(ctx, raffle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count claimed slots: %w", err)
	}

	if err := s.eventPublisher.Publish(events.RaffleClosed{
		GuildID:      raffle.GuildID,
		RaffleID:     raffle.ID,
		RaffleCode:   raffle.RaffleCode,
		HostID:       raffle.HostID,
		ItemTitle:    raffle.ItemTitle,
		ClaimedSlots: claimed,
		TotalSlots:   raffle.TotalSlots,
	}); err != nil {
		log.WithError(err).Error("failed to publish raffle closed event")
	}

	return raffle, nil
}

// UpdateMaxSlots changes the per-user cap on the active raffle
func (s *raffleService) UpdateMaxSlots(ctx context.Context, callerID int64, maxSlotsPerUser int) (*entities.Raffle, error) {
	raffle, err := s.raffleRepo.GetActiveByGuild(ctx, interfaces.LockUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to get active raffle: %w", err)
	}
	if raffle == nil {
		return nil, entities.NewDomainError(entities.ErrKindNotFound, "there is no active raffle")
	}
	if raffle.HostID != callerID {
		return nil, entities.NewDomainError(entities.ErrKindNotAuthorized, "only the host can update this raffle")
	}
	if maxSlotsPerUser < 1 || maxSlotsPerUser > raffle.TotalSlots {
		return nil, entities.NewDomainError(entities.ErrKindValidation,
			"max slots per user must be between 1 and %d", raffle.TotalSlots)
	}

	raffle.MaxSlotsPerUser = maxSlotsPerUser
	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		return nil, fmt.Errorf("failed to update raffle: %w", err)
	}
	return raffle, nil
}

// PickWinner draws a uniformly random claimed slot and records the winner.
// The draw targets the active raffle, falling back to the most recently
// closed raffle that has no winner yet.
func (s *raffleService) PickWinner(ctx context.Context, callerID int64) (*entities.RaffleStatusInfo, error) {
	raffle, err := s.raffleRepo.GetActiveByGuild(ctx, interfaces.LockUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to get active raffle: %w", err)
	}
	if raffle == nil {
		raffle, err = s.raffleRepo.GetLatestClosedWithoutWinner(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get closed raffle: %w", err)
		}
	}
	if raffle == nil {
		return nil, entities.NewDomainError(entities.ErrKindNotFound, "there is no raffle awaiting a winner draw")
	}
	if raffle.HostID != callerID {
		return nil, entities.NewDomainError(entities.ErrKindNotAuthorized, "only the host can draw the winner")
	}

	slots, err := s.slotRepo.GetByRaffle(ctx, raffle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slots: %w", err)
	}
	if len(slots) == 0 {
		return nil, entities.NewDomainError(entities.ErrKindInvalidState, "no slots have been claimed, nothing to draw")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(slots))))
	if err != nil {
		return nil, fmt.Errorf("random draw failed: %w", err)
	}
	winning := slots[n.Int64()]

	// The conditional update is the idempotency guard: the winner column
	// is written at most once even under concurrent draws
	set, err := s.raffleRepo.SetWinnerIfUnset(ctx, raffle.ID, winning.ClaimantID)
	if err != nil {
		return nil, fmt.Errorf("failed to record winner: %w", err)
	}
	if !set {
		current, err := s.raffleRepo.GetByID(ctx, raffle.ID)
		if err != nil || current == nil || current.WinnerID == nil {
			return nil, entities.NewDomainError(entities.ErrKindWinnerAlreadyDrawn, "the winner has already been drawn")
		}
		return nil, entities.NewDomainError(entities.ErrKindWinnerAlreadyDrawn,
			"winner already drawn: <@%d>", *current.WinnerID)
	}

	raffle.WinnerID = &winning.ClaimantID
	raffle.Status = entities.RaffleStatusClosed

	if err := s.eventPublisher.Publish(events.WinnerDrawn{
		GuildID:    raffle.GuildID,
		RaffleID:   raffle.ID,
		RaffleCode: raffle.RaffleCode,
		HostID:     raffle.HostID,
		ItemTitle:  raffle.ItemTitle,
		WinnerID:   winning.ClaimantID,
		WinningNum: winning.SlotNumber,
		DrawnAt:    time.Now().UTC(),
	}); err != nil {
		log.WithError(err).Error("failed to publish winner drawn event")
	}

	return &entities.RaffleStatusInfo{
		Raffle:       raffle,
		ClaimedSlots: len(slots),
		WinningSlot:  winning.SlotNumber,
	}, nil
}

// GetStatus returns the active raffle with claim progress
func (s *raffleService) GetStatus(ctx context.Context) (*entities.RaffleStatusInfo, error) {
	raffle, err := s.raffleRepo.GetActiveByGuild(ctx, interfaces.LockNone)
	if err != nil {
		return nil, fmt.Errorf("failed to get active raffle: %w", err)
	}
	if raffle == nil {
		return nil, entities.NewDomainError(entities.ErrKindNotFound, "there is no active raffle")
	}

	claimed, err := s.slotRepo.CountByRaffle(ctx, raffle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count claimed slots: %w", err)
	}

	return &entities.RaffleStatusInfo{Raffle: raffle, ClaimedSlots: claimed}, nil
}

// ListRaffles returns one page of the guild's raffles, newest first
func (s *raffleService) ListRaffles(ctx context.Context, page int) (*entities.RafflePage, error) {
	if page < 1 {
		page = 1
	}

	raffles, total, err := s.raffleRepo.ListByGuild(ctx, (page-1)*listPageSize, listPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}

	totalPages := (total + listPageSize - 1) / listPageSize
	return &entities.RafflePage{
		Raffles:    raffles,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
	}, nil
}

// GetParticipants returns per-claimant slot summaries for the active raffle
func (s *raffleService) GetParticipants(ctx context.Context) (*entities.Raffle, []*entities.ParticipantInfo, error) {
	raffle, err := s.raffleRepo.GetActiveByGuild(ctx, interfaces.LockNone)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get active raffle: %w", err)
	}
	if raffle == nil {
		return nil, nil, entities.NewDomainError(entities.ErrKindNotFound, "there is no active raffle")
	}

	participants, err := s.slotRepo.GetParticipants(ctx, raffle.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get participants: %w", err)
	}
	return raffle, participants, nil
}

func hasRole(roleIDs []string, roleID int64) bool {
	want := strconv.FormatInt(roleID, 10)
	for _, id := range roleIDs {
		if id == want {
			return true
		}
	}
	return false
}
