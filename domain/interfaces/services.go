package interfaces

import (
	"context"
	"time"

	"raffler/domain/entities"
)

// RaffleService defines the interface for raffle lifecycle operations.
// Implementations operate within an already-begun unit of work; the
// caller owns the transaction.
type RaffleService interface {
	// CreateRaffle creates a PENDING raffle for a registered host.
	// memberRoleIDs are the invoking member's role IDs, checked against
	// the guild's host role if one is configured.
	CreateRaffle(ctx context.Context, hostID int64, memberRoleIDs []string, itemTitle string, images []string) (*entities.Raffle, error)

	// ConfirmDetails fixes description, pricing and capacity on the
	// host's pending raffle and returns it still PENDING
	ConfirmDetails(ctx context.Context, hostID int64, description string, marketPrice entities.Cents, totalSlots, maxSlotsPerUser int, closeTimer *time.Time) (*entities.Raffle, error)

	// ActivateRaffle transitions the host's pending raffle to ACTIVE
	ActivateRaffle(ctx context.Context, hostID int64) (*entities.Raffle, error)

	// CancelPending deletes the host's pending raffle
	CancelPending(ctx context.Context, hostID int64) error

	// CloseRaffle transitions the guild's active raffle to CLOSED.
	// Only the host may close it.
	CloseRaffle(ctx context.Context, callerID int64) (*entities.Raffle, error)

	// UpdateMaxSlots changes the per-user cap on the active raffle
	UpdateMaxSlots(ctx context.Context, callerID int64, maxSlotsPerUser int) (*entities.Raffle, error)

	// PickWinner draws a uniformly random claimed slot and records the
	// winner. Targets the active raffle, falling back to the most
	// recently closed raffle without a winner.
	PickWinner(ctx context.Context, callerID int64) (*entities.RaffleStatusInfo, error)

	// GetStatus returns the active raffle with claim progress, or a
	// not_found error if the guild has none
	GetStatus(ctx context.Context) (*entities.RaffleStatusInfo, error)

	// ListRaffles returns one page of the guild's raffles, newest first
	ListRaffles(ctx context.Context, page int) (*entities.RafflePage, error)

	// GetParticipants returns per-claimant slot summaries for the
	// active raffle
	GetParticipants(ctx context.Context) (*entities.Raffle, []*entities.ParticipantInfo, error)
}

// ClaimService defines the interface for slot claims
type ClaimService interface {
	// ClaimSlots assigns the lowest open slot numbers to the claimant.
	// callerID is the invoking user; claimantID differs only for proxy
	// claims by the host. Returns a conflict error when a concurrent
	// claim took one of the chosen numbers first; callers retry.
	ClaimSlots(ctx context.Context, callerID, claimantID int64, quantity int) (*entities.ClaimResult, error)

	// FinalizeFill closes the raffle once every slot is claimed. Callers
	// run it in a fresh transaction after a claim commits so the slot
	// count observes concurrent committed claims. Returns true when this
	// call performed the close.
	FinalizeFill(ctx context.Context, raffleID string) (bool, error)
}

// HostService defines the interface for host profile operations
type HostService interface {
	// SetupProfile creates or replaces the caller's host profile
	SetupProfile(ctx context.Context, hostID int64, commissionRate string, localMeetup, shipping, proxyClaims bool) (*entities.HostProfile, error)

	// AddPaymentMethod registers a payment handle for a platform
	AddPaymentMethod(ctx context.Context, hostID int64, platform, handle string) error

	// RemovePaymentMethod removes the handle for a platform
	RemovePaymentMethod(ctx context.Context, hostID int64, platform string) error

	// GetHostInfo returns a host's profile and payment methods
	GetHostInfo(ctx context.Context, hostID int64) (*entities.HostProfile, []*entities.PaymentMethod, error)
}

// GuildSettingsService defines the interface for guild settings operations
type GuildSettingsService interface {
	// GetOrCreateSettings retrieves guild settings or creates defaults
	GetOrCreateSettings(ctx context.Context) (*entities.GuildSettings, error)

	// UpdateHostRole sets or clears the role required to host raffles
	UpdateHostRole(ctx context.Context, roleID *int64) error

	// UpdateRaffleChannel sets or clears the announcement channel
	UpdateRaffleChannel(ctx context.Context, channelID *int64) error
}
