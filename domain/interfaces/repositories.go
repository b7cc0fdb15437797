package interfaces

import (
	"context"

	"raffler/domain/entities"
	"raffler/domain/events"
)

// UserRepository manages Discord users known to the system
type UserRepository interface {
	// GetByDiscordID retrieves a user, or nil if not found
	GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error)

	// Upsert creates the user or refreshes their username
	Upsert(ctx context.Context, user *entities.User) error
}

// HostRepository manages host profiles and their payment methods
type HostRepository interface {
	// GetByID retrieves a host profile, or nil if the user never set one up
	GetByID(ctx context.Context, hostID int64) (*entities.HostProfile, error)

	// Upsert creates or replaces the host profile
	Upsert(ctx context.Context, profile *entities.HostProfile) error

	// AddPaymentMethod inserts or updates the handle for a platform
	AddPaymentMethod(ctx context.Context, method *entities.PaymentMethod) error

	// RemovePaymentMethod deletes the method for a platform.
	// Returns false if the host had no method for that platform.
	RemovePaymentMethod(ctx context.Context, hostID int64, platform string) (bool, error)

	// ListPaymentMethods returns the host's methods ordered by platform
	ListPaymentMethods(ctx context.Context, hostID int64) ([]*entities.PaymentMethod, error)
}

// GuildSettingsRepository manages per-guild configuration
type GuildSettingsRepository interface {
	// GetOrCreateGuildSettings retrieves settings, creating defaults if absent
	GetOrCreateGuildSettings(ctx context.Context) (*entities.GuildSettings, error)

	// UpdateGuildSettings persists changed settings
	UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error
}

// RaffleRepository manages raffle rows within a guild scope
type RaffleRepository interface {
	// Create inserts a new raffle. A unique-index violation on the
	// active-raffle constraint surfaces as an already_active error, and
	// on the raffle code as a conflict error.
	Create(ctx context.Context, raffle *entities.Raffle) error

	// GetByID retrieves a raffle by UUID, or nil if not found
	GetByID(ctx context.Context, raffleID string) (*entities.Raffle, error)

	// GetByCode retrieves a raffle by its short code, or nil if not found
	GetByCode(ctx context.Context, code string) (*entities.Raffle, error)

	// GetActiveByGuild retrieves the guild's single active raffle, or nil.
	// lock controls the row lock taken for the rest of the transaction.
	GetActiveByGuild(ctx context.Context, lock RowLock) (*entities.Raffle, error)

	// GetLatestClosedWithoutWinner retrieves the most recently closed
	// raffle that has no winner yet, or nil
	GetLatestClosedWithoutWinner(ctx context.Context) (*entities.Raffle, error)

	// GetPendingByHost retrieves the host's pending raffle, or nil
	GetPendingByHost(ctx context.Context, hostID int64) (*entities.Raffle, error)

	// Update persists all mutable raffle fields. A unique-index violation
	// on the active-raffle constraint surfaces as an already_active error.
	Update(ctx context.Context, raffle *entities.Raffle) error

	// SetWinnerIfUnset atomically records the winner and closes the
	// raffle. Returns false if a winner was already recorded.
	SetWinnerIfUnset(ctx context.Context, raffleID string, winnerID int64) (bool, error)

	// CloseIfActive atomically transitions ACTIVE -> CLOSED.
	// Returns false if the raffle was not active.
	CloseIfActive(ctx context.Context, raffleID string) (bool, error)

	// Delete removes a raffle row (pending cancellation only)
	Delete(ctx context.Context, raffleID string) error

	// ListByGuild returns a page of the guild's raffles, newest first,
	// along with the total count
	ListByGuild(ctx context.Context, offset, limit int) ([]*entities.Raffle, int, error)
}

// RowLock selects the row-level lock a read takes for the transaction
type RowLock int

const (
	// LockNone reads without locking
	LockNone RowLock = iota
	// LockShare allows concurrent shared holders, blocks exclusive ones.
	// Claims use this so they run in parallel with each other.
	LockShare
	// LockUpdate is exclusive. Close and winner draw use this.
	LockUpdate
)

// SlotRepository manages claimed slots within a guild scope
type SlotRepository interface {
	// CreateBatch inserts all slots in one statement. On a duplicate
	// (raffle_id, slot_number) the whole batch is rejected and a
	// conflict error is returned; the caller retries with fresh numbers.
	CreateBatch(ctx context.Context, slots []*entities.Slot) error

	// GetTakenNumbers returns the claimed slot numbers, ascending
	GetTakenNumbers(ctx context.Context, raffleID string) ([]int, error)

	// CountByRaffle returns how many slots are claimed in total
	CountByRaffle(ctx context.Context, raffleID string) (int, error)

	// CountByClaimant returns how many slots one user holds
	CountByClaimant(ctx context.Context, raffleID string, claimantID int64) (int, error)

	// GetByRaffle returns all slots ordered by slot number
	GetByRaffle(ctx context.Context, raffleID string) ([]*entities.Slot, error)

	// GetParticipants returns per-claimant slot summaries ordered by
	// first claimed slot
	GetParticipants(ctx context.Context, raffleID string) ([]*entities.ParticipantInfo, error)
}

// EventPublisher publishes domain events. Within a unit of work events
// are buffered and only flushed on commit.
type EventPublisher interface {
	Publish(event events.Event) error
}
