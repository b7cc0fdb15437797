package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"raffler/database"
	"raffler/domain/interfaces"
)

// TransactionalEventPublisher buffers events for the lifetime of a
// transaction and releases them when its outcome is known.
type TransactionalEventPublisher interface {
	interfaces.EventPublisher

	// Flush delivers buffered events after a successful commit
	Flush(ctx context.Context) error

	// Discard drops buffered events on rollback
	Discard()
}

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	guildID                int64
	transactionalPublisher TransactionalEventPublisher
	userRepo               interfaces.UserRepository
	hostRepo               interfaces.HostRepository
	guildSettingsRepo      interfaces.GuildSettingsRepository
	raffleRepo             interfaces.RaffleRepository
	slotRepo               interfaces.SlotRepository
}

// NewUnitOfWork creates a unit of work for one guild with a transactional
// event publisher
func NewUnitOfWork(db *database.DB, guildID int64, publisher TransactionalEventPublisher) *unitOfWork {
	return &unitOfWork{
		db:                     db,
		guildID:                guildID,
		transactionalPublisher: publisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = NewUserRepositoryScoped(tx)
	u.hostRepo = NewHostRepositoryScoped(tx)
	u.guildSettingsRepo = NewGuildSettingsRepositoryScoped(tx, u.guildID)
	u.raffleRepo = NewRaffleRepositoryScoped(tx, u.guildID)
	u.slotRepo = NewSlotRepositoryScoped(tx, u.guildID)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	// Events are best-effort once the transaction is durable
	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// HostRepository returns the host repository for this unit of work
func (u *unitOfWork) HostRepository() interfaces.HostRepository {
	if u.hostRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.hostRepo
}

// GuildSettingsRepository returns the guild settings repository for this unit of work
func (u *unitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	if u.guildSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildSettingsRepo
}

// RaffleRepository returns the raffle repository for this unit of work
func (u *unitOfWork) RaffleRepository() interfaces.RaffleRepository {
	if u.raffleRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.raffleRepo
}

// SlotRepository returns the slot repository for this unit of work
func (u *unitOfWork) SlotRepository() interfaces.SlotRepository {
	if u.slotRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.slotRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
