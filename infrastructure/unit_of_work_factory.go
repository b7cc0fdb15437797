package infrastructure

import (
	"raffler/application"
	"raffler/database"
	"raffler/repository"
)

// UnitOfWorkFactory implements the application.UnitOfWorkFactory
// interface. Each unit of work gets its own transactional publisher so
// events buffered in one transaction never leak into another.
type UnitOfWorkFactory struct {
	db       *database.DB
	eventBus *EventBus
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventBus *EventBus) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, eventBus: eventBus}
}

// CreateForGuild creates a new UnitOfWork scoped to a specific guild
func (f *UnitOfWorkFactory) CreateForGuild(guildID int64) application.UnitOfWork {
	return repository.NewUnitOfWork(f.db, guildID, NewTransactionalPublisher(f.eventBus))
}
