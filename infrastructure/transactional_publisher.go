package infrastructure

import (
	"context"

	log "github.com/sirupsen/logrus"

	"raffler/domain/events"
	"raffler/domain/interfaces"
	"raffler/repository"
)

// TransactionalPublisher holds events published during a transaction and
// releases them to the real bus only after the transaction commits.
// Rolled-back work never produces observable events.
type TransactionalPublisher struct {
	realPublisher interfaces.EventPublisher
	pending       []events.Event
}

// NewTransactionalPublisher creates a new transactional publisher
func NewTransactionalPublisher(realPublisher interfaces.EventPublisher) repository.TransactionalEventPublisher {
	return &TransactionalPublisher{
		realPublisher: realPublisher,
		pending:       make([]events.Event, 0),
	}
}

// Publish stores an event in the pending queue
func (p *TransactionalPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

// Flush publishes all pending events. Called after a successful commit.
func (p *TransactionalPublisher) Flush(ctx context.Context) error {
	for _, event := range p.pending {
		if err := p.realPublisher.Publish(event); err != nil {
			// Keep delivering the rest; one bad event must not swallow
			// the others after the transaction is already durable
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("failed to publish event during flush")
		}
	}
	p.pending = p.pending[:0]
	return nil
}

// Discard clears pending events without publishing. Called on rollback.
func (p *TransactionalPublisher) Discard() {
	if len(p.pending) > 0 {
		log.WithField("discardedEventCount", len(p.pending)).Debug("discarding pending events")
	}
	p.pending = p.pending[:0]
}
