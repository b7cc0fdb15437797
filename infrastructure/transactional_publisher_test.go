package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raffler/domain/events"
)

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestTransactionalPublisher_FlushAfterCommit(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewTransactionalPublisher(mockPublisher)

	testEvent := events.RaffleFilled{
		GuildID:    456,
		RaffleID:   "d3adbeef-0000-0000-0000-000000000001",
		RaffleCode: "AB12CD34",
		HostID:     123,
		ItemTitle:  "Vintage Slab",
		TotalSlots: 20,
	}

	// Publish queues the event but nothing reaches the real bus yet
	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)
	assert.Len(t, mockPublisher.PublishedEvents, 0)

	// Flush releases the queue
	err = transPublisher.Flush(context.Background())
	require.NoError(t, err)

	require.Len(t, mockPublisher.PublishedEvents, 1)
	assert.Equal(t, testEvent, mockPublisher.PublishedEvents[0])

	// A second flush must not re-deliver
	err = transPublisher.Flush(context.Background())
	require.NoError(t, err)
	assert.Len(t, mockPublisher.PublishedEvents, 1)
}

func TestTransactionalPublisher_PreservesOrder(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewTransactionalPublisher(mockPublisher)

	claimed := events.SlotsClaimed{
		GuildID:     456,
		RaffleID:    "d3adbeef-0000-0000-0000-000000000001",
		ClaimantID:  789,
		SlotNumbers: []int{19, 20},
		OpenSlots:   0,
	}
	filled := events.RaffleFilled{
		GuildID:    456,
		RaffleID:   "d3adbeef-0000-0000-0000-000000000001",
		RaffleCode: "AB12CD34",
		HostID:     123,
		TotalSlots: 20,
	}

	require.NoError(t, transPublisher.Publish(claimed))
	require.NoError(t, transPublisher.Publish(filled))
	require.NoError(t, transPublisher.Flush(context.Background()))

	require.Len(t, mockPublisher.PublishedEvents, 2)
	assert.Equal(t, claimed, mockPublisher.PublishedEvents[0])
	assert.Equal(t, filled, mockPublisher.PublishedEvents[1])
}

func TestTransactionalPublisher_Discard(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewTransactionalPublisher(mockPublisher)

	testEvent := events.RaffleStarted{
		GuildID:    456,
		RaffleID:   "d3adbeef-0000-0000-0000-000000000001",
		RaffleCode: "AB12CD34",
		HostID:     123,
	}

	require.NoError(t, transPublisher.Publish(testEvent))

	// Discard instead of flush, as a rollback would
	transPublisher.Discard()

	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}

func TestEventBus_DispatchesToSubscribers(t *testing.T) {
	bus := NewEventBus()

	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeRaffleFilled, func(ctx context.Context, event events.Event) {
		received <- event
	})

	// A subscriber for another type must not fire
	wrongType := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeWinnerDrawn, func(ctx context.Context, event events.Event) {
		wrongType <- event
	})

	testEvent := events.RaffleFilled{
		GuildID:    456,
		RaffleCode: "AB12CD34",
		HostID:     123,
		TotalSlots: 20,
	}
	require.NoError(t, bus.Publish(testEvent))

	select {
	case got := <-received:
		assert.Equal(t, testEvent, got)
	case <-time.After(time.Second):
		t.Fatal("subscriber was not invoked")
	}

	select {
	case <-wrongType:
		t.Fatal("subscriber for a different event type was invoked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_HandlerPanicDoesNotStopOthers(t *testing.T) {
	bus := NewEventBus()

	bus.Subscribe(events.EventTypeRaffleFilled, func(ctx context.Context, event events.Event) {
		panic("bad handler")
	})

	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeRaffleFilled, func(ctx context.Context, event events.Event) {
		received <- event
	})

	testEvent := events.RaffleFilled{GuildID: 456, RaffleCode: "AB12CD34"}
	require.NoError(t, bus.Publish(testEvent))

	select {
	case got := <-received:
		assert.Equal(t, testEvent, got)
	case <-time.After(time.Second):
		t.Fatal("surviving subscriber was not invoked")
	}
}
