package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raffler/domain/events"
	"raffler/repository/testutil"
)

// recordingPublisher tracks buffered events and outcome calls
type recordingPublisher struct {
	pending   []events.Event
	flushed   []events.Event
	discarded int
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

func (p *recordingPublisher) Flush(ctx context.Context) error {
	p.flushed = append(p.flushed, p.pending...)
	p.pending = nil
	return nil
}

func (p *recordingPublisher) Discard() {
	p.discarded++
	p.pending = nil
}

func TestUnitOfWork_CommitPersistsAndFlushes(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)

	pub := &recordingPublisher{}
	uow := NewUnitOfWork(testDB.DB, testGuildID, pub)
	require.NoError(t, uow.Begin(ctx))

	raffle := testutil.CreateTestActiveRaffle(111, "AAAA1111")
	require.NoError(t, uow.RaffleRepository().Create(ctx, raffle))
	require.NoError(t, uow.EventBus().Publish(events.RaffleStarted{RaffleID: raffle.ID}))

	require.NoError(t, uow.Commit())
	require.Len(t, pub.flushed, 1)

	// The row is visible outside the transaction
	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)
	got, err := repo.GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)

	pub := &recordingPublisher{}
	uow := NewUnitOfWork(testDB.DB, testGuildID, pub)
	require.NoError(t, uow.Begin(ctx))

	raffle := testutil.CreateTestActiveRaffle(111, "AAAA1111")
	require.NoError(t, uow.RaffleRepository().Create(ctx, raffle))
	require.NoError(t, uow.EventBus().Publish(events.RaffleStarted{RaffleID: raffle.ID}))

	require.NoError(t, uow.Rollback())
	assert.Empty(t, pub.flushed)
	assert.Equal(t, 1, pub.discarded)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)
	got, err := repo.GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnitOfWork_GetterPanicsBeforeBegin(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	uow := NewUnitOfWork(testDB.DB, testGuildID, &recordingPublisher{})
	assert.Panics(t, func() { uow.RaffleRepository() })
}
