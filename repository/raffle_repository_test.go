package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raffler/domain/entities"
	"raffler/domain/interfaces"
	"raffler/repository/testutil"
)

const testGuildID = int64(1018733499869577296)

func setupHost(t *testing.T, testDB *testutil.TestDatabase, hostID int64) {
	t.Helper()
	hostRepo := NewHostRepositoryScoped(testDB.DB.Pool)
	require.NoError(t, hostRepo.Upsert(context.Background(), testutil.CreateTestHost(hostID)))
}

func TestRaffleRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)

	raffle := testutil.CreateTestRaffle(111, "AAAA1111")
	require.NoError(t, repo.Create(ctx, raffle))
	assert.False(t, raffle.CreatedAt.IsZero())
	assert.Equal(t, testGuildID, raffle.GuildID)

	got, err := repo.GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, raffle.RaffleCode, got.RaffleCode)
	assert.Equal(t, raffle.ItemTitle, got.ItemTitle)
	assert.Equal(t, raffle.Images, got.Images)
	assert.Equal(t, entities.Cents(10000), got.MarketPrice)
	assert.Equal(t, entities.RaffleStatusPending, got.Status)

	byCode, err := repo.GetByCode(ctx, "aaaa1111")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, raffle.ID, byCode.ID)

	missing, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRaffleRepository_DuplicateCodeConflict(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)
	require.NoError(t, repo.Create(ctx, testutil.CreateTestRaffle(111, "SAMECODE")))

	err := repo.Create(ctx, testutil.CreateTestRaffle(111, "SAMECODE"))
	require.Error(t, err)
	assert.True(t, entities.IsConflict(err))
}

func TestRaffleRepository_OneActivePerGuild(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)
	setupHost(t, testDB, 222)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)

	first := testutil.CreateTestActiveRaffle(111, "AAAA1111")
	require.NoError(t, repo.Create(ctx, first))

	// Second active raffle in the same guild hits the partial index
	err := repo.Create(ctx, testutil.CreateTestActiveRaffle(222, "BBBB2222"))
	require.Error(t, err)
	assert.True(t, entities.IsKind(err, entities.ErrKindAlreadyActive))

	// A pending raffle is fine
	pending := testutil.CreateTestRaffle(222, "CCCC3333")
	require.NoError(t, repo.Create(ctx, pending))

	// Activating the pending one while another is active also collides
	pending.Status = entities.RaffleStatusActive
	err = repo.Update(ctx, pending)
	require.Error(t, err)
	assert.True(t, entities.IsKind(err, entities.ErrKindAlreadyActive))

	// Another guild can run its own active raffle
	otherGuild := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID+1)
	require.NoError(t, otherGuild.Create(ctx, testutil.CreateTestActiveRaffle(111, "DDDD4444")))

	active, err := repo.GetActiveByGuild(ctx, interfaces.LockNone)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)
}

func TestRaffleRepository_SetWinnerIfUnset(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)
	raffle := testutil.CreateTestActiveRaffle(111, "AAAA1111")
	require.NoError(t, repo.Create(ctx, raffle))

	set, err := repo.SetWinnerIfUnset(ctx, raffle.ID, 555)
	require.NoError(t, err)
	assert.True(t, set)

	// Second draw is a no-op
	set, err = repo.SetWinnerIfUnset(ctx, raffle.ID, 666)
	require.NoError(t, err)
	assert.False(t, set)

	got, err := repo.GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, int64(555), *got.WinnerID)
	assert.Equal(t, entities.RaffleStatusClosed, got.Status)
}

func TestRaffleRepository_CloseIfActive(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)
	raffle := testutil.CreateTestActiveRaffle(111, "AAAA1111")
	require.NoError(t, repo.Create(ctx, raffle))

	closed, err := repo.CloseIfActive(ctx, raffle.ID)
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = repo.CloseIfActive(ctx, raffle.ID)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestRaffleRepository_GetLatestClosedWithoutWinner(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)

	none, err := repo.GetLatestClosedWithoutWinner(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	older := testutil.CreateTestRaffle(111, "AAAA1111")
	older.Status = entities.RaffleStatusClosed
	require.NoError(t, repo.Create(ctx, older))

	newer := testutil.CreateTestRaffle(111, "BBBB2222")
	newer.Status = entities.RaffleStatusClosed
	require.NoError(t, repo.Create(ctx, newer))

	withWinner := testutil.CreateTestRaffle(111, "CCCC3333")
	withWinner.Status = entities.RaffleStatusClosed
	require.NoError(t, repo.Create(ctx, withWinner))
	set, err := repo.SetWinnerIfUnset(ctx, withWinner.ID, 999)
	require.NoError(t, err)
	require.True(t, set)

	got, err := repo.GetLatestClosedWithoutWinner(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
}

func TestRaffleRepository_GetPendingByHost(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)
	setupHost(t, testDB, 222)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)
	raffle := testutil.CreateTestRaffle(111, "AAAA1111")
	require.NoError(t, repo.Create(ctx, raffle))

	got, err := repo.GetPendingByHost(ctx, 111)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, raffle.ID, got.ID)

	other, err := repo.GetPendingByHost(ctx, 222)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRaffleRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)
	raffle := testutil.CreateTestRaffle(111, "AAAA1111")
	require.NoError(t, repo.Create(ctx, raffle))

	require.NoError(t, repo.Delete(ctx, raffle.ID))

	got, err := repo.GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, repo.Delete(ctx, raffle.ID))
}

func TestRaffleRepository_ListByGuild(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupHost(t, testDB, 111)

	repo := NewRaffleRepositoryScoped(testDB.DB.Pool, testGuildID)
	codes := []string{"AAAA0001", "AAAA0002", "AAAA0003", "AAAA0004", "AAAA0005", "AAAA0006", "AAAA0007"}
	for _, code := range codes {
		r := testutil.CreateTestRaffle(111, code)
		r.Status = entities.RaffleStatusCancelled
		require.NoError(t, repo.Create(ctx, r))
	}

	page1, total, err := repo.ListByGuild(ctx, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, page1, 5)

	page2, total, err := repo.ListByGuild(ctx, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, page2, 2)
}
