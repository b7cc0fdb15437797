package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"raffler/domain/entities"
	"raffler/domain/interfaces"
	"raffler/domain/testhelpers"
)

type raffleServiceMocks struct {
	raffleRepo        *testhelpers.MockRaffleRepository
	slotRepo          *testhelpers.MockSlotRepository
	hostRepo          *testhelpers.MockHostRepository
	guildSettingsRepo *testhelpers.MockGuildSettingsRepository
	pub               *testhelpers.MockEventPublisher
}

func newRaffleServiceMocks() *raffleServiceMocks {
	return &raffleServiceMocks{
		raffleRepo:        new(testhelpers.MockRaffleRepository),
		slotRepo:          new(testhelpers.MockSlotRepository),
		hostRepo:          new(testhelpers.MockHostRepository),
		guildSettingsRepo: new(testhelpers.MockGuildSettingsRepository),
		pub:               new(testhelpers.MockEventPublisher),
	}
}

func (m *raffleServiceMocks) service() interfaces.RaffleService {
	return NewRaffleService(m.raffleRepo, m.slotRepo, m.hostRepo, m.guildSettingsRepo, m.pub)
}

func pendingRaffle(hostID int64) *entities.Raffle {
	return &entities.Raffle{
		ID:         "22222222-2222-2222-2222-222222222222",
		RaffleCode: "WXYZ5678",
		GuildID:    100,
		HostID:     hostID,
		Status:     entities.RaffleStatusPending,
		ItemTitle:  "Vintage Lens",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestRaffleService_CreateRaffle(t *testing.T) {
	t.Parallel()

	hostProfile := &entities.HostProfile{HostID: 1}

	tests := []struct {
		name        string
		hostID      int64
		roleIDs     []string
		itemTitle   string
		setupMocks  func(*raffleServiceMocks)
		wantErrKind entities.ErrorKind
	}{
		{
			name:      "creates pending raffle",
			hostID:    1,
			itemTitle: "Vintage Lens",
			setupMocks: func(m *raffleServiceMocks) {
				m.hostRepo.On("GetByID", mock.Anything, int64(1)).Return(hostProfile, nil)
				m.guildSettingsRepo.On("GetOrCreateGuildSettings", mock.Anything).Return(&entities.GuildSettings{GuildID: 100}, nil)
				m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockNone).Return((*entities.Raffle)(nil), nil)
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return((*entities.Raffle)(nil), nil)
				m.raffleRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Raffle")).Return(nil)
			},
		},
		{
			name:      "requires host profile",
			hostID:    1,
			itemTitle: "Vintage Lens",
			setupMocks: func(m *raffleServiceMocks) {
				m.hostRepo.On("GetByID", mock.Anything, int64(1)).Return((*entities.HostProfile)(nil), nil)
			},
			wantErrKind: entities.ErrKindNotAuthorized,
		},
		{
			name:      "enforces host role when configured",
			hostID:    1,
			roleIDs:   []string{"555"},
			itemTitle: "Vintage Lens",
			setupMocks: func(m *raffleServiceMocks) {
				roleID := int64(999)
				m.hostRepo.On("GetByID", mock.Anything, int64(1)).Return(hostProfile, nil)
				m.guildSettingsRepo.On("GetOrCreateGuildSettings", mock.Anything).Return(&entities.GuildSettings{GuildID: 100, HostRoleID: &roleID}, nil)
			},
			wantErrKind: entities.ErrKindNotAuthorized,
		},
		{
			name:      "passes host role check with matching role",
			hostID:    1,
			roleIDs:   []string{"123", "999"},
			itemTitle: "Vintage Lens",
			setupMocks: func(m *raffleServiceMocks) {
				roleID := int64(999)
				m.hostRepo.On("GetByID", mock.Anything, int64(1)).Return(hostProfile, nil)
				m.guildSettingsRepo.On("GetOrCreateGuildSettings", mock.Anything).Return(&entities.GuildSettings{GuildID: 100, HostRoleID: &roleID}, nil)
				m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockNone).Return((*entities.Raffle)(nil), nil)
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return((*entities.Raffle)(nil), nil)
				m.raffleRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Raffle")).Return(nil)
			},
		},
		{
			name:      "rejects while another raffle is active",
			hostID:    1,
			itemTitle: "Vintage Lens",
			setupMocks: func(m *raffleServiceMocks) {
				m.hostRepo.On("GetByID", mock.Anything, int64(1)).Return(hostProfile, nil)
				m.guildSettingsRepo.On("GetOrCreateGuildSettings", mock.Anything).Return(&entities.GuildSettings{GuildID: 100}, nil)
				m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockNone).Return(activeRaffle(), nil)
			},
			wantErrKind: entities.ErrKindAlreadyActive,
		},
		{
			name:      "rejects while a pending raffle exists",
			hostID:    1,
			itemTitle: "Vintage Lens",
			setupMocks: func(m *raffleServiceMocks) {
				m.hostRepo.On("GetByID", mock.Anything, int64(1)).Return(hostProfile, nil)
				m.guildSettingsRepo.On("GetOrCreateGuildSettings", mock.Anything).Return(&entities.GuildSettings{GuildID: 100}, nil)
				m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockNone).Return((*entities.Raffle)(nil), nil)
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(pendingRaffle(1), nil)
			},
			wantErrKind: entities.ErrKindInvalidState,
		},
		{
			name:        "rejects empty title",
			hostID:      1,
			itemTitle:   "",
			setupMocks:  func(*raffleServiceMocks) {},
			wantErrKind: entities.ErrKindValidation,
		},
		{
			name:      "retries raffle code collision",
			hostID:    1,
			itemTitle: "Vintage Lens",
			setupMocks: func(m *raffleServiceMocks) {
				m.hostRepo.On("GetByID", mock.Anything, int64(1)).Return(hostProfile, nil)
				m.guildSettingsRepo.On("GetOrCreateGuildSettings", mock.Anything).Return(&entities.GuildSettings{GuildID: 100}, nil)
				m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockNone).Return((*entities.Raffle)(nil), nil)
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return((*entities.Raffle)(nil), nil)
				m.raffleRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Raffle")).
					Return(entities.NewDomainError(entities.ErrKindConflict, "duplicate code")).Once()
				m.raffleRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Raffle")).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newRaffleServiceMocks()
			tt.setupMocks(m)

			raffle, err := m.service().CreateRaffle(context.Background(), tt.hostID, tt.roleIDs, tt.itemTitle, nil)

			if tt.wantErrKind != "" {
				require.Error(t, err)
				assert.True(t, entities.IsKind(err, tt.wantErrKind), "got kind %q", entities.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entities.RaffleStatusPending, raffle.Status)
			assert.Equal(t, tt.hostID, raffle.HostID)
			assert.NotEmpty(t, raffle.ID)
			assert.Len(t, raffle.RaffleCode, 8)
		})
	}
}

func TestRaffleService_ConfirmDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		marketPrice entities.Cents
		totalSlots  int
		maxPerUser  int
		closeTimer  *time.Time
		setupMocks  func(*raffleServiceMocks)
		wantCost    entities.Cents
		wantErrKind entities.ErrorKind
	}{
		{
			name:        "sets pricing on pending raffle",
			marketPrice: 10000,
			totalSlots:  10,
			maxPerUser:  3,
			setupMocks: func(m *raffleServiceMocks) {
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(pendingRaffle(1), nil)
				m.raffleRepo.On("Update", mock.Anything, mock.AnythingOfType("*entities.Raffle")).Return(nil)
			},
			wantCost: 1000,
		},
		{
			name:        "rounds uneven split half to even",
			marketPrice: 10000,
			totalSlots:  3,
			maxPerUser:  3,
			setupMocks: func(m *raffleServiceMocks) {
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(pendingRaffle(1), nil)
				m.raffleRepo.On("Update", mock.Anything, mock.AnythingOfType("*entities.Raffle")).Return(nil)
			},
			wantCost: 3333,
		},
		{
			name:        "no pending raffle",
			marketPrice: 10000,
			totalSlots:  10,
			maxPerUser:  3,
			setupMocks: func(m *raffleServiceMocks) {
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return((*entities.Raffle)(nil), nil)
			},
			wantErrKind: entities.ErrKindNotFound,
		},
		{
			name:        "cap above total slots rejected",
			marketPrice: 10000,
			totalSlots:  10,
			maxPerUser:  11,
			setupMocks: func(m *raffleServiceMocks) {
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(pendingRaffle(1), nil)
			},
			wantErrKind: entities.ErrKindValidation,
		},
		{
			name:        "past close time rejected",
			marketPrice: 10000,
			totalSlots:  10,
			maxPerUser:  3,
			closeTimer:  func() *time.Time { p := time.Now().UTC().Add(-time.Minute); return &p }(),
			setupMocks: func(m *raffleServiceMocks) {
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(pendingRaffle(1), nil)
			},
			wantErrKind: entities.ErrKindValidation,
		},
		{
			name:        "zero market price rejected",
			marketPrice: 0,
			totalSlots:  10,
			maxPerUser:  3,
			setupMocks: func(m *raffleServiceMocks) {
				m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(pendingRaffle(1), nil)
			},
			wantErrKind: entities.ErrKindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newRaffleServiceMocks()
			tt.setupMocks(m)

			raffle, err := m.service().ConfirmDetails(context.Background(), 1, "desc", tt.marketPrice, tt.totalSlots, tt.maxPerUser, tt.closeTimer)

			if tt.wantErrKind != "" {
				require.Error(t, err)
				assert.True(t, entities.IsKind(err, tt.wantErrKind), "got kind %q", entities.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, raffle.CostPerSlot)
			assert.Equal(t, tt.totalSlots, raffle.TotalSlots)
			assert.Equal(t, entities.RaffleStatusPending, raffle.Status)
		})
	}
}

func TestRaffleService_ActivateRaffle(t *testing.T) {
	t.Parallel()

	t.Run("activates confirmed raffle and publishes event", func(t *testing.T) {
		t.Parallel()

		r := pendingRaffle(1)
		r.MarketPrice = 10000
		r.CostPerSlot = 1000
		r.TotalSlots = 10
		r.MaxSlotsPerUser = 3

		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(r, nil)
		m.raffleRepo.On("Update", mock.Anything, r).Return(nil)
		m.pub.On("Publish", mock.AnythingOfType("events.RaffleStarted")).Return(nil)

		got, err := m.service().ActivateRaffle(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, entities.RaffleStatusActive, got.Status)
		m.pub.AssertCalled(t, "Publish", mock.AnythingOfType("events.RaffleStarted"))
	})

	t.Run("rejects raffle without pricing", func(t *testing.T) {
		t.Parallel()

		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(pendingRaffle(1), nil)

		_, err := m.service().ActivateRaffle(context.Background(), 1)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindInvalidState))
	})

	t.Run("maps unique violation to already active", func(t *testing.T) {
		t.Parallel()

		r := pendingRaffle(1)
		r.MarketPrice = 10000
		r.CostPerSlot = 1000
		r.TotalSlots = 10

		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(r, nil)
		m.raffleRepo.On("Update", mock.Anything, r).
			Return(entities.NewDomainError(entities.ErrKindAlreadyActive, "active raffle exists"))

		_, err := m.service().ActivateRaffle(context.Background(), 1)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindAlreadyActive))
	})
}

func TestRaffleService_CloseRaffle(t *testing.T) {
	t.Parallel()

	t.Run("host closes active raffle", func(t *testing.T) {
		t.Parallel()

		r := activeRaffle()
		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return(r, nil)
		m.raffleRepo.On("Update", mock.Anything, r).Return(nil)
		m.slotRepo.On("CountByRaffle", mock.Anything, r.ID).Return(6, nil)
		m.pub.On("Publish", mock.AnythingOfType("events.RaffleClosed")).Return(nil)

		got, err := m.service().CloseRaffle(context.Background(), r.HostID)
		require.NoError(t, err)
		assert.Equal(t, entities.RaffleStatusClosed, got.Status)
	})

	t.Run("non host cannot close", func(t *testing.T) {
		t.Parallel()

		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return(activeRaffle(), nil)

		_, err := m.service().CloseRaffle(context.Background(), 42)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindNotAuthorized))
	})

	t.Run("no active raffle", func(t *testing.T) {
		t.Parallel()

		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return((*entities.Raffle)(nil), nil)

		_, err := m.service().CloseRaffle(context.Background(), 1)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindNotFound))
	})
}

func TestRaffleService_PickWinner(t *testing.T) {
	t.Parallel()

	slotsFor := func(raffleID string) []*entities.Slot {
		return []*entities.Slot{
			{RaffleID: raffleID, SlotNumber: 1, ClaimantID: 10},
			{RaffleID: raffleID, SlotNumber: 2, ClaimantID: 11},
			{RaffleID: raffleID, SlotNumber: 3, ClaimantID: 10},
		}
	}

	t.Run("draws from active raffle", func(t *testing.T) {
		t.Parallel()

		r := activeRaffle()
		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return(r, nil)
		m.slotRepo.On("GetByRaffle", mock.Anything, r.ID).Return(slotsFor(r.ID), nil)
		m.raffleRepo.On("SetWinnerIfUnset", mock.Anything, r.ID, mock.AnythingOfType("int64")).Return(true, nil)
		m.pub.On("Publish", mock.AnythingOfType("events.WinnerDrawn")).Return(nil)

		info, err := m.service().PickWinner(context.Background(), r.HostID)
		require.NoError(t, err)
		require.NotNil(t, info.Raffle.WinnerID)
		assert.Contains(t, []int64{10, 11}, *info.Raffle.WinnerID)
		assert.Contains(t, []int{1, 2, 3}, info.WinningSlot)
		assert.Equal(t, entities.RaffleStatusClosed, info.Raffle.Status)
	})

	t.Run("falls back to latest closed raffle without winner", func(t *testing.T) {
		t.Parallel()

		r := activeRaffle()
		r.Status = entities.RaffleStatusClosed
		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return((*entities.Raffle)(nil), nil)
		m.raffleRepo.On("GetLatestClosedWithoutWinner", mock.Anything).Return(r, nil)
		m.slotRepo.On("GetByRaffle", mock.Anything, r.ID).Return(slotsFor(r.ID), nil)
		m.raffleRepo.On("SetWinnerIfUnset", mock.Anything, r.ID, mock.AnythingOfType("int64")).Return(true, nil)
		m.pub.On("Publish", mock.AnythingOfType("events.WinnerDrawn")).Return(nil)

		info, err := m.service().PickWinner(context.Background(), r.HostID)
		require.NoError(t, err)
		assert.NotNil(t, info.Raffle.WinnerID)
	})

	t.Run("no slots claimed", func(t *testing.T) {
		t.Parallel()

		r := activeRaffle()
		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return(r, nil)
		m.slotRepo.On("GetByRaffle", mock.Anything, r.ID).Return([]*entities.Slot{}, nil)

		_, err := m.service().PickWinner(context.Background(), r.HostID)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindInvalidState))
	})

	t.Run("second draw rejected", func(t *testing.T) {
		t.Parallel()

		r := activeRaffle()
		winner := int64(10)
		drawn := activeRaffle()
		drawn.WinnerID = &winner
		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return(r, nil)
		m.slotRepo.On("GetByRaffle", mock.Anything, r.ID).Return(slotsFor(r.ID), nil)
		m.raffleRepo.On("SetWinnerIfUnset", mock.Anything, r.ID, mock.AnythingOfType("int64")).Return(false, nil)
		m.raffleRepo.On("GetByID", mock.Anything, r.ID).Return(drawn, nil)

		_, err := m.service().PickWinner(context.Background(), r.HostID)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindWinnerAlreadyDrawn))
		m.pub.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("nothing to draw", func(t *testing.T) {
		t.Parallel()

		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return((*entities.Raffle)(nil), nil)
		m.raffleRepo.On("GetLatestClosedWithoutWinner", mock.Anything).Return((*entities.Raffle)(nil), nil)

		_, err := m.service().PickWinner(context.Background(), 1)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindNotFound))
	})
}

func TestRaffleService_ListRaffles(t *testing.T) {
	t.Parallel()

	t.Run("computes page bounds", func(t *testing.T) {
		t.Parallel()

		m := newRaffleServiceMocks()
		m.raffleRepo.On("ListByGuild", mock.Anything, 5, 5).Return([]*entities.Raffle{activeRaffle()}, 6, nil)

		page, err := m.service().ListRaffles(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 6, page.TotalCount)
		assert.Len(t, page.Raffles, 1)
	})

	t.Run("clamps page below one", func(t *testing.T) {
		t.Parallel()

		m := newRaffleServiceMocks()
		m.raffleRepo.On("ListByGuild", mock.Anything, 0, 5).Return([]*entities.Raffle{}, 0, nil)

		page, err := m.service().ListRaffles(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 0, page.TotalPages)
	})
}

func TestRaffleService_CancelPending(t *testing.T) {
	t.Parallel()

	t.Run("deletes pending raffle", func(t *testing.T) {
		t.Parallel()

		r := pendingRaffle(1)
		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return(r, nil)
		m.raffleRepo.On("Delete", mock.Anything, r.ID).Return(nil)

		require.NoError(t, m.service().CancelPending(context.Background(), 1))
		m.raffleRepo.AssertCalled(t, "Delete", mock.Anything, r.ID)
	})

	t.Run("nothing to cancel", func(t *testing.T) {
		t.Parallel()

		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetPendingByHost", mock.Anything, int64(1)).Return((*entities.Raffle)(nil), nil)

		err := m.service().CancelPending(context.Background(), 1)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindNotFound))
	})
}

func TestRaffleService_UpdateMaxSlots(t *testing.T) {
	t.Parallel()

	t.Run("host raises the cap", func(t *testing.T) {
		t.Parallel()

		r := activeRaffle()
		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return(r, nil)
		m.raffleRepo.On("Update", mock.Anything, r).Return(nil)

		got, err := m.service().UpdateMaxSlots(context.Background(), r.HostID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, got.MaxSlotsPerUser)
	})

	t.Run("cap above total slots rejected", func(t *testing.T) {
		t.Parallel()

		r := activeRaffle()
		m := newRaffleServiceMocks()
		m.raffleRepo.On("GetActiveByGuild", mock.Anything, interfaces.LockUpdate).Return(r, nil)

		_, err := m.service().UpdateMaxSlots(context.Background(), r.HostID, r.TotalSlots+1)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindValidation))
	})
}
