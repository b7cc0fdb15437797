package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"raffler/domain/entities"
	"raffler/domain/events"
	"raffler/domain/interfaces"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockHostRepository is a mock implementation of HostRepository
type MockHostRepository struct {
	mock.Mock
}

func (m *MockHostRepository) GetByID(ctx context.Context, hostID int64) (*entities.HostProfile, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HostProfile), args.Error(1)
}

func (m *MockHostRepository) Upsert(ctx context.Context, profile *entities.HostProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockHostRepository) AddPaymentMethod(ctx context.Context, method *entities.PaymentMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockHostRepository) RemovePaymentMethod(ctx context.Context, hostID int64, platform string) (bool, error) {
	args := m.Called(ctx, hostID, platform)
	return args.Bool(0), args.Error(1)
}

func (m *MockHostRepository) ListPaymentMethods(ctx context.Context, hostID int64) ([]*entities.PaymentMethod, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentMethod), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context) (*entities.GuildSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockRaffleRepository is a mock implementation of RaffleRepository
type MockRaffleRepository struct {
	mock.Mock
}

func (m *MockRaffleRepository) Create(ctx context.Context, raffle *entities.Raffle) error {
	args := m.Called(ctx, raffle)
	return args.Error(0)
}

func (m *MockRaffleRepository) GetByID(ctx context.Context, raffleID string) (*entities.Raffle, error) {
	args := m.Called(ctx, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) GetByCode(ctx context.Context, code string) (*entities.Raffle, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) GetActiveByGuild(ctx context.Context, lock interfaces.RowLock) (*entities.Raffle, error) {
	args := m.Called(ctx, lock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) GetLatestClosedWithoutWinner(ctx context.Context) (*entities.Raffle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) GetPendingByHost(ctx context.Context, hostID int64) (*entities.Raffle, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) Update(ctx context.Context, raffle *entities.Raffle) error {
	args := m.Called(ctx, raffle)
	return args.Error(0)
}

func (m *MockRaffleRepository) SetWinnerIfUnset(ctx context.Context, raffleID string, winnerID int64) (bool, error) {
	args := m.Called(ctx, raffleID, winnerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRaffleRepository) CloseIfActive(ctx context.Context, raffleID string) (bool, error) {
	args := m.Called(ctx, raffleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRaffleRepository) Delete(ctx context.Context, raffleID string) error {
	args := m.Called(ctx, raffleID)
	return args.Error(0)
}

func (m *MockRaffleRepository) ListByGuild(ctx context.Context, offset, limit int) ([]*entities.Raffle, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Raffle), args.Int(1), args.Error(2)
}

// MockSlotRepository is a mock implementation of SlotRepository
type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) CreateBatch(ctx context.Context, slots []*entities.Slot) error {
	args := m.Called(ctx, slots)
	return args.Error(0)
}

func (m *MockSlotRepository) GetTakenNumbers(ctx context.Context, raffleID string) ([]int, error) {
	args := m.Called(ctx, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockSlotRepository) CountByRaffle(ctx context.Context, raffleID string) (int, error) {
	args := m.Called(ctx, raffleID)
	return args.Int(0), args.Error(1)
}

func (m *MockSlotRepository) CountByClaimant(ctx context.Context, raffleID string, claimantID int64) (int, error) {
	args := m.Called(ctx, raffleID, claimantID)
	return args.Int(0), args.Error(1)
}

func (m *MockSlotRepository) GetByRaffle(ctx context.Context, raffleID string) ([]*entities.Slot, error) {
	args := m.Called(ctx, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Slot), args.Error(1)
}

func (m *MockSlotRepository) GetParticipants(ctx context.Context, raffleID string) ([]*entities.ParticipantInfo, error) {
	args := m.Called(ctx, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ParticipantInfo), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
