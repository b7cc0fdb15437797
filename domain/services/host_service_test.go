package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"raffler/domain/entities"
	"raffler/domain/testhelpers"
)

func TestHostService_SetupProfile(t *testing.T) {
	t.Parallel()

	t.Run("saves profile with percent commission", func(t *testing.T) {
		t.Parallel()

		hostRepo := new(testhelpers.MockHostRepository)
		hostRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.HostProfile")).Return(nil)

		service := NewHostService(hostRepo)
		profile, err := service.SetupProfile(context.Background(), 1, "5%", true, false, true)
		require.NoError(t, err)
		assert.Equal(t, "5%", profile.CommissionRate)
		assert.True(t, profile.AllowsLocalMeetup)
		assert.False(t, profile.AllowsShipping)
		assert.True(t, profile.ProxyClaimEnabled)
	})

	t.Run("rejects out of range commission", func(t *testing.T) {
		t.Parallel()

		service := NewHostService(new(testhelpers.MockHostRepository))
		_, err := service.SetupProfile(context.Background(), 1, "500%", false, false, false)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindValidation))
	})

	t.Run("accepts empty commission", func(t *testing.T) {
		t.Parallel()

		hostRepo := new(testhelpers.MockHostRepository)
		hostRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.HostProfile")).Return(nil)

		service := NewHostService(hostRepo)
		profile, err := service.SetupProfile(context.Background(), 1, "", false, true, false)
		require.NoError(t, err)
		assert.Empty(t, profile.CommissionRate)
	})
}

func TestHostService_PaymentMethods(t *testing.T) {
	t.Parallel()

	t.Run("adds method for registered host", func(t *testing.T) {
		t.Parallel()

		hostRepo := new(testhelpers.MockHostRepository)
		hostRepo.On("GetByID", mock.Anything, int64(1)).Return(&entities.HostProfile{HostID: 1}, nil)
		hostRepo.On("AddPaymentMethod", mock.Anything, mock.AnythingOfType("*entities.PaymentMethod")).Return(nil)

		service := NewHostService(hostRepo)
		require.NoError(t, service.AddPaymentMethod(context.Background(), 1, "venmo", "@seller"))
	})

	t.Run("rejects add without profile", func(t *testing.T) {
		t.Parallel()

		hostRepo := new(testhelpers.MockHostRepository)
		hostRepo.On("GetByID", mock.Anything, int64(1)).Return((*entities.HostProfile)(nil), nil)

		service := NewHostService(hostRepo)
		err := service.AddPaymentMethod(context.Background(), 1, "venmo", "@seller")
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindNotFound))
	})

	t.Run("rejects blank platform", func(t *testing.T) {
		t.Parallel()

		service := NewHostService(new(testhelpers.MockHostRepository))
		err := service.AddPaymentMethod(context.Background(), 1, "  ", "@seller")
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindValidation))
	})

	t.Run("remove reports missing platform", func(t *testing.T) {
		t.Parallel()

		hostRepo := new(testhelpers.MockHostRepository)
		hostRepo.On("RemovePaymentMethod", mock.Anything, int64(1), "zelle").Return(false, nil)

		service := NewHostService(hostRepo)
		err := service.RemovePaymentMethod(context.Background(), 1, "zelle")
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindNotFound))
	})
}

func TestHostService_GetHostInfo(t *testing.T) {
	t.Parallel()

	t.Run("returns profile with methods", func(t *testing.T) {
		t.Parallel()

		hostRepo := new(testhelpers.MockHostRepository)
		hostRepo.On("GetByID", mock.Anything, int64(1)).Return(&entities.HostProfile{HostID: 1, CommissionRate: "5%"}, nil)
		hostRepo.On("ListPaymentMethods", mock.Anything, int64(1)).Return([]*entities.PaymentMethod{
			{HostID: 1, Platform: "venmo", Handle: "@seller"},
		}, nil)

		service := NewHostService(hostRepo)
		profile, methods, err := service.GetHostInfo(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "5%", profile.CommissionRate)
		require.Len(t, methods, 1)
		assert.Equal(t, "venmo", methods[0].Platform)
	})

	t.Run("unknown host", func(t *testing.T) {
		t.Parallel()

		hostRepo := new(testhelpers.MockHostRepository)
		hostRepo.On("GetByID", mock.Anything, int64(2)).Return((*entities.HostProfile)(nil), nil)

		service := NewHostService(hostRepo)
		_, _, err := service.GetHostInfo(context.Background(), 2)
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrKindNotFound))
	})
}
