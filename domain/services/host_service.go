package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"raffler/domain/entities"
	"raffler/domain/interfaces"
)

// hostService implements host profile operations
type hostService struct {
	hostRepo interfaces.HostRepository
}

// NewHostService creates a new host service
func NewHostService(hostRepo interfaces.HostRepository) interfaces.HostService {
	return &hostService{hostRepo: hostRepo}
}

// SetupProfile creates or replaces the caller's host profile
func (s *hostService) SetupProfile(ctx context.Context, hostID int64, commissionRate string, localMeetup, shipping, proxyClaims bool) (*entities.HostProfile, error) {
	commissionRate = strings.TrimSpace(commissionRate)
	if commissionRate != "" {
		// Reject rates that parse but are out of range; unrecognized
		// formats fall through as "no commission"
		if _, err := ParseCommission(commissionRate); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	profile := &entities.HostProfile{
		HostID:            hostID,
		CommissionRate:    commissionRate,
		AllowsLocalMeetup: localMeetup,
		AllowsShipping:    shipping,
		ProxyClaimEnabled: proxyClaims,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.hostRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save host profile: %w", err)
	}
	return profile, nil
}

// AddPaymentMethod registers a payment handle for a platform
func (s *hostService) AddPaymentMethod(ctx context.Context, hostID int64, platform, handle string) error {
	platform = strings.TrimSpace(platform)
	handle = strings.TrimSpace(handle)
	if platform == "" || handle == "" {
		return entities.NewDomainError(entities.ErrKindValidation, "platform and handle are both required")
	}

	profile, err := s.hostRepo.GetByID(ctx, hostID)
	if err != nil {
		return fmt.Errorf("failed to get host profile: %w", err)
	}
	if profile == nil {
		return entities.NewDomainError(entities.ErrKindNotFound, "set up a host profile first with /host setup")
	}

	method := &entities.PaymentMethod{
		HostID:    hostID,
		Platform:  platform,
		Handle:    handle,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.hostRepo.AddPaymentMethod(ctx, method); err != nil {
		return fmt.Errorf("failed to add payment method: %w", err)
	}
	return nil
}

// RemovePaymentMethod removes the handle for a platform
func (s *hostService) RemovePaymentMethod(ctx context.Context, hostID int64, platform string) error {
	platform = strings.TrimSpace(platform)
	removed, err := s.hostRepo.RemovePaymentMethod(ctx, hostID, platform)
	if err != nil {
		return fmt.Errorf("failed to remove payment method: %w", err)
	}
	if !removed {
		return entities.NewDomainError(entities.ErrKindNotFound, "you have no %s payment method", platform)
	}
	return nil
}

// GetHostInfo returns a host's profile and payment methods
func (s *hostService) GetHostInfo(ctx context.Context, hostID int64) (*entities.HostProfile, []*entities.PaymentMethod, error) {
	profile, err := s.hostRepo.GetByID(ctx, hostID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get host profile: %w", err)
	}
	if profile == nil {
		return nil, nil, entities.NewDomainError(entities.ErrKindNotFound, "that user has not set up a host profile")
	}

	methods, err := s.hostRepo.ListPaymentMethods(ctx, hostID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return profile, methods, nil
}
