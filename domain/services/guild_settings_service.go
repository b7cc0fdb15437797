package services

import (
	"context"
	"fmt"

	"raffler/domain/entities"
	"raffler/domain/interfaces"
)

// guildSettingsService implements guild settings operations
type guildSettingsService struct {
	guildSettingsRepo interfaces.GuildSettingsRepository
}

// NewGuildSettingsService creates a new guild settings service
func NewGuildSettingsService(guildSettingsRepo interfaces.GuildSettingsRepository) interfaces.GuildSettingsService {
	return &guildSettingsService{guildSettingsRepo: guildSettingsRepo}
}

// GetOrCreateSettings retrieves guild settings or creates defaults
func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context) (*entities.GuildSettings, error) {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	return settings, nil
}

// UpdateHostRole sets or clears the role required to host raffles
func (s *guildSettingsService) UpdateHostRole(ctx context.Context, roleID *int64) error {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}
	settings.HostRoleID = roleID
	if err := s.guildSettingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}
	return nil
}

// UpdateRaffleChannel sets or clears the announcement channel
func (s *guildSettingsService) UpdateRaffleChannel(ctx context.Context, channelID *int64) error {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}
	settings.RaffleChannelID = channelID
	if err := s.guildSettingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}
	return nil
}
