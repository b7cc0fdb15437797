package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"
)

// GuildSettingsRepository implements guild settings data access
type GuildSettingsRepository struct {
	q       Queryable
	guildID int64
}

// NewGuildSettingsRepositoryScoped creates a new guild settings repository with guild scope
func NewGuildSettingsRepositoryScoped(tx Queryable, guildID int64) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: tx, guildID: guildID}
}

// GetOrCreateGuildSettings retrieves settings, creating defaults if absent
func (r *GuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context) (*entities.GuildSettings, error) {
	query := `
		INSERT INTO guild_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, raffle_host_role_id, raffle_channel_id
	`

	var settings entities.GuildSettings
	err := r.q.QueryRow(ctx, query, r.guildID).
		Scan(&settings.GuildID, &settings.HostRoleID, &settings.RaffleChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild settings for guild %d: %w", r.guildID, err)
	}
	return &settings, nil
}

// UpdateGuildSettings persists changed settings
func (r *GuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET raffle_host_role_id = $2, raffle_channel_id = $3
		WHERE guild_id = $1
	`

	tag, err := r.q.Exec(ctx, query, r.guildID, settings.HostRoleID, settings.RaffleChannelID)
	if err != nil {
		return fmt.Errorf("failed to update guild settings for guild %d: %w", r.guildID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guild settings for guild %d do not exist", r.guildID)
	}
	return nil
}
