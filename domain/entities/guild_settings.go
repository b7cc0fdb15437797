package entities

// GuildSettings represents per-guild configuration
type GuildSettings struct {
	GuildID         int64  `db:"guild_id"`
	HostRoleID      *int64 `db:"raffle_host_role_id"` // NULL means anyone may host
	RaffleChannelID *int64 `db:"raffle_channel_id"`   // Channel for fill/winner notifications
}

// RequiresHostRole returns true if raffle creation is restricted to a role
func (s *GuildSettings) RequiresHostRole() bool {
	return s.HostRoleID != nil
}
