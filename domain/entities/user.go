package entities

import (
	"time"
)

// User represents a Discord user known to the system
type User struct {
	DiscordID int64     `db:"discord_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}
