package entities

import (
	"time"
)

// HostProfile represents a registered raffle host. A user must set up a
// host profile before creating raffles.
type HostProfile struct {
	HostID            int64     `db:"host_id"`
	CommissionRate    string    `db:"commission_rate"` // "5%" or a flat amount like "$5"
	AllowsLocalMeetup bool      `db:"allows_local_meetup"`
	AllowsShipping    bool      `db:"allows_shipping"`
	ProxyClaimEnabled bool      `db:"proxy_claim_enabled"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// PaymentMethod is one way a host accepts payment, unique per
// (host_id, platform).
type PaymentMethod struct {
	ID        int64     `db:"id"`
	HostID    int64     `db:"host_id"`
	Platform  string    `db:"platform"`
	Handle    string    `db:"handle"`
	CreatedAt time.Time `db:"created_at"`
}
