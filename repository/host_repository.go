package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"raffler/domain/entities"
)

// HostRepository implements host profile data access
type HostRepository struct {
	q Queryable
}

// NewHostRepositoryScoped creates a new host repository bound to a transaction
func NewHostRepositoryScoped(tx Queryable) *HostRepository {
	return &HostRepository{q: tx}
}

// GetByID retrieves a host profile, or nil if the user never set one up
func (r *HostRepository) GetByID(ctx context.Context, hostID int64) (*entities.HostProfile, error) {
	query := `
		SELECT host_id, commission_rate, allows_local_meetup, allows_shipping, proxy_claim_enabled, created_at, updated_at
		FROM raffle_hosts
		WHERE host_id = $1
	`

	var profile entities.HostProfile
	err := r.q.QueryRow(ctx, query, hostID).Scan(
		&profile.HostID,
		&profile.CommissionRate,
		&profile.AllowsLocalMeetup,
		&profile.AllowsShipping,
		&profile.ProxyClaimEnabled,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get host profile %d: %w", hostID, err)
	}
	return &profile, nil
}

// Upsert creates or replaces the host profile
func (r *HostRepository) Upsert(ctx context.Context, profile *entities.HostProfile) error {
	query := `
		INSERT INTO raffle_hosts (host_id, commission_rate, allows_local_meetup, allows_shipping, proxy_claim_enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (host_id) DO UPDATE SET
			commission_rate = EXCLUDED.commission_rate,
			allows_local_meetup = EXCLUDED.allows_local_meetup,
			allows_shipping = EXCLUDED.allows_shipping,
			proxy_claim_enabled = EXCLUDED.proxy_claim_enabled,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		profile.HostID,
		profile.CommissionRate,
		profile.AllowsLocalMeetup,
		profile.AllowsShipping,
		profile.ProxyClaimEnabled,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert host profile %d: %w", profile.HostID, err)
	}
	return nil
}

// AddPaymentMethod inserts or updates the handle for a platform
func (r *HostRepository) AddPaymentMethod(ctx context.Context, method *entities.PaymentMethod) error {
	query := `
		INSERT INTO host_payment_methods (host_id, platform, handle)
		VALUES ($1, $2, $3)
		ON CONFLICT (host_id, platform) DO UPDATE SET handle = EXCLUDED.handle
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, method.HostID, method.Platform, method.Handle).
		Scan(&method.ID, &method.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add payment method for host %d: %w", method.HostID, err)
	}
	return nil
}

// RemovePaymentMethod deletes the method for a platform
func (r *HostRepository) RemovePaymentMethod(ctx context.Context, hostID int64, platform string) (bool, error) {
	query := `
		DELETE FROM host_payment_methods
		WHERE host_id = $1 AND platform = $2
	`

	tag, err := r.q.Exec(ctx, query, hostID, platform)
	if err != nil {
		return false, fmt.Errorf("failed to remove payment method for host %d: %w", hostID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListPaymentMethods returns the host's methods ordered by platform
func (r *HostRepository) ListPaymentMethods(ctx context.Context, hostID int64) ([]*entities.PaymentMethod, error) {
	query := `
		SELECT id, host_id, platform, handle, created_at
		FROM host_payment_methods
		WHERE host_id = $1
		ORDER BY platform ASC
	`

	rows, err := r.q.Query(ctx, query, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods for host %d: %w", hostID, err)
	}
	defer rows.Close()

	var methods []*entities.PaymentMethod
	for rows.Next() {
		var m entities.PaymentMethod
		if err := rows.Scan(&m.ID, &m.HostID, &m.Platform, &m.Handle, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment methods: %w", err)
	}
	return methods, nil
}
