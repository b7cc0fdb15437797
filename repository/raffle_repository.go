package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"raffler/domain/entities"
	"raffler/domain/interfaces"
)

const raffleColumns = `raffle_id, raffle_code, guild_id, host_id, status, item_title, item_description,
		images, market_price, cost_per_slot, total_slots, max_slots_per_user, close_timer, winner_id, created_at`

// uniqueViolation is the Postgres error code for a unique index collision
const uniqueViolation = "23505"

// RaffleRepository implements raffle data access with guild scope
type RaffleRepository struct {
	q       Queryable
	guildID int64
}

// NewRaffleRepositoryScoped creates a new raffle repository with guild scope
func NewRaffleRepositoryScoped(tx Queryable, guildID int64) *RaffleRepository {
	return &RaffleRepository{q: tx, guildID: guildID}
}

// Create inserts a new raffle
func (r *RaffleRepository) Create(ctx context.Context, raffle *entities.Raffle) error {
	query := `
		INSERT INTO raffles (raffle_id, raffle_code, guild_id, host_id, status, item_title, item_description,
			images, market_price, cost_per_slot, total_slots, max_slots_per_user, close_timer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`

	raffle.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		raffle.ID,
		raffle.RaffleCode,
		r.guildID,
		raffle.HostID,
		raffle.Status,
		raffle.ItemTitle,
		raffle.ItemDescription,
		raffle.Images,
		raffle.MarketPrice,
		raffle.CostPerSlot,
		raffle.TotalSlots,
		raffle.MaxSlotsPerUser,
		raffle.CloseTimer,
	).Scan(&raffle.CreatedAt)
	if err != nil {
		if mapped := mapRaffleUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create raffle: %w", err)
	}
	return nil
}

// GetByID retrieves a raffle by UUID, or nil if not found
func (r *RaffleRepository) GetByID(ctx context.Context, raffleID string) (*entities.Raffle, error) {
	query := fmt.Sprintf(`SELECT %s FROM raffles WHERE raffle_id = $1 AND guild_id = $2`, raffleColumns)
	return r.getOne(ctx, query, raffleID, r.guildID)
}

// GetByCode retrieves a raffle by its short code, or nil if not found
func (r *RaffleRepository) GetByCode(ctx context.Context, code string) (*entities.Raffle, error) {
	query := fmt.Sprintf(`SELECT %s FROM raffles WHERE raffle_code = $1 AND guild_id = $2`, raffleColumns)
	return r.getOne(ctx, query, strings.ToUpper(code), r.guildID)
}

// GetActiveByGuild retrieves the guild's single active raffle, or nil.
// The lock is held for the rest of the transaction: claims take a shared
// lock so they run in parallel, close and winner draw take an exclusive
// one so they serialize against in-flight claims.
func (r *RaffleRepository) GetActiveByGuild(ctx context.Context, lock interfaces.RowLock) (*entities.Raffle, error) {
	query := fmt.Sprintf(`SELECT %s FROM raffles WHERE guild_id = $1 AND status = 'ACTIVE'`, raffleColumns)
	switch lock {
	case interfaces.LockShare:
		query += " FOR SHARE"
	case interfaces.LockUpdate:
		query += " FOR UPDATE"
	}
	return r.getOne(ctx, query, r.guildID)
}

// GetLatestClosedWithoutWinner retrieves the most recently closed raffle
// that has no winner yet, or nil
func (r *RaffleRepository) GetLatestClosedWithoutWinner(ctx context.Context) (*entities.Raffle, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM raffles
		WHERE guild_id = $1 AND status = 'CLOSED' AND winner_id IS NULL
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`, raffleColumns)
	return r.getOne(ctx, query, r.guildID)
}

// GetPendingByHost retrieves the host's pending raffle, or nil
func (r *RaffleRepository) GetPendingByHost(ctx context.Context, hostID int64) (*entities.Raffle, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM raffles
		WHERE guild_id = $1 AND host_id = $2 AND status = 'PENDING'
		ORDER BY created_at DESC
		LIMIT 1
	`, raffleColumns)
	return r.getOne(ctx, query, r.guildID, hostID)
}

// Update persists all mutable raffle fields
func (r *RaffleRepository) Update(ctx context.Context, raffle *entities.Raffle) error {
	query := `
		UPDATE raffles
		SET status = $3, item_description = $4, images = $5, market_price = $6, cost_per_slot = $7,
			total_slots = $8, max_slots_per_user = $9, close_timer = $10, winner_id = $11, created_at = $12
		WHERE raffle_id = $1 AND guild_id = $2
	`

	tag, err := r.q.Exec(ctx, query,
		raffle.ID,
		r.guildID,
		raffle.Status,
		raffle.ItemDescription,
		raffle.Images,
		raffle.MarketPrice,
		raffle.CostPerSlot,
		raffle.TotalSlots,
		raffle.MaxSlotsPerUser,
		raffle.CloseTimer,
		raffle.WinnerID,
		raffle.CreatedAt,
	)
	if err != nil {
		if mapped := mapRaffleUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update raffle %s: %w", raffle.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("raffle %s not found", raffle.ID)
	}
	return nil
}

// SetWinnerIfUnset atomically records the winner and closes the raffle.
// The WHERE clause is the idempotency guard: once winner_id is written no
// later draw can overwrite it.
func (r *RaffleRepository) SetWinnerIfUnset(ctx context.Context, raffleID string, winnerID int64) (bool, error) {
	query := `
		UPDATE raffles
		SET winner_id = $3, status = 'CLOSED'
		WHERE raffle_id = $1 AND guild_id = $2 AND winner_id IS NULL
	`

	tag, err := r.q.Exec(ctx, query, raffleID, r.guildID, winnerID)
	if err != nil {
		return false, fmt.Errorf("failed to set winner for raffle %s: %w", raffleID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// CloseIfActive atomically transitions ACTIVE -> CLOSED
func (r *RaffleRepository) CloseIfActive(ctx context.Context, raffleID string) (bool, error) {
	query := `
		UPDATE raffles
		SET status = 'CLOSED'
		WHERE raffle_id = $1 AND guild_id = $2 AND status = 'ACTIVE'
	`

	tag, err := r.q.Exec(ctx, query, raffleID, r.guildID)
	if err != nil {
		return false, fmt.Errorf("failed to close raffle %s: %w", raffleID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a raffle row
func (r *RaffleRepository) Delete(ctx context.Context, raffleID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM raffles WHERE raffle_id = $1 AND guild_id = $2`, raffleID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to delete raffle %s: %w", raffleID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("raffle %s not found", raffleID)
	}
	return nil
}

// ListByGuild returns a page of the guild's raffles, newest first, along
// with the total count
func (r *RaffleRepository) ListByGuild(ctx context.Context, offset, limit int) ([]*entities.Raffle, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM raffles WHERE guild_id = $1`, r.guildID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count raffles: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM raffles
		WHERE guild_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, raffleColumns)

	rows, err := r.q.Query(ctx, query, r.guildID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list raffles: %w", err)
	}
	defer rows.Close()

	var raffles []*entities.Raffle
	for rows.Next() {
		raffle, err := scanRaffle(rows)
		if err != nil {
			return nil, 0, err
		}
		raffles = append(raffles, raffle)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate raffles: %w", err)
	}
	return raffles, total, nil
}

func (r *RaffleRepository) getOne(ctx context.Context, query string, args ...any) (*entities.Raffle, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query raffle: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query raffle: %w", err)
		}
		return nil, nil
	}
	return scanRaffle(rows)
}

func scanRaffle(row pgx.Row) (*entities.Raffle, error) {
	var raffle entities.Raffle
	err := row.Scan(
		&raffle.ID,
		&raffle.RaffleCode,
		&raffle.GuildID,
		&raffle.HostID,
		&raffle.Status,
		&raffle.ItemTitle,
		&raffle.ItemDescription,
		&raffle.Images,
		&raffle.MarketPrice,
		&raffle.CostPerSlot,
		&raffle.TotalSlots,
		&raffle.MaxSlotsPerUser,
		&raffle.CloseTimer,
		&raffle.WinnerID,
		&raffle.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan raffle: %w", err)
	}
	return &raffle, nil
}

// mapRaffleUniqueViolation translates unique index collisions on the
// raffles table into domain errors. The partial index on active raffles
// is what enforces the one-active-raffle-per-guild invariant under
// concurrent activations.
func mapRaffleUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "one_active"):
		return entities.WrapDomainError(entities.ErrKindAlreadyActive, err, "an active raffle already exists in this guild")
	case strings.Contains(pgErr.ConstraintName, "raffle_code"):
		return entities.WrapDomainError(entities.ErrKindConflict, err, "raffle code already in use")
	default:
		return entities.WrapDomainError(entities.ErrKindConflict, err, "raffle conflicts with an existing row")
	}
}
