package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"raffler/domain/entities"
)

// SlotRepository implements slot data access with guild scope
type SlotRepository struct {
	q       Queryable
	guildID int64
}

// NewSlotRepositoryScoped creates a new slot repository with guild scope
func NewSlotRepositoryScoped(tx Queryable, guildID int64) *SlotRepository {
	return &SlotRepository{q: tx, guildID: guildID}
}

// CreateBatch inserts all slots in a single statement. The unique index
// on (raffle_id, slot_number) rejects the whole batch when any number was
// taken by a concurrent claim, which keeps claims all-or-nothing.
func (r *SlotRepository) CreateBatch(ctx context.Context, slots []*entities.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	query := `
		INSERT INTO slots (raffle_id, guild_id, slot_number, claimant_id, claimed_at)
		VALUES `

	values := make([]any, 0, len(slots)*5)
	for i, slot := range slots {
		if i > 0 {
			query += ", "
		}
		paramOffset := i * 5
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			paramOffset+1, paramOffset+2, paramOffset+3, paramOffset+4, paramOffset+5)
		values = append(values, slot.RaffleID, r.guildID, slot.SlotNumber, slot.ClaimantID, slot.ClaimedAt)
	}
	query += " RETURNING id"

	rows, err := r.q.Query(ctx, query, values...)
	if err != nil {
		return mapSlotError(err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if err := rows.Scan(&slots[i].ID); err != nil {
			return fmt.Errorf("failed to scan slot result: %w", err)
		}
		i++
	}
	return mapSlotError(rows.Err())
}

// GetTakenNumbers returns the claimed slot numbers, ascending
func (r *SlotRepository) GetTakenNumbers(ctx context.Context, raffleID string) ([]int, error) {
	query := `
		SELECT slot_number
		FROM slots
		WHERE raffle_id = $1
		ORDER BY slot_number ASC
	`

	rows, err := r.q.Query(ctx, query, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get taken slot numbers: %w", err)
	}
	defer rows.Close()

	var numbers []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan slot number: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slot numbers: %w", err)
	}
	return numbers, nil
}

// CountByRaffle returns how many slots are claimed in total
func (r *SlotRepository) CountByRaffle(ctx context.Context, raffleID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM slots WHERE raffle_id = $1`, raffleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count slots: %w", err)
	}
	return count, nil
}

// CountByClaimant returns how many slots one user holds
func (r *SlotRepository) CountByClaimant(ctx context.Context, raffleID string, claimantID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM slots WHERE raffle_id = $1 AND claimant_id = $2`,
		raffleID, claimantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count slots for claimant %d: %w", claimantID, err)
	}
	return count, nil
}

// GetByRaffle returns all slots ordered by slot number
func (r *SlotRepository) GetByRaffle(ctx context.Context, raffleID string) ([]*entities.Slot, error) {
	query := `
		SELECT id, raffle_id, slot_number, claimant_id, claimed_at
		FROM slots
		WHERE raffle_id = $1
		ORDER BY slot_number ASC
	`

	rows, err := r.q.Query(ctx, query, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slots: %w", err)
	}
	defer rows.Close()

	var slots []*entities.Slot
	for rows.Next() {
		var slot entities.Slot
		if err := rows.Scan(&slot.ID, &slot.RaffleID, &slot.SlotNumber, &slot.ClaimantID, &slot.ClaimedAt); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slots: %w", err)
	}
	return slots, nil
}

// GetParticipants returns per-claimant slot summaries ordered by first
// claimed slot
func (r *SlotRepository) GetParticipants(ctx context.Context, raffleID string) ([]*entities.ParticipantInfo, error) {
	query := `
		SELECT claimant_id, ARRAY_AGG(slot_number ORDER BY slot_number)
		FROM slots
		WHERE raffle_id = $1
		GROUP BY claimant_id
		ORDER BY MIN(slot_number)
	`

	rows, err := r.q.Query(ctx, query, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []*entities.ParticipantInfo
	for rows.Next() {
		var p entities.ParticipantInfo
		if err := rows.Scan(&p.ClaimantID, &p.SlotNumbers); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// mapSlotError translates the slot unique index collision into the
// retryable conflict error
func mapSlotError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return entities.WrapDomainError(entities.ErrKindConflict, err, "slot number taken by a concurrent claim")
	}
	return fmt.Errorf("failed to batch create slots: %w", err)
}
