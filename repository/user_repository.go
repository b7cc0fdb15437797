package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"raffler/domain/entities"
)

// UserRepository implements user data access
type UserRepository struct {
	q Queryable
}

// NewUserRepositoryScoped creates a new user repository bound to a transaction
func NewUserRepositoryScoped(tx Queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByDiscordID retrieves a user, or nil if not found
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error) {
	query := `
		SELECT discord_id, username, created_at
		FROM users
		WHERE discord_id = $1
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, discordID).Scan(&user.DiscordID, &user.Username, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", discordID, err)
	}
	return &user, nil
}

// Upsert creates the user or refreshes their username
func (r *UserRepository) Upsert(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (discord_id, username)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE SET username = EXCLUDED.username
		RETURNING created_at
	`

	if err := r.q.QueryRow(ctx, query, user.DiscordID, user.Username).Scan(&user.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", user.DiscordID, err)
	}
	return nil
}
