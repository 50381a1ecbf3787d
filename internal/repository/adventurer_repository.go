package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questforge/quest-board/internal/domain"
)

// AdventurerRepository defines persistence access for adventurer accounts.
type AdventurerRepository interface {
	Register(ctx context.Context, username, passwordHash string) (int64, error)
	FindByUsername(ctx context.Context, username string) (*domain.Adventurer, error)
}

type adventurerRepository struct {
	pool *pgxpool.Pool
}

// NewAdventurerRepository returns a Postgres-backed implementation.
func NewAdventurerRepository(pool *pgxpool.Pool) AdventurerRepository {
	return &adventurerRepository{pool: pool}
}

func (r *adventurerRepository) Register(ctx context.Context, username, passwordHash string) (int64, error) {
	const query = `
        INSERT INTO adventurers (username, password_hash)
        VALUES ($1, $2)
        RETURNING id`

	var id int64
	if err := r.pool.QueryRow(ctx, query, username, passwordHash).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *adventurerRepository) FindByUsername(ctx context.Context, username string) (*domain.Adventurer, error) {
	const query = `
        SELECT id, username, password_hash, created_at, updated_at
        FROM adventurers WHERE username=$1`

	var adventurer domain.Adventurer
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&adventurer.ID,
		&adventurer.Username,
		&adventurer.PasswordHash,
		&adventurer.CreatedAt,
		&adventurer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &adventurer, nil
}
