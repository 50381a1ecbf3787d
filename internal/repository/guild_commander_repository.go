package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questforge/quest-board/internal/domain"
)

// GuildCommanderRepository defines persistence access for guild commander accounts.
type GuildCommanderRepository interface {
	Register(ctx context.Context, username, passwordHash string) (int64, error)
	FindByUsername(ctx context.Context, username string) (*domain.GuildCommander, error)
}

type guildCommanderRepository struct {
	pool *pgxpool.Pool
}

// NewGuildCommanderRepository returns a Postgres-backed implementation.
func NewGuildCommanderRepository(pool *pgxpool.Pool) GuildCommanderRepository {
	return &guildCommanderRepository{pool: pool}
}

func (r *guildCommanderRepository) Register(ctx context.Context, username, passwordHash string) (int64, error) {
	const query = `
        INSERT INTO guild_commanders (username, password_hash)
        VALUES ($1, $2)
        RETURNING id`

	var id int64
	if err := r.pool.QueryRow(ctx, query, username, passwordHash).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *guildCommanderRepository) FindByUsername(ctx context.Context, username string) (*domain.GuildCommander, error) {
	const query = `
        SELECT id, username, password_hash, created_at, updated_at
        FROM guild_commanders WHERE username=$1`

	var commander domain.GuildCommander
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&commander.ID,
		&commander.Username,
		&commander.PasswordHash,
		&commander.CreatedAt,
		&commander.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &commander, nil
}
