package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CrewRepository maintains the quest/adventurer junction.
type CrewRepository interface {
	Join(ctx context.Context, questID, adventurerID int64) error
	Leave(ctx context.Context, questID, adventurerID int64) error
}

type crewRepository struct {
	pool *pgxpool.Pool
}

// NewCrewRepository returns a Postgres-backed implementation.
func NewCrewRepository(pool *pgxpool.Pool) CrewRepository {
	return &crewRepository{pool: pool}
}

func (r *crewRepository) Join(ctx context.Context, questID, adventurerID int64) error {
	const query = `
        INSERT INTO quest_adventurers (quest_id, adventurer_id)
        VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, questID, adventurerID)
	return err
}

func (r *crewRepository) Leave(ctx context.Context, questID, adventurerID int64) error {
	const query = `
        DELETE FROM quest_adventurers WHERE quest_id=$1 AND adventurer_id=$2`

	cmd, err := r.pool.Exec(ctx, query, questID, adventurerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
