package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questforge/quest-board/internal/domain"
)

// QuestOpsRepository defines write access to quests. Mutations are scoped to
// the owning guild commander: a row is only touched when both the quest id
// and the commander id match.
type QuestOpsRepository interface {
	Add(ctx context.Context, quest *domain.Quest) (int64, error)
	Edit(ctx context.Context, quest *domain.Quest) error
	Remove(ctx context.Context, questID, guildCommanderID int64) error
	UpdateStatus(ctx context.Context, questID, guildCommanderID int64, status domain.QuestStatus) error
}

type questOpsRepository struct {
	pool *pgxpool.Pool
}

// NewQuestOpsRepository returns a Postgres-backed implementation.
func NewQuestOpsRepository(pool *pgxpool.Pool) QuestOpsRepository {
	return &questOpsRepository{pool: pool}
}

func (r *questOpsRepository) Add(ctx context.Context, quest *domain.Quest) (int64, error) {
	const query = `
        INSERT INTO quests (name, description, status, guild_commander_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	var id int64
	if err := r.pool.QueryRow(ctx, query,
		quest.Name,
		quest.Description,
		quest.Status,
		quest.GuildCommanderID,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *questOpsRepository) Edit(ctx context.Context, quest *domain.Quest) error {
	const query = `
        UPDATE quests SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3 AND guild_commander_id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		quest.Name,
		quest.Description,
		quest.ID,
		quest.GuildCommanderID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *questOpsRepository) Remove(ctx context.Context, questID, guildCommanderID int64) error {
	const junctionQuery = `DELETE FROM quest_adventurers WHERE quest_id=$1`
	const query = `DELETE FROM quests WHERE id=$1 AND guild_commander_id=$2`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, junctionQuery, questID); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, query, questID, guildCommanderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *questOpsRepository) UpdateStatus(ctx context.Context, questID, guildCommanderID int64, status domain.QuestStatus) error {
	const query = `
        UPDATE quests SET status=$1, updated_at=NOW()
        WHERE id=$2 AND guild_commander_id=$3`

	cmd, err := r.pool.Exec(ctx, query, status, questID, guildCommanderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
