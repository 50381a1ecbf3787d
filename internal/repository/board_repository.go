package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questforge/quest-board/internal/domain"
)

// QuestViewingRepository defines read access to the quest board.
type QuestViewingRepository interface {
	ViewDetails(ctx context.Context, questID int64) (*domain.Quest, error)
	BoardChecking(ctx context.Context, filter domain.BoardFilter) ([]domain.Quest, error)
	AdventurersCount(ctx context.Context, questID int64) (int64, error)
}

type questViewingRepository struct {
	pool *pgxpool.Pool
}

// NewQuestViewingRepository returns a Postgres-backed implementation.
func NewQuestViewingRepository(pool *pgxpool.Pool) QuestViewingRepository {
	return &questViewingRepository{pool: pool}
}

const questColumns = `id, name, description, status, guild_commander_id, created_at, updated_at`

func (r *questViewingRepository) ViewDetails(ctx context.Context, questID int64) (*domain.Quest, error) {
	query := fmt.Sprintf(`SELECT %s FROM quests WHERE id=$1`, questColumns)

	var quest domain.Quest
	if err := r.pool.QueryRow(ctx, query, questID).Scan(
		&quest.ID,
		&quest.Name,
		&quest.Description,
		&quest.Status,
		&quest.GuildCommanderID,
		&quest.CreatedAt,
		&quest.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &quest, nil
}

func (r *questViewingRepository) BoardChecking(ctx context.Context, filter domain.BoardFilter) ([]domain.Quest, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Name != nil && *filter.Name != "" {
		args = append(args, "%"+*filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM quests`, questColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quests []domain.Quest
	for rows.Next() {
		var quest domain.Quest
		if err := rows.Scan(
			&quest.ID,
			&quest.Name,
			&quest.Description,
			&quest.Status,
			&quest.GuildCommanderID,
			&quest.CreatedAt,
			&quest.UpdatedAt,
		); err != nil {
			return nil, err
		}
		quests = append(quests, quest)
	}
	return quests, rows.Err()
}

func (r *questViewingRepository) AdventurersCount(ctx context.Context, questID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM quest_adventurers WHERE quest_id=$1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, questID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
