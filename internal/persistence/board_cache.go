package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/questforge/quest-board/internal/domain"
)

// DefaultBoardCacheTTL keeps board reads fresh without hammering postgres.
const DefaultBoardCacheTTL = 30 * time.Second

const (
	boardCacheKeyPrefix  = "board:list:"
	questCacheKeyPrefix  = "board:quest:"
	boardCacheKeyPattern = boardCacheKeyPrefix + "*"
)

// BoardCache caches board listings and quest details in Redis. All methods
// degrade to a cache miss on transport errors so the board stays readable
// when Redis is down.
type BoardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBoardCache builds a cache over the shared redis client.
func NewBoardCache(client *redis.Client, ttl time.Duration) *BoardCache {
	if ttl <= 0 {
		ttl = DefaultBoardCacheTTL
	}
	return &BoardCache{client: client, ttl: ttl}
}

// GetBoard returns the cached listing for the filter, or (nil, false).
func (c *BoardCache) GetBoard(ctx context.Context, filter domain.BoardFilter) ([]domain.QuestView, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, boardKey(filter)).Bytes()
	if err != nil {
		return nil, false
	}
	var views []domain.QuestView
	if err := json.Unmarshal(raw, &views); err != nil {
		return nil, false
	}
	return views, true
}

// SetBoard stores a listing under the filter's key.
func (c *BoardCache) SetBoard(ctx context.Context, filter domain.BoardFilter, views []domain.QuestView) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(views)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, boardKey(filter), raw, c.ttl).Err()
}

// GetQuest returns the cached detail view for a quest, or (nil, false).
func (c *BoardCache) GetQuest(ctx context.Context, questID int64) (*domain.QuestView, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, questKey(questID)).Bytes()
	if err != nil {
		return nil, false
	}
	var view domain.QuestView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, false
	}
	return &view, true
}

// SetQuest stores a quest detail view.
func (c *BoardCache) SetQuest(ctx context.Context, view *domain.QuestView) {
	if c == nil || c.client == nil || view == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, questKey(view.ID), raw, c.ttl).Err()
}

// Invalidate drops the detail entry for a quest and every cached listing.
// Called after any quest or crew mutation.
func (c *BoardCache) Invalidate(ctx context.Context, questID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, questKey(questID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	iter := c.client.Scan(ctx, 0, boardCacheKeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func boardKey(filter domain.BoardFilter) string {
	name := ""
	if filter.Name != nil {
		name = *filter.Name
	}
	status := ""
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	return fmt.Sprintf("%s%s|%s", boardCacheKeyPrefix, name, status)
}

func questKey(questID int64) string {
	return fmt.Sprintf("%s%d", questCacheKeyPrefix, questID)
}
