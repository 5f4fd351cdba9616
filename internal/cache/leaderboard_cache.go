package cache

import (
	"context"
	"fmt"
	"strikeops/internal/model"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache keeps the live per-game standings in a Redis ZSET so the
// in-match UI can poll cheap reads. The authoritative ranking is always the
// fold over the game's results; this is the fast path kept in step with it.
type LeaderboardCache interface {
	IncrScore(ctx context.Context, gameID, playerID string, delta int) error
	Sync(ctx context.Context, gameID string, lines []model.RankLine) error
	Top(ctx context.Context, gameID string, limit int) ([]Entry, error)
	Clear(ctx context.Context, gameID string) error
}

// Entry is one cached leaderboard line.
type Entry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{client: client}
}

func (c *leaderboardCache) key(gameID string) string {
	return fmt.Sprintf("game:%s:lb", gameID)
}

func (c *leaderboardCache) IncrScore(ctx context.Context, gameID, playerID string, delta int) error {
	return c.client.ZIncrBy(ctx, c.key(gameID), float64(delta), playerID).Err()
}

func (c *leaderboardCache) Sync(ctx context.Context, gameID string, lines []model.RankLine) error {
	key := c.key(gameID)
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	for _, line := range lines {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(line.Total), Member: line.PlayerID})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *leaderboardCache) Top(ctx context.Context, gameID string, limit int) ([]Entry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(gameID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(results))
	for i, z := range results {
		entries[i] = Entry{
			PlayerID: z.Member.(string),
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) Clear(ctx context.Context, gameID string) error {
	return c.client.Del(ctx, c.key(gameID)).Err()
}
