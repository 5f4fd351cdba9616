package cache

import (
	"context"
	"fmt"
	"strikeops/internal/model"

	"github.com/redis/go-redis/v9"
)

// GameCache mirrors each game's status in Redis so the feed handler and
// other hot paths can gate without touching Mongo.
type GameCache interface {
	SetStatus(ctx context.Context, gameID string, status model.GameStatus) error
	GetStatus(ctx context.Context, gameID string) (model.GameStatus, error)
	Delete(ctx context.Context, gameID string) error
}

type gameCache struct {
	client *redis.Client
}

func NewGameCache(client *redis.Client) GameCache {
	return &gameCache{client: client}
}

func (c *gameCache) key(gameID string) string {
	return fmt.Sprintf("game:%s:status", gameID)
}

func (c *gameCache) SetStatus(ctx context.Context, gameID string, status model.GameStatus) error {
	return c.client.Set(ctx, c.key(gameID), string(status), 0).Err()
}

// GetStatus returns "" when the game is not cached.
func (c *gameCache) GetStatus(ctx context.Context, gameID string) (model.GameStatus, error) {
	val, err := c.client.Get(ctx, c.key(gameID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return model.GameStatus(val), nil
}

func (c *gameCache) Delete(ctx context.Context, gameID string) error {
	return c.client.Del(ctx, c.key(gameID)).Err()
}
