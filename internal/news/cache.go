package news

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/mcmusabe/blokhut-display/internal/core/error"
	"github.com/mcmusabe/blokhut-display/internal/models"
	"github.com/mcmusabe/blokhut-display/pkg/jsonfile"
)

// FeedCache stores the last good feed for when the bridge is unreachable.
type FeedCache interface {
	Load(ctx context.Context) ([]models.NewsItem, error)
	Store(ctx context.Context, items []models.NewsItem) error
}

// FileCache keeps the feed in a local JSON array of {time, text}.
type FileCache struct {
	Path string
}

func (c *FileCache) Load(context.Context) ([]models.NewsItem, error) {
	var items []models.NewsItem
	if err := jsonfile.Read(c.Path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *FileCache) Store(_ context.Context, items []models.NewsItem) error {
	return jsonfile.WriteAtomic(c.Path, items)
}

// RedisCache keeps the feed under a single key with a TTL.
type RedisCache struct {
	rdb redis.Cmdable
	key string
	ttl time.Duration
}

// NewRedisCache returns a cache storing under key; ttl <= 0 disables expiry.
func NewRedisCache(rdb redis.Cmdable, key string, ttl time.Duration) *RedisCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{rdb: rdb, key: key, ttl: ttl}
}

func (c *RedisCache) Load(ctx context.Context) ([]models.NewsItem, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	var items []models.NewsItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cached feed: %w", err)
	}
	return items, nil
}

func (c *RedisCache) Store(ctx context.Context, items []models.NewsItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, b, c.ttl).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}
