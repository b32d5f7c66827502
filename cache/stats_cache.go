package cache

import (
	"context"
	"encoding/json"
	"time"

	"library-api/db"

	"github.com/redis/go-redis/v9"
)

const statsKey = "library:stats"

// StatsCache keeps the computed statistics in redis for a short TTL.
// Cache-aside: callers read through it and write back on a miss;
// mutating operations invalidate.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

// Get returns nil, nil on a cache miss.
func (c *StatsCache) Get(ctx context.Context) (*db.Statistics, error) {
	b, err := c.rdb.Get(ctx, statsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var s db.Statistics
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *StatsCache) Set(ctx context.Context, s *db.Statistics) error {
	b, _ := json.Marshal(s)
	return c.rdb.Set(ctx, statsKey, b, c.ttl).Err()
}

func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, statsKey).Err()
}
