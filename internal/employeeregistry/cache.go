package employeeregistry

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores resolved existence answers keyed by employee id.
type Cache interface {
	Get(ctx context.Context, employeeID int64) (exists bool, ok bool)
	Set(ctx context.Context, employeeID int64, exists bool)
}

// MemoryCache keeps answers for the lifetime of the process. Nothing expires.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[int64]bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[int64]bool)}
}

func (c *MemoryCache) Get(_ context.Context, employeeID int64) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	exists, ok := c.entries[employeeID]
	return exists, ok
}

func (c *MemoryCache) Set(_ context.Context, employeeID int64, exists bool) {
	c.mu.Lock()
	c.entries[employeeID] = exists
	c.mu.Unlock()
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

const RedisCacheKeyPrefix = "employees:exists:"

func RedisCacheKey(employeeID int64) string {
	return RedisCacheKeyPrefix + strconv.FormatInt(employeeID, 10)
}

// RedisCache shares answers between instances. A zero ttl keeps entries
// forever. Redis failures degrade to cache misses.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) *RedisCache {
	l := zap.L().Named("employeeregistry.cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeeregistry.cache")
	}
	return &RedisCache{rdb: rdb, ttl: ttl, logger: l}
}

func (c *RedisCache) Get(ctx context.Context, employeeID int64) (bool, bool) {
	key := RedisCacheKey(employeeID)
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("verification cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false, false
	}

	switch val {
	case "1":
		return true, true
	case "0":
		return false, true
	default:
		c.logger.Warn("verification cache holds unexpected value", zap.String("key", key), zap.String("value", val))
		return false, false
	}
}

func (c *RedisCache) Set(ctx context.Context, employeeID int64, exists bool) {
	val := "0"
	if exists {
		val = "1"
	}
	key := RedisCacheKey(employeeID)
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		c.logger.Error("verification cache write failed", zap.String("key", key), zap.Error(err))
	}
}
