package employeeregistry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"leave-service/internal/employeeregistry"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := employeeregistry.NewMemoryCache()

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)

	c.Set(ctx, 1, true)
	c.Set(ctx, 2, false)

	exists, ok := c.Get(ctx, 1)
	assert.True(t, ok)
	assert.True(t, exists)

	exists, ok = c.Get(ctx, 2)
	assert.True(t, ok)
	assert.False(t, exists)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := employeeregistry.NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			c.Set(ctx, id%10, id%10 == 0)
		}(int64(i))
		go func(id int64) {
			defer wg.Done()
			c.Get(ctx, id%10)
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
	exists, _ := c.Get(ctx, 0)
	assert.True(t, exists)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		c := employeeregistry.NewRedisCache(rdb, 0)

		mock.ExpectGet(employeeregistry.RedisCacheKey(1)).RedisNil()

		_, ok := c.Get(ctx, 1)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hit true and false", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		c := employeeregistry.NewRedisCache(rdb, 0)

		mock.ExpectGet(employeeregistry.RedisCacheKey(1)).SetVal("1")
		mock.ExpectGet(employeeregistry.RedisCacheKey(2)).SetVal("0")

		exists, ok := c.Get(ctx, 1)
		assert.True(t, ok)
		assert.True(t, exists)

		exists, ok = c.Get(ctx, 2)
		assert.True(t, ok)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("read error degrades to miss", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		c := employeeregistry.NewRedisCache(rdb, 0)

		mock.ExpectGet(employeeregistry.RedisCacheKey(1)).SetErr(errors.New("connection reset"))

		_, ok := c.Get(ctx, 1)
		assert.False(t, ok)
	})

	t.Run("set honours ttl", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		c := employeeregistry.NewRedisCache(rdb, time.Hour)

		mock.ExpectSet(employeeregistry.RedisCacheKey(5), "1", time.Hour).SetVal("OK")
		mock.ExpectSet(employeeregistry.RedisCacheKey(6), "0", time.Hour).SetVal("OK")

		c.Set(ctx, 5, true)
		c.Set(ctx, 6, false)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
