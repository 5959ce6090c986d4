package thumbnail

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(50 * time.Millisecond)

	_, ok := c.Get(ctx, "https://example.com/a")
	assert.False(t, ok)

	c.Set(ctx, "https://example.com/a", "https://example.com/a.jpg")
	c.Set(ctx, "https://example.com/b", "")

	v, ok := c.Get(ctx, "https://example.com/a")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/a.jpg", v)

	// 空字符串表示已确认没有缩略图
	v, ok = c.Get(ctx, "https://example.com/b")
	assert.True(t, ok)
	assert.Empty(t, v)

	time.Sleep(80 * time.Millisecond)
	_, ok = c.Get(ctx, "https://example.com/a")
	assert.False(t, ok, "过期后应未命中")
}

// setupTestRedis 连接本地 Redis，不可用时跳过
func setupTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rc, err := NewRedisCache(RedisOptions{Addr: addr, TTL: time.Minute})
	if err != nil {
		t.Skipf("Redis不可用，跳过: %v", err)
	}
	t.Cleanup(func() { rc.Close() })
	return rc
}

func TestRedisCache(t *testing.T) {
	rc := setupTestRedis(t)
	ctx := context.Background()
	key := "https://example.com/" + time.Now().Format("150405.000000")

	_, ok := rc.Get(ctx, key)
	assert.False(t, ok)

	rc.Set(ctx, key, "https://example.com/x.jpg")
	v, ok := rc.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/x.jpg", v)
	assert.NoError(t, rc.Ping(ctx))

	rc.client.Del(ctx, redisKeyPrefix+key)
}
