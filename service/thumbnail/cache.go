/*
 * @module service/thumbnail/cache
 * @description 缩略图缓存，配置了 Redis 时多实例共享，否则使用进程内缓存
 * @architecture 工具层 - 缓存
 * @documentReference DESIGN.md
 * @stateFlow 文章链接 -> 缓存查询 -> 命中/未命中
 * @rules 抓取不到缩略图时缓存空字符串，避免重复抓取
 * @dependencies github.com/go-redis/redis/v8, github.com/patrickmn/go-cache
 * @refs service/thumbnail/fetcher.go
 */

package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

const redisKeyPrefix = "school-selector:thumbnail:"

// Cache 缩略图缓存
type Cache interface {
	Get(ctx context.Context, articleURL string) (string, bool)
	Set(ctx context.Context, articleURL, imageURL string)
}

// MemoryCache 进程内缓存
type MemoryCache struct {
	c *cache.Cache
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: cache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, articleURL string) (string, bool) {
	v, ok := m.c.Get(articleURL)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (m *MemoryCache) Set(_ context.Context, articleURL, imageURL string) {
	m.c.Set(articleURL, imageURL, cache.DefaultExpiration)
}

// RedisOptions Redis 连接参数
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache 基于 Redis 的共享缓存，读写失败只记录日志
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache 创建 Redis 缓存并测试连接
func NewRedisCache(opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis连接失败: %w", err)
	}

	slog.Info("缩略图Redis缓存初始化成功", "addr", opts.Addr, "db", opts.DB)
	return &RedisCache{client: client, ttl: opts.TTL}, nil
}

func (r *RedisCache) Get(ctx context.Context, articleURL string) (string, bool) {
	v, err := r.client.Get(ctx, redisKeyPrefix+articleURL).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("读取缩略图缓存失败", "url", articleURL, "error", err)
		}
		return "", false
	}
	return v, true
}

func (r *RedisCache) Set(ctx context.Context, articleURL, imageURL string) {
	if err := r.client.Set(ctx, redisKeyPrefix+articleURL, imageURL, r.ttl).Err(); err != nil {
		slog.Debug("写入缩略图缓存失败", "url", articleURL, "error", err)
	}
}

// Ping 探测 Redis 连接，供就绪检查使用
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close 关闭连接
func (r *RedisCache) Close() error {
	return r.client.Close()
}
