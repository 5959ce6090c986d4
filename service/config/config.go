/*
 * @module service/config/config
 * @description 服务配置，全部来自环境变量，缺省值可直接本地运行
 * @architecture 配置层
 * @documentReference DESIGN.md
 * @stateFlow 环境变量 -> cast 转换 -> Config
 * @rules 无法解析的数值回退为缺省值并记录告警
 * @dependencies github.com/spf13/cast
 * @refs service/init.go, main.go
 */

package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kingyeung625/hk-school-selector/service/normalizer"

	"github.com/spf13/cast"
)

// Config 服务配置
type Config struct {
	ListenPort  string
	BaseContext string
	LogLevel    string

	SessionTTL     time.Duration
	ResultCacheTTL time.Duration
	UploadMaxBytes int64

	CategoryFallback normalizer.CategoryFallback

	DatasetPreloadPath string
	DatasetReloadCron  string

	ThumbnailTimeout     time.Duration
	ThumbnailCacheTTL    time.Duration
	ThumbnailConcurrency int

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// Load 读取环境变量
func Load() *Config {
	return &Config{
		ListenPort:  GetEnvWithDefault("LISTEN_PORT", "80"),
		BaseContext: GetEnvWithDefault("BASE_CONTEXT", ""),
		LogLevel:    GetEnvWithDefault("LOG_LEVEL", "info"),

		SessionTTL:     envDuration("SESSION_TTL", 2*time.Hour),
		ResultCacheTTL: envDuration("RESULT_CACHE_TTL", 10*time.Minute),
		UploadMaxBytes: envInt64("UPLOAD_MAX_BYTES", 32<<20),

		CategoryFallback: parseFallback(GetEnvWithDefault("CATEGORY_FALLBACK", string(normalizer.FallbackOther))),

		DatasetPreloadPath: GetEnvWithDefault("DATASET_PRELOAD_PATH", ""),
		DatasetReloadCron:  GetEnvWithDefault("DATASET_RELOAD_CRON", ""),

		ThumbnailTimeout:     envDuration("THUMBNAIL_TIMEOUT", 5*time.Second),
		ThumbnailCacheTTL:    envDuration("THUMBNAIL_CACHE_TTL", 24*time.Hour),
		ThumbnailConcurrency: int(envInt64("THUMBNAIL_CONCURRENCY", 4)),

		RedisHost:     GetEnvWithDefault("REDIS_HOST", ""),
		RedisPort:     GetEnvWithDefault("REDIS_PORT", "6379"),
		RedisPassword: GetEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:       int(envInt64("REDIS_DB", 0)),
	}
}

// RedisEnabled 是否配置了 Redis
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr Redis 地址
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// NormalizerOptions 规范化器选项
func (c *Config) NormalizerOptions() normalizer.Options {
	opts := normalizer.DefaultOptions()
	opts.CategoryFallback = c.CategoryFallback
	return opts
}

// GetEnvWithDefault 获取环境变量，如果不存在则返回默认值
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envDuration 支持 "90s" 形式，纯数字按秒处理
func envDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	if secs, err := cast.ToInt64E(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := cast.ToDurationE(raw)
	if err != nil || d <= 0 {
		slog.Warn("配置值无效，使用缺省值", "key", key, "value", raw, "default", def.String())
		return def
	}
	return d
}

func envInt64(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := cast.ToInt64E(raw)
	if err != nil || v < 0 {
		slog.Warn("配置值无效，使用缺省值", "key", key, "value", raw, "default", def)
		return def
	}
	return v
}

func parseFallback(v string) normalizer.CategoryFallback {
	switch normalizer.CategoryFallback(v) {
	case normalizer.FallbackRaw:
		return normalizer.FallbackRaw
	case normalizer.FallbackOther:
		return normalizer.FallbackOther
	}
	slog.Warn("CATEGORY_FALLBACK 无效，使用 other", "value", v)
	return normalizer.FallbackOther
}
