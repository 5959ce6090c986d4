/*
 * @module service/init
 * @description 服务初始化模块，负责配置加载、会话存储、缩略图抓取与预载调度的初始化
 * @architecture 分层架构 - 服务层
 * @documentReference DESIGN.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules Redis 或预载文件不可用时降级运行，不阻止服务启动
 * @dependencies service/config, service/session, service/thumbnail, service/scheduler
 * @refs main.go, api/routes.go
 */

package service

import (
	"context"
	"log"

	"github.com/kingyeung625/hk-school-selector/logger"
	"github.com/kingyeung625/hk-school-selector/service/config"
	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/monitoring"
	"github.com/kingyeung625/hk-school-selector/service/normalizer"
	"github.com/kingyeung625/hk-school-selector/service/query"
	"github.com/kingyeung625/hk-school-selector/service/scheduler"
	"github.com/kingyeung625/hk-school-selector/service/session"
	"github.com/kingyeung625/hk-school-selector/service/thumbnail"
)

var (
	GlobalConfig           *config.Config
	GlobalFacetRegistry    *facet.Registry
	GlobalSessionStore     *session.Store
	GlobalThumbnailFetcher *thumbnail.Fetcher
	GlobalPreloadScheduler *scheduler.PreloadScheduler
	GlobalMetricsCollector *monitoring.MetricsCollector

	redisCache *thumbnail.RedisCache
)

func init() {
	GlobalConfig = config.Load()
	logger.InitLogger(GlobalConfig.LogLevel)
	initServices(GlobalConfig)
}

// initServices 初始化服务
func initServices(cfg *config.Config) {
	GlobalFacetRegistry = facet.DefaultRegistry()
	GlobalMetricsCollector = monitoring.NewMetricsCollector(0)

	GlobalSessionStore = session.NewStore(session.Options{
		SessionTTL: cfg.SessionTTL,
		ResultTTL:  cfg.ResultCacheTTL,
		Normalizer: normalizer.NewNormalizer(cfg.NormalizerOptions()),
		Evaluator:  query.NewEvaluator(GlobalFacetRegistry),
	})

	GlobalThumbnailFetcher = thumbnail.NewFetcher(thumbnail.Options{
		Timeout:     cfg.ThumbnailTimeout,
		Concurrency: cfg.ThumbnailConcurrency,
	}, initThumbnailCache(cfg))

	initPreload(cfg)
	log.Println("服务初始化完成")
}

// initThumbnailCache 优先使用 Redis，连接失败时退回进程内缓存
func initThumbnailCache(cfg *config.Config) thumbnail.Cache {
	if !cfg.RedisEnabled() {
		return thumbnail.NewMemoryCache(cfg.ThumbnailCacheTTL)
	}
	rc, err := thumbnail.NewRedisCache(thumbnail.RedisOptions{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.ThumbnailCacheTTL,
	})
	if err != nil {
		log.Printf("Redis不可用，缩略图使用进程内缓存: %v", err)
		return thumbnail.NewMemoryCache(cfg.ThumbnailCacheTTL)
	}
	redisCache = rc
	GlobalMetricsCollector.RegisterProbe("redis", func(ctx context.Context) error {
		return rc.Ping(ctx)
	})
	return rc
}

// initPreload 载入预载资料并启动定时重载
func initPreload(cfg *config.Config) {
	GlobalPreloadScheduler = scheduler.NewPreloadScheduler(GlobalSessionStore, cfg.DatasetPreloadPath, cfg.DatasetReloadCron)
	if cfg.DatasetPreloadPath == "" {
		return
	}

	log.Println("开始载入预载资料...")
	if err := GlobalPreloadScheduler.RunOnce(); err != nil {
		log.Printf("载入预载资料失败: %v", err)
	}
	if err := GlobalPreloadScheduler.Start(); err != nil {
		log.Printf("启动预载资料调度器失败: %v", err)
	}
}

// Shutdown 停止调度器并释放外部连接
func Shutdown() {
	if GlobalPreloadScheduler != nil {
		GlobalPreloadScheduler.Stop()
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.Printf("关闭Redis连接失败: %v", err)
		}
	}
}
