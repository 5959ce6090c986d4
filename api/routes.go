/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference DESIGN.md
 * @stateFlow 会话内状态由服务端会话存储维护，请求本身无状态
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"github.com/kingyeung625/hk-school-selector/api/controllers"
	"github.com/kingyeung625/hk-school-selector/service"
	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/monitoring"
	"github.com/kingyeung625/hk-school-selector/service/session"
	"github.com/kingyeung625/hk-school-selector/service/thumbnail"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// Dependencies 路由依赖的服务
type Dependencies struct {
	Store          *session.Store
	Registry       *facet.Registry
	Fetcher        *thumbnail.Fetcher
	Collector      *monitoring.MetricsCollector
	UploadMaxBytes int64
}

// InitRoute 使用全局服务初始化所有API路由
func InitRoute(r *chi.Mux) {
	Mount(r, Dependencies{
		Store:          service.GlobalSessionStore,
		Registry:       service.GlobalFacetRegistry,
		Fetcher:        service.GlobalThumbnailFetcher,
		Collector:      service.GlobalMetricsCollector,
		UploadMaxBytes: service.GlobalConfig.UploadMaxBytes,
	})
}

// Mount 在路由器上挂载中间件与全部接口
func Mount(r chi.Router, deps Dependencies) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController(deps.Collector, deps.Store)
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 会话与查询
	r.Route("/sessions", func(r chi.Router) {
		sessionController := controllers.NewSessionController(deps.Store, deps.Registry, deps.Fetcher, deps.UploadMaxBytes)
		r.Post("/", sessionController.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessionController.GetSession)
			r.Delete("/", sessionController.DeleteSession)
			r.Post("/upload", sessionController.Upload)
			r.Get("/facets", sessionController.Facets)
			r.Post("/search", sessionController.Search)
			r.Post("/export", sessionController.Export)
		})
	})

	// 工具
	renderController := controllers.NewRenderController()
	r.Post("/render", renderController.Render)

	if deps.Fetcher != nil {
		thumbnailController := controllers.NewThumbnailController(deps.Fetcher)
		r.Get("/thumbnails", thumbnailController.GetThumbnail)
	}
}
