/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器，提供存活与就绪检查
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow HTTP请求处理流程
 * @rules 存活检查不访问依赖；就绪检查探测依赖并返回进程指标
 * @dependencies net/http
 * @refs service/monitoring/metrics_collector.go
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/kingyeung625/hk-school-selector/service/monitoring"
	"github.com/kingyeung625/hk-school-selector/service/session"

	"github.com/go-chi/render"
)

const (
	serviceName    = "hk-school-selector"
	serviceVersion = "1.0.0"
)

// HealthController 健康检查控制器
type HealthController struct {
	collector *monitoring.MetricsCollector
	store     *session.Store
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(collector *monitoring.MetricsCollector, store *session.Store) *HealthController {
	if collector == nil {
		collector = monitoring.NewMetricsCollector(0)
	}
	return &HealthController{collector: collector, store: store}
}

// HealthResponse 健康检查响应结构
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"hk-school-selector"`
}

// ReadyResponse 就绪检查响应结构
type ReadyResponse struct {
	HealthResponse
	Sessions         int                      `json:"sessions"`
	PreloadedRecords int                      `json:"preloaded_records"`
	Health           *monitoring.HealthStatus `json:"health"`
}

// Health 健康检查
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Service:   serviceName,
	}

	render.JSON(w, r, response)
}

// Ready 就绪检查
// @Summary 就绪检查
// @Description 检查服务是否就绪，依赖不可用时返回 503
// @Tags 系统
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	health := c.collector.CheckHealth(r.Context())
	response := ReadyResponse{
		HealthResponse: HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Service:   serviceName,
		},
		Health: health,
	}
	if c.store != nil {
		response.Sessions = c.store.Count()
		response.PreloadedRecords = c.store.Preloaded().Len()
	}
	if health.Overall != monitoring.StatusHealthy {
		response.Status = health.Overall
		render.Status(r, http.StatusServiceUnavailable)
	}

	render.JSON(w, r, response)
}
