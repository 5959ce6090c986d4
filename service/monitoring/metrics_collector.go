/*
 * @module service/monitoring/metrics_collector
 * @description 运行状态收集器，提供进程指标快照与依赖服务探测，供就绪检查使用
 * @architecture 运维支撑层
 * @documentReference DESIGN.md
 * @stateFlow 就绪检查 -> 进程指标 + 依赖探测 -> 健康状态
 * @rules 依赖探测带超时，任何一个不可用时整体状态为 degraded
 * @dependencies runtime
 * @refs api/controllers/health_controller.go
 */

package monitoring

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusCritical = "critical"
)

// Probe 依赖探测函数
type Probe func(ctx context.Context) error

// SystemMetrics 进程指标
type SystemMetrics struct {
	Timestamp      time.Time `json:"timestamp"`
	Uptime         string    `json:"uptime"`
	GoroutineCount int       `json:"goroutine_count"` // Goroutine数量
	HeapSize       uint64    `json:"heap_size"`       // 堆内存大小
	HeapObjects    uint64    `json:"heap_objects"`
	NumGC          uint32    `json:"num_gc"`
}

// DependencyHealth 依赖服务健康状态
type DependencyHealth struct {
	Name         string        `json:"name"`
	Status       string        `json:"status"`
	Available    bool          `json:"available"`
	ResponseTime time.Duration `json:"response_time"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// HealthStatus 整体健康状态
type HealthStatus struct {
	Overall      string              `json:"overall"`
	System       *SystemMetrics      `json:"system"`
	Dependencies []*DependencyHealth `json:"dependencies"`
}

// MetricsCollector 运行状态收集器
type MetricsCollector struct {
	startedAt    time.Time
	probeTimeout time.Duration

	mu     sync.RWMutex
	probes map[string]Probe
}

// NewMetricsCollector 创建收集器
func NewMetricsCollector(probeTimeout time.Duration) *MetricsCollector {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &MetricsCollector{
		startedAt:    time.Now(),
		probeTimeout: probeTimeout,
		probes:       make(map[string]Probe),
	}
}

// RegisterProbe 登记依赖探测，同名覆盖
func (c *MetricsCollector) RegisterProbe(name string, probe Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[name] = probe
}

// CollectSystemMetrics 收集进程指标
func (c *MetricsCollector) CollectSystemMetrics() *SystemMetrics {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &SystemMetrics{
		Timestamp:      time.Now(),
		Uptime:         time.Since(c.startedAt).Truncate(time.Second).String(),
		GoroutineCount: runtime.NumGoroutine(),
		HeapSize:       memStats.HeapAlloc,
		HeapObjects:    memStats.HeapObjects,
		NumGC:          memStats.NumGC,
	}
}

// CheckHealth 执行全部依赖探测
func (c *MetricsCollector) CheckHealth(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	names := make([]string, 0, len(c.probes))
	for name := range c.probes {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)

	status := &HealthStatus{
		Overall:      StatusHealthy,
		System:       c.CollectSystemMetrics(),
		Dependencies: make([]*DependencyHealth, 0, len(names)),
	}
	for _, name := range names {
		c.mu.RLock()
		probe := c.probes[name]
		c.mu.RUnlock()

		dep := c.checkDependency(ctx, name, probe)
		if !dep.Available {
			status.Overall = StatusDegraded
		}
		status.Dependencies = append(status.Dependencies, dep)
	}
	return status
}

func (c *MetricsCollector) checkDependency(ctx context.Context, name string, probe Probe) *DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	start := time.Now()
	err := probe(ctx)
	dep := &DependencyHealth{
		Name:         name,
		Status:       StatusHealthy,
		Available:    true,
		ResponseTime: time.Since(start),
	}
	if err != nil {
		dep.Status = StatusCritical
		dep.Available = false
		dep.ErrorMessage = err.Error()
	}
	return dep
}
