/*
 * @module service/monitoring/metrics
 * @description Prometheus 指标定义，由 /metrics 暴露
 * @architecture 运维支撑层
 * @documentReference DESIGN.md
 * @stateFlow 业务调用 -> 计数器/直方图 -> promhttp
 * @rules 指标名统一使用 school_selector_ 前缀
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go, service/session, service/thumbnail
 */

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "school_selector"

var (
	// DatasetLoads 资料载入次数，result 为 success 或 error
	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_loads_total",
		Help:      "学校资料载入次数",
	}, []string{"source", "result"})

	// DatasetRecords 最近一次载入的记录数
	DatasetRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_records",
		Help:      "最近一次载入的学校记录数",
	}, []string{"source"})

	// ActiveSessions 当前会话数
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "当前未过期的会话数",
	})

	// QueryDuration 查询求值耗时
	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "筛选求值耗时",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	// QueryCache 查询结果缓存命中情况，result 为 hit 或 miss
	QueryCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_cache_total",
		Help:      "查询结果缓存命中次数",
	}, []string{"result"})

	// ThumbnailFetches 缩略图抓取结果：hit、found、none、error
	ThumbnailFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "thumbnail_fetches_total",
		Help:      "文章缩略图抓取次数",
	}, []string{"result"})
)

// ObserveQuery 记录一次查询耗时
func ObserveQuery(start time.Time) {
	QueryDuration.Observe(time.Since(start).Seconds())
}

// RecordDatasetLoad 记录一次资料载入
func RecordDatasetLoad(source string, records int, err error) {
	if err != nil {
		DatasetLoads.WithLabelValues(source, "error").Inc()
		return
	}
	DatasetLoads.WithLabelValues(source, "success").Inc()
	DatasetRecords.WithLabelValues(source).Set(float64(records))
}
