// internal/performance/metrics.go
package performance

import (
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
)

// MetricsRegistry 指标注册表
var MetricsRegistry = metrics.NewRegistry()

// Metrics 性能指标收集器
type Metrics struct {
	// 消息处理总数
	MessageCount metrics.Counter

	// 消息处理速率
	MessageRate metrics.Meter

	// 同步请求响应延迟
	MessageLatency metrics.Timer

	// 错误数
	ErrorCount metrics.Counter

	// 启动时间
	StartTime time.Time
}

// 全局指标实例
var (
	globalMetrics     *Metrics
	globalMetricsOnce sync.Once
)

// GetMetrics 获取全局指标实例
func GetMetrics() *Metrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = NewMetrics()
	})
	return globalMetrics
}

// NewMetrics 创建性能指标收集器
func NewMetrics() *Metrics {
	m := &Metrics{
		MessageCount:   metrics.NewCounter(),
		MessageRate:    metrics.NewMeter(),
		MessageLatency: metrics.NewTimer(),
		ErrorCount:     metrics.NewCounter(),
		StartTime:      time.Now(),
	}

	// 注册指标
	MetricsRegistry.Register("messages.count", m.MessageCount)
	MetricsRegistry.Register("messages.rate", m.MessageRate)
	MetricsRegistry.Register("messages.latency", m.MessageLatency)
	MetricsRegistry.Register("errors.count", m.ErrorCount)

	return m
}

// Snapshot 获取指标快照
func (m *Metrics) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"messages_count":  m.MessageCount.Count(),
		"messages_rate_1": m.MessageRate.Rate1(),
		"latency_avg_ms":  float64(m.MessageLatency.Mean()) / float64(time.Millisecond),
		"latency_p99_ms":  m.MessageLatency.Percentile(0.99) / float64(time.Millisecond),
		"errors_count":    m.ErrorCount.Count(),
		"uptime_seconds":  int64(time.Since(m.StartTime).Seconds()),
	}
}
