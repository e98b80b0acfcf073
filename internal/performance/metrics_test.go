package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMetricsSingleton(t *testing.T) {
	m1 := GetMetrics()
	m2 := GetMetrics()
	assert.Same(t, m1, m2)
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.MessageCount.Inc(3)
	m.ErrorCount.Inc(1)
	m.MessageLatency.Update(10 * time.Millisecond)

	snapshot := m.Snapshot()

	assert.Equal(t, int64(3), snapshot["messages_count"])
	assert.Equal(t, int64(1), snapshot["errors_count"])
	assert.GreaterOrEqual(t, snapshot["latency_avg_ms"].(float64), 0.0)

	for _, key := range []string{"messages_rate_1", "latency_p99_ms", "uptime_seconds"} {
		_, ok := snapshot[key]
		require.True(t, ok, "缺少指标: %s", key)
	}
}

func TestMonitorSnapshotBeforeStart(t *testing.T) {
	m := NewMonitor(&MonitorConfig{Enabled: false})

	snapshot := m.Snapshot()
	assert.Equal(t, 0.0, snapshot["cpu_percent"])
	assert.Equal(t, 0.0, snapshot["mem_percent"])
}

func TestMonitorDefaults(t *testing.T) {
	cfg := &MonitorConfig{Enabled: true}
	NewMonitor(cfg)

	assert.Equal(t, 30*time.Second, cfg.CheckInterval)
	assert.Equal(t, 80.0, cfg.CPUThreshold)
	assert.Equal(t, 80.0, cfg.MemThreshold)
}
