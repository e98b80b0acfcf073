// internal/performance/monitor.go  系统资源监控
package performance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"smpc/pkg/logger"
)

// MonitorConfig 资源监控配置
type MonitorConfig struct {
	Enabled       bool          `yaml:"enabled"`        // 是否启用
	CPUThreshold  float64       `yaml:"cpu_threshold"`  // CPU告警阈值（百分比）
	MemThreshold  float64       `yaml:"mem_threshold"`  // 内存告警阈值（百分比）
	CheckInterval time.Duration `yaml:"check_interval"` // 采样间隔
}

// Monitor 系统资源监控器
type Monitor struct {
	config *MonitorConfig

	mu         sync.Mutex
	cpuPercent float64
	memPercent float64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor 创建资源监控器
func NewMonitor(config *MonitorConfig) *Monitor {
	if config.CheckInterval <= 0 {
		config.CheckInterval = 30 * time.Second
	}
	if config.CPUThreshold <= 0 {
		config.CPUThreshold = 80
	}
	if config.MemThreshold <= 0 {
		config.MemThreshold = 80
	}

	return &Monitor{config: config}
}

// Start 启动监控
func (m *Monitor) Start(ctx context.Context) {
	if !m.config.Enabled {
		return
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go m.loop()

	logger.Info(fmt.Sprintf("资源监控已启动，采样间隔: %v", m.config.CheckInterval))
}

// Stop 停止监控
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// loop 采样循环
func (m *Monitor) loop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

// sample 采集一次CPU和内存占用
func (m *Monitor) sample() {
	cpuPercents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Error(fmt.Sprintf("采集CPU占用失败: %v", err))
		return
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		logger.Error(fmt.Sprintf("采集内存占用失败: %v", err))
		return
	}

	var cpuPercent float64
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	m.mu.Lock()
	m.cpuPercent = cpuPercent
	m.memPercent = memStat.UsedPercent
	m.mu.Unlock()

	if cpuPercent > m.config.CPUThreshold {
		logger.Warning(fmt.Sprintf("CPU占用超过阈值: %.1f%% > %.1f%%", cpuPercent, m.config.CPUThreshold))
	}
	if memStat.UsedPercent > m.config.MemThreshold {
		logger.Warning(fmt.Sprintf("内存占用超过阈值: %.1f%% > %.1f%%", memStat.UsedPercent, m.config.MemThreshold))
	}
}

// Snapshot 获取最近一次采样结果
func (m *Monitor) Snapshot() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]float64{
		"cpu_percent": m.cpuPercent,
		"mem_percent": m.memPercent,
	}
}
