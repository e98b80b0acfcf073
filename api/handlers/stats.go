// api/handlers/stats.go  运行统计查询
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"smpc/internal/client"
	"smpc/internal/dispatcher"
	"smpc/internal/performance"
)

// StatsHandler 统计处理器
type StatsHandler struct {
	client     *client.Client
	dispatcher *dispatcher.MessageDispatcher
	monitor    *performance.Monitor
	startTime  time.Time
}

// NewStatsHandler 创建统计处理器
func NewStatsHandler(c *client.Client, d *dispatcher.MessageDispatcher, m *performance.Monitor) *StatsHandler {
	return &StatsHandler{
		client:     c,
		dispatcher: d,
		monitor:    m,
		startTime:  time.Now(),
	}
}

// Stats 汇总客户端、分发器与运行指标
func (h *StatsHandler) Stats(c *gin.Context) {
	result := gin.H{
		"uptime":  time.Since(h.startTime).String(),
		"client":  h.client.GetStats(),
		"session": h.client.Session().GetStats(),
		"metrics": performance.GetMetrics().Snapshot(),
	}

	if h.dispatcher != nil {
		result["dispatcher"] = h.dispatcher.GetStats()
	}
	if h.monitor != nil {
		result["system"] = h.monitor.Snapshot()
	}

	c.JSON(http.StatusOK, result)
}
