// api/handlers/session.go  会话状态查询
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smpc/internal/client"
)

// SessionHandler 会话处理器
type SessionHandler struct {
	client *client.Client
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(c *client.Client) *SessionHandler {
	return &SessionHandler{client: c}
}

// Status 查询客户端连接状态与会话状态
func (h *SessionHandler) Status(c *gin.Context) {
	sess := h.client.Session()

	c.JSON(http.StatusOK, gin.H{
		"client_status": h.client.GetStatus(),
		"session_state": sess.State().String(),
		"receiver_mode": sess.ReceiverMode(),
	})
}

// History 查询会话收发历史快照
func (h *SessionHandler) History(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	records := h.client.Session().History().Snapshot()
	if len(records) > limit {
		records = records[len(records)-limit:]
	}

	items := make([]gin.H, 0, len(records))
	for _, r := range records {
		items = append(items, gin.H{
			"sequence": r.Sequence,
			"kind":     r.Kind,
			"command":  r.Command,
			"status":   r.Status,
			"length":   r.Length,
			"time":     r.Time.Format("2006-01-02 15:04:05.000"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   h.client.Session().History().Len(),
		"records": items,
	})
}
