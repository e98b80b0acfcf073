// api/handlers/messages.go  下行消息查询
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smpc/internal/database"
)

// MessagesHandler 下行消息处理器
type MessagesHandler struct {
	store *database.MessageStore
}

// NewMessagesHandler 创建下行消息处理器
func NewMessagesHandler(store *database.MessageStore) *MessagesHandler {
	return &MessagesHandler{store: store}
}

// Recent 查询最近接收的下行消息
func (h *MessagesHandler) Recent(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "数据库未启用",
		})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	messages, err := h.store.RecentDeliveredMessages(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询消息失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    len(messages),
		"messages": messages,
	})
}
