// internal/dispatcher/storage.go  持久化处理器
package dispatcher

import (
	"context"
	"fmt"

	"smpc/internal/database"
	"smpc/internal/protocol"
	"smpc/pkg/logger"
)

// StorageHandler 持久化处理器，将投递短信写入数据库
type StorageHandler struct {
	store *database.MessageStore
}

// NewStorageHandler 创建持久化处理器
func NewStorageHandler(store *database.MessageStore) *StorageHandler {
	return &StorageHandler{store: store}
}

// HandlerName 返回处理器名称
func (h *StorageHandler) HandlerName() string {
	return "StorageHandler"
}

// Handle 处理消息
func (h *StorageHandler) Handle(ctx context.Context, msg *protocol.Message) error {
	if msg.Header.CommandID != protocol.DELIVER_SM {
		return nil
	}

	if err := h.store.SaveMessageLog("in", msg.CommandName(),
		msg.Header.SequenceNumber, msg.Header.CommandStatus, msg.Header.CommandLength); err != nil {
		logger.Warning(fmt.Sprintf("保存协议日志失败: %v", err))
	}

	content, err := protocol.ParseDeliverSM(msg.Payload)
	if err != nil {
		logger.Warning(fmt.Sprintf("解析deliver_sm失败，跳过持久化: %v", err))
		return nil
	}

	return h.store.SaveDeliveredMessage(msg.Header.SequenceNumber, content)
}
