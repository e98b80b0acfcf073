// internal/dispatcher/logger.go  日志处理器
package dispatcher

import (
	"context"
	"fmt"

	"smpc/internal/protocol"
	"smpc/pkg/logger"
)

// LoggingHandler 日志处理器，记录收到的所有推送消息
type LoggingHandler struct {
	logMessageContent bool
}

// NewLoggingHandler 创建新的日志处理器
func NewLoggingHandler() *LoggingHandler {
	return &LoggingHandler{
		logMessageContent: true,
	}
}

// SetLogMessageContent 设置是否记录短信内容
func (h *LoggingHandler) SetLogMessageContent(enable bool) {
	h.logMessageContent = enable
}

// HandlerName 返回处理器名称
func (h *LoggingHandler) HandlerName() string {
	return "LoggingHandler"
}

// Handle 处理消息
func (h *LoggingHandler) Handle(ctx context.Context, msg *protocol.Message) error {
	if h.logMessageContent && msg.Header.CommandID == protocol.DELIVER_SM {
		content, err := protocol.ParseDeliverSM(msg.Payload)
		if err != nil {
			logger.Info(fmt.Sprintf("消息日志 [命令=%s, 序列号=%d]: 解析内容失败: %v",
				msg.CommandName(), msg.Header.SequenceNumber, err))
			return nil
		}

		logger.Info(fmt.Sprintf("消息日志 [命令=%s, 序列号=%d]:\n 发送方: %s\n 接收方: %s\n 内容: %s",
			msg.CommandName(), msg.Header.SequenceNumber,
			content.SourceAddr, content.DestAddr,
			protocol.DecodeContent(content.ShortMessage, content.DataCoding)))
		return nil
	}

	logger.Info(fmt.Sprintf("消息日志 [命令=%s, 序列号=%d, 长度=%d]",
		msg.CommandName(), msg.Header.SequenceNumber, msg.Header.CommandLength))

	return nil
}
