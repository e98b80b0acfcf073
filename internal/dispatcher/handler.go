// internal/dispatcher/handler.go  处理器接口
package dispatcher

import (
	"context"

	"smpc/internal/protocol"
)

// MessageHandler 定义推送消息处理器接口
type MessageHandler interface {
	// Handle 处理消息
	Handle(ctx context.Context, msg *protocol.Message) error

	// HandlerName 返回处理器名称，用于日志和调试
	HandlerName() string
}
