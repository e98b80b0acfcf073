// internal/session/errors.go  会话错误类型
package session

import (
	"errors"
	"fmt"

	"smpc/internal/protocol"
)

// ErrNotConnected 在未连接的会话上执行了收发操作
var ErrNotConnected = errors.New("会话未连接")

// InvalidStateError 命令在当前绑定状态下不允许发送。
// 属于使用错误，该次调用失败但会话仍然可用。
type InvalidStateError struct {
	Command string
	State   State
}

// Error 实现error接口
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("命令 %s 发送失败: %s (当前状态: %s)",
		e.Command, protocol.GetStatusDesc(protocol.SMPP_ESME_RINVBNDSTS), e.State)
}

// ProtocolError 对端返回了非零状态码。
// 属于正常的协议层结果，会话仍然可用。
type ProtocolError struct {
	Command string
	Status  uint32
}

// Error 实现error接口
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("(%d) %s: %s", e.Status, e.Command, protocol.GetStatusDesc(e.Status))
}

// UsageError 前置条件不满足，例如在非接收模式下启动监听循环
type UsageError struct {
	Reason string
}

// Error 实现error接口
func (e *UsageError) Error() string {
	return fmt.Sprintf("使用错误: %s", e.Reason)
}

// ConnectionError 初始连接失败
type ConnectionError struct {
	Addr string
	Err  error
}

// Error 实现error接口
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("连接 %s 失败: %v", e.Addr, e.Err)
}

// Unwrap 返回底层错误
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsInvalidState 判断是否为状态错误
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

// IsProtocolError 判断是否为协议错误
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
