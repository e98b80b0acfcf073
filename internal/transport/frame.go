// internal/transport/frame.go  帧传输层
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// 帧长度的合法范围，超出范围按帧错误处理
const (
	MinFrameLength = 16
	MaxFrameLength = 4096
)

// ErrEndOfStream 对端在帧边界上正常关闭连接
var ErrEndOfStream = errors.New("对端已关闭连接")

// ErrReadTimeout 读取超时，轮询场景下属于正常情况
var ErrReadTimeout = errors.New("读取超时")

// FramingError 帧错误，出现后连接不再可信，调用方应关闭连接
type FramingError struct {
	Reason string
	Err    error
}

// Error 实现error接口
func (e *FramingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("帧错误: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("帧错误: %s", e.Reason)
}

// Unwrap 返回底层错误
func (e *FramingError) Unwrap() error {
	return e.Err
}

// IsFramingError 判断是否为帧错误
func IsFramingError(err error) bool {
	var fe *FramingError
	return errors.As(err, &fe)
}

// FrameConn 封装net.Conn，提供按帧读写
//
// 写入端由互斥锁串行化，多个逻辑来源可以安全交错写入完整的帧；
// 读取端不加锁，调用方必须保证同一时刻只有一个读取者。
type FrameConn struct {
	conn         net.Conn
	sendMutex    sync.Mutex
	writeTimeout time.Duration
}

// NewFrameConn 创建帧连接
func NewFrameConn(conn net.Conn, writeTimeout time.Duration) *FrameConn {
	return &FrameConn{
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

// ReadFrame 读取一个完整的帧（4字节大端长度前缀 + 消息体）
//
// 返回值为前缀与消息体拼接后的完整帧。对端在前缀边界上关闭连接返回
// ErrEndOfStream；读取超时返回ErrReadTimeout；前缀不完整、长度非法或
// 帧中途断开返回FramingError。
func (f *FrameConn) ReadFrame(timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		if err := f.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, fmt.Errorf("设置读取超时失败: %v", err)
		}
	}

	// 读取4字节长度前缀
	prefix := make([]byte, 4)
	n, err := io.ReadFull(f.conn, prefix)
	if err != nil {
		if n == 0 {
			if err == io.EOF {
				return nil, ErrEndOfStream
			}
			if isTimeout(err) {
				return nil, ErrReadTimeout
			}
			return nil, &FramingError{Reason: "读取长度前缀失败", Err: err}
		}
		// 已读到部分前缀，无法重新同步
		return nil, &FramingError{Reason: fmt.Sprintf("长度前缀不完整(读取了%d字节)", n), Err: err}
	}

	length := binary.BigEndian.Uint32(prefix)
	if length < MinFrameLength || length > MaxFrameLength {
		return nil, &FramingError{Reason: fmt.Sprintf("消息长度异常: %d", length)}
	}

	// 读取消息体（帧中途的超时与断开都是错误）
	body := make([]byte, length-4)
	if n, err := io.ReadFull(f.conn, body); err != nil {
		return nil, &FramingError{Reason: fmt.Sprintf("读取消息体失败(读取了%d/%d字节)", n, length-4), Err: err}
	}

	return append(prefix, body...), nil
}

// WriteFrame 一次性写入一个完整的帧
func (f *FrameConn) WriteFrame(frame []byte) error {
	f.sendMutex.Lock()
	defer f.sendMutex.Unlock()

	if f.writeTimeout > 0 {
		if err := f.conn.SetWriteDeadline(time.Now().Add(f.writeTimeout)); err != nil {
			return fmt.Errorf("设置写入超时失败: %v", err)
		}
	}

	n, err := f.conn.Write(frame)
	if err != nil {
		return fmt.Errorf("写入失败: %v", err)
	}
	if n != len(frame) {
		return fmt.Errorf("写入不完整: %d/%d 字节", n, len(frame))
	}

	return nil
}

// Close 关闭底层连接
func (f *FrameConn) Close() error {
	return f.conn.Close()
}

// RemoteAddr 获取对端地址
func (f *FrameConn) RemoteAddr() net.Addr {
	return f.conn.RemoteAddr()
}

// isTimeout 判断是否为超时错误
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
