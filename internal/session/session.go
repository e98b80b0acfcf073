// internal/session/session.go  ESME会话实现
package session

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"smpc/internal/protocol"
	"smpc/internal/transport"
	"smpc/pkg/logger"
)

// ErrBadMessage 读到完整的帧但无法解析为合法消息，
// 监听循环将其视为未读到有效数据
var ErrBadMessage = errors.New("无法解析的消息")

// 默认超时参数
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 100 * time.Millisecond
	DefaultWriteTimeout   = 5 * time.Second
)

// Config 会话配置
type Config struct {
	Host            string        `yaml:"host"`             // 对端主机
	Port            int           `yaml:"port"`             // 对端端口
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // 监听循环的轮询读取超时
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // 写入超时
	ResponseTimeout time.Duration `yaml:"response_timeout"` // 同步等待响应的超时，0表示一直等待
	// OptimisticReceiver 接收标志策略：true表示发起接收类绑定时立即置位
	// 接收标志，false表示仅在绑定响应成功后置位
	OptimisticReceiver bool `yaml:"optimistic_receiver"`
}

// PushHandler 未请求消息的处理回调
type PushHandler func(msg *protocol.Message)

// Session ESME客户端会话。
// 管理一条到对端的连接，负责状态校验、帧收发、消息历史与分发。
// 同一会话同一时刻只允许一个读取者。
type Session struct {
	config *Config

	mu    sync.Mutex
	conn  *transport.FrameConn
	state State

	receiverMode int32 // 接收模式标志，置位后才允许启动监听循环
	sequenceNum  uint32

	history *History

	handlerMu   sync.Mutex
	pushHandler PushHandler

	// 统计
	stats struct {
		sentMessages     uint64
		receivedMessages uint64
		errors           uint64
	}
}

// New 创建新会话
func New(config *Config) *Session {
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = DefaultReadTimeout
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultWriteTimeout
	}

	s := &Session{
		config:  config,
		state:   StateClosed,
		history: NewHistory(),
	}
	s.pushHandler = s.defaultPushHandler

	return s
}

// Connect 建立TCP连接，成功后会话进入OPEN状态
func (s *Session) Connect() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	logger.Info(fmt.Sprintf("正在连接到 %s...", addr))

	conn, err := net.DialTimeout("tcp", addr, DefaultConnectTimeout)
	if err != nil {
		return &ConnectionError{Addr: addr, Err: err}
	}

	s.Attach(conn)
	return nil
}

// Attach 使用已建立的连接，会话进入OPEN状态
func (s *Session) Attach(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn = transport.NewFrameConn(conn, s.config.WriteTimeout)
	s.state = StateOpen
}

// Disconnect 断开连接，会话进入CLOSED状态
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("正在断开连接...")

	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	s.state = StateClosed

	return err
}

// State 获取当前会话状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// ReceiverMode 会话是否处于接收模式
func (s *Session) ReceiverMode() bool {
	return atomic.LoadInt32(&s.receiverMode) == 1
}

// setReceiverMode 设置接收模式标志
func (s *Session) setReceiverMode(on bool) {
	if on {
		atomic.StoreInt32(&s.receiverMode, 1)
	} else {
		atomic.StoreInt32(&s.receiverMode, 0)
	}
}

// NextSequence 获取下一个序列号
func (s *Session) NextSequence() uint32 {
	return atomic.AddUint32(&s.sequenceNum, 1)
}

// History 获取消息历史
func (s *Session) History() *History {
	return s.history
}

// SetPushHandler 设置未请求消息的处理回调
func (s *Session) SetPushHandler(handler PushHandler) {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()

	if handler == nil {
		handler = s.defaultPushHandler
	}
	s.pushHandler = handler
}

// getPushHandler 获取当前的处理回调
func (s *Session) getPushHandler() PushHandler {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()

	return s.pushHandler
}

// defaultPushHandler 默认回调，仅记录日志
func (s *Session) defaultPushHandler(msg *protocol.Message) {
	logger.Info(fmt.Sprintf("收到未请求消息 [命令=%s, 序列号=%d]（处理回调未设置）",
		msg.CommandName(), msg.Header.SequenceNumber))
}

// Send 发送一条消息。
// 发送前按命令状态矩阵校验，命令在当前状态下不允许时返回
// InvalidStateError且不写入任何字节。
func (s *Session) Send(msg *protocol.Message) error {
	s.mu.Lock()
	conn := s.conn
	state := s.state
	s.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	if !allowedIn(msg.Header.CommandID, state) {
		atomic.AddUint64(&s.stats.errors, 1)
		return &InvalidStateError{Command: msg.CommandName(), State: state}
	}

	logger.Debug(fmt.Sprintf("发送 %s 消息，序列号: %d", msg.CommandName(), msg.Header.SequenceNumber))

	if err := conn.WriteFrame(msg.Bytes()); err != nil {
		atomic.AddUint64(&s.stats.errors, 1)
		return err
	}

	s.history.Push(msg)
	atomic.AddUint64(&s.stats.sentMessages, 1)

	return nil
}

// Receive 读取一条消息，timeout为0时一直等待。
// 状态设置表中的响应在返回前完成状态迁移；对端返回非零状态码时
// 返回消息本身和ProtocolError。
func (s *Session) Receive(timeout time.Duration) (*protocol.Message, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return nil, ErrNotConnected
	}

	frame, err := conn.ReadFrame(timeout)
	if err != nil {
		return nil, err
	}

	msg, err := protocol.ParseMessage(frame)
	if err != nil {
		logger.Error(fmt.Sprintf("解析消息失败: %v", err))
		atomic.AddUint64(&s.stats.errors, 1)
		return nil, ErrBadMessage
	}

	logger.Debug(fmt.Sprintf("收到 %s 消息，序列号: %d", msg.CommandName(), msg.Header.SequenceNumber))

	s.history.Push(msg)
	atomic.AddUint64(&s.stats.receivedMessages, 1)

	// 状态迁移在返回前完成
	if newState, ok := stateSetters[msg.Header.CommandID]; ok {
		s.mu.Lock()
		s.state = newState
		s.mu.Unlock()
	}

	if msg.IsError() {
		atomic.AddUint64(&s.stats.errors, 1)
		return msg, &ProtocolError{Command: msg.CommandName(), Status: msg.Header.CommandStatus}
	}

	return msg, nil
}

// BindTransmitter 绑定为发送方
func (s *Session) BindTransmitter(params *protocol.BindParams) (*protocol.Message, error) {
	return s.bind(protocol.BIND_TRANSMITTER, params)
}

// BindReceiver 绑定为接收方
func (s *Session) BindReceiver(params *protocol.BindParams) (*protocol.Message, error) {
	return s.bind(protocol.BIND_RECEIVER, params)
}

// BindTransceiver 绑定为收发方
func (s *Session) BindTransceiver(params *protocol.BindParams) (*protocol.Message, error) {
	return s.bind(protocol.BIND_TRANSCEIVER, params)
}

// bind 发送绑定请求并同步等待一条响应
func (s *Session) bind(commandID uint32, params *protocol.BindParams) (*protocol.Message, error) {
	receiverCapable := commandID == protocol.BIND_RECEIVER || commandID == protocol.BIND_TRANSCEIVER

	// 乐观策略：绑定发起时即置位接收标志，与确认策略二选一
	if receiverCapable && s.config.OptimisticReceiver {
		s.setReceiverMode(true)
	}

	msg := protocol.NewBindRequest(commandID, s.NextSequence(), params)
	if err := s.Send(msg); err != nil {
		return nil, err
	}

	resp, err := s.Receive(s.config.ResponseTimeout)
	if err != nil {
		return resp, err
	}

	// 确认策略：仅在绑定响应成功后置位接收标志
	if receiverCapable && !s.config.OptimisticReceiver {
		s.setReceiverMode(true)
	}

	return resp, nil
}

// Unbind 发送解绑请求并同步等待响应
func (s *Session) Unbind() (*protocol.Message, error) {
	msg := protocol.CreateUnbind(s.NextSequence())
	if err := s.Send(msg); err != nil {
		return nil, err
	}

	return s.Receive(s.config.ResponseTimeout)
}

// SubmitSM 发送短信并同步等待响应
func (s *Session) SubmitSM(params *protocol.SubmitParams) (*protocol.Message, error) {
	msg := protocol.NewSubmitSM(s.NextSequence(), params)
	if err := s.Send(msg); err != nil {
		return nil, err
	}

	return s.Receive(s.config.ResponseTimeout)
}

// SendEnquireLink 发送链路查询请求
func (s *Session) SendEnquireLink() error {
	return s.Send(protocol.CreateEnquireLink(s.NextSequence()))
}

// GetStats 获取统计信息
func (s *Session) GetStats() map[string]uint64 {
	return map[string]uint64{
		"sent_messages":     atomic.LoadUint64(&s.stats.sentMessages),
		"received_messages": atomic.LoadUint64(&s.stats.receivedMessages),
		"errors":            atomic.LoadUint64(&s.stats.errors),
	}
}
