// internal/client/client.go  带重连的SMSC客户端
package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"smpc/internal/dispatcher"
	"smpc/internal/performance"
	"smpc/internal/protocol"
	"smpc/internal/session"
	"smpc/internal/transport"
	"smpc/pkg/logger"
)

// ErrResponseTimeout 等待响应超时
var ErrResponseTimeout = errors.New("等待响应超时")

// 绑定模式
const (
	BindModeTransmitter = "transmitter"
	BindModeReceiver    = "receiver"
	BindModeTransceiver = "transceiver"
)

// Config 客户端配置
type Config struct {
	Address            string        `yaml:"address"`             // SMSC服务器地址
	SystemID           string        `yaml:"system_id"`           // 系统ID
	Password           string        `yaml:"password"`            // 密码
	SystemType         string        `yaml:"system_type"`         // 系统类型
	BindMode           string        `yaml:"bind_mode"`           // 绑定模式
	EnquireInterval    time.Duration `yaml:"enquire_interval"`    // 心跳间隔
	ResponseTimeout    time.Duration `yaml:"response_timeout"`    // 响应超时
	ReconnectInterval  time.Duration `yaml:"reconnect_interval"`  // 重连间隔
	MaxRetries         int           `yaml:"max_retries"`         // 最大重试次数
	BackoffFactor      float64       `yaml:"backoff_factor"`      // 退避系数
	OptimisticReceiver bool          `yaml:"optimistic_receiver"` // 接收标志策略
}

// Client 带重连能力的SMSC客户端。
// 会话的所有读取都串行化在唯一的读取循环中：同步调用方通过
// 序列号等待表拿到自己的响应，未请求消息走推送路径。
type Client struct {
	config *Config
	sess   *session.Session

	// 状态管理
	status int32 // 0:断开 1:连接中 2:已连接

	// 序列号等待表
	waiterMu sync.Mutex
	waiters  map[uint32]chan *protocol.Message

	// 推送路径
	pushDispatcher *dispatcher.MessageDispatcher
	handlerMu      sync.Mutex
	pushHandler    func(msg *protocol.Message)

	// 上下文控制
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics *performance.Metrics

	// 统计
	stats struct {
		reconnectCount uint64
	}
}

// NewClient 创建新的SMSC客户端
func NewClient(config *Config) (*Client, error) {
	if config.BindMode == "" {
		config.BindMode = BindModeTransceiver
	}
	if config.EnquireInterval <= 0 {
		config.EnquireInterval = 30 * time.Second
	}
	if config.ResponseTimeout <= 0 {
		config.ResponseTimeout = 5 * time.Second
	}
	if config.ReconnectInterval <= 0 {
		config.ReconnectInterval = 3 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 5
	}
	if config.BackoffFactor <= 1 {
		config.BackoffFactor = 1.5
	}

	host, portStr, err := net.SplitHostPort(config.Address)
	if err != nil {
		return nil, fmt.Errorf("无效的服务器地址 %q: %v", config.Address, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("无效的端口 %q: %v", portStr, err)
	}

	c := &Client{
		config: config,
		sess: session.New(&session.Config{
			Host:               host,
			Port:               port,
			ResponseTimeout:    config.ResponseTimeout,
			OptimisticReceiver: config.OptimisticReceiver,
		}),
		waiters: make(map[uint32]chan *protocol.Message),
		metrics: performance.GetMetrics(),
	}
	c.pushHandler = c.defaultPushHandler

	return c, nil
}

// SetDispatcher 设置推送消息分发器
func (c *Client) SetDispatcher(d *dispatcher.MessageDispatcher) {
	c.pushDispatcher = d
}

// SetPushHandler 设置推送消息回调
func (c *Client) SetPushHandler(handler func(msg *protocol.Message)) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()

	if handler == nil {
		handler = c.defaultPushHandler
	}
	c.pushHandler = handler
}

// defaultPushHandler 默认推送回调，仅记录日志
func (c *Client) defaultPushHandler(msg *protocol.Message) {
	logger.Info(fmt.Sprintf("收到推送消息 [命令=%s, 序列号=%d]",
		msg.CommandName(), msg.Header.SequenceNumber))
}

// Session 获取底层会话
func (c *Client) Session() *session.Session {
	return c.sess
}

// Start 启动客户端
func (c *Client) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	// 初始连接
	if err := c.connect(); err != nil {
		return err
	}

	// 启动唯一的读取循环
	c.wg.Add(1)
	go c.readLoop()

	// 启动心跳循环
	c.wg.Add(1)
	go c.heartbeatLoop()

	return nil
}

// Stop 停止客户端
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}

	c.close()
	c.wg.Wait()
}

// connect 建立连接并按配置的模式绑定
func (c *Client) connect() error {
	if atomic.LoadInt32(&c.status) == 2 {
		return nil // 已连接
	}

	atomic.StoreInt32(&c.status, 1) // 连接中

	if err := c.sess.Connect(); err != nil {
		atomic.StoreInt32(&c.status, 0)
		return err
	}

	params := &protocol.BindParams{
		SystemID:   c.config.SystemID,
		Password:   c.config.Password,
		SystemType: c.config.SystemType,
	}

	var err error
	switch c.config.BindMode {
	case BindModeTransmitter:
		_, err = c.sess.BindTransmitter(params)
	case BindModeReceiver:
		_, err = c.sess.BindReceiver(params)
	case BindModeTransceiver:
		_, err = c.sess.BindTransceiver(params)
	default:
		err = fmt.Errorf("未知的绑定模式: %s", c.config.BindMode)
	}

	if err != nil {
		c.sess.Disconnect()
		atomic.StoreInt32(&c.status, 0)
		return fmt.Errorf("绑定失败: %v", err)
	}

	atomic.StoreInt32(&c.status, 2) // 已连接
	logger.Info(fmt.Sprintf("已成功绑定到SMSC服务器 (%s, 模式: %s)",
		c.config.Address, c.config.BindMode))

	return nil
}

// close 关闭连接
func (c *Client) close() {
	c.sess.Disconnect()
	atomic.StoreInt32(&c.status, 0)
}

// registerWaiter 注册一个序列号等待者
func (c *Client) registerWaiter(sequence uint32) chan *protocol.Message {
	ch := make(chan *protocol.Message, 1)

	c.waiterMu.Lock()
	c.waiters[sequence] = ch
	c.waiterMu.Unlock()

	return ch
}

// removeWaiter 移除序列号等待者
func (c *Client) removeWaiter(sequence uint32) {
	c.waiterMu.Lock()
	delete(c.waiters, sequence)
	c.waiterMu.Unlock()
}

// resolveWaiter 将响应投递给等待者，返回是否有人在等
func (c *Client) resolveWaiter(msg *protocol.Message) bool {
	c.waiterMu.Lock()
	ch, ok := c.waiters[msg.Header.SequenceNumber]
	if ok {
		delete(c.waiters, msg.Header.SequenceNumber)
	}
	c.waiterMu.Unlock()

	if ok {
		ch <- msg
	}
	return ok
}

// awaitResponse 等待指定序列号的响应
func (c *Client) awaitResponse(sequence uint32, ch chan *protocol.Message) (*protocol.Message, error) {
	select {
	case msg := <-ch:
		if msg.IsError() {
			return msg, &session.ProtocolError{Command: msg.CommandName(), Status: msg.Header.CommandStatus}
		}
		return msg, nil
	case <-time.After(c.config.ResponseTimeout):
		c.removeWaiter(sequence)
		return nil, ErrResponseTimeout
	case <-c.ctx.Done():
		c.removeWaiter(sequence)
		return nil, c.ctx.Err()
	}
}

// SubmitMessage 发送短信并等待响应
func (c *Client) SubmitMessage(params *protocol.SubmitParams) (*protocol.Message, error) {
	if atomic.LoadInt32(&c.status) != 2 {
		return nil, errors.New("未连接")
	}

	msg := protocol.NewSubmitSM(c.sess.NextSequence(), params)

	// 先注册等待者再发送，避免响应先于注册到达
	ch := c.registerWaiter(msg.Header.SequenceNumber)
	if err := c.sess.Send(msg); err != nil {
		c.removeWaiter(msg.Header.SequenceNumber)
		return nil, err
	}

	start := time.Now()
	resp, err := c.awaitResponse(msg.Header.SequenceNumber, ch)
	if err == nil {
		c.metrics.MessageLatency.Update(time.Since(start))
	}
	return resp, err
}

// Unbind 解绑并等待响应
func (c *Client) Unbind() (*protocol.Message, error) {
	if atomic.LoadInt32(&c.status) != 2 {
		return nil, errors.New("未连接")
	}

	msg := protocol.CreateUnbind(c.sess.NextSequence())

	ch := c.registerWaiter(msg.Header.SequenceNumber)
	if err := c.sess.Send(msg); err != nil {
		c.removeWaiter(msg.Header.SequenceNumber)
		return nil, err
	}

	return c.awaitResponse(msg.Header.SequenceNumber, ch)
}

// heartbeatLoop 心跳循环
func (c *Client) heartbeatLoop() {
	defer c.wg.Done()

	var missCount int
	heartbeat := time.NewTicker(c.config.EnquireInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-heartbeat.C:
			if atomic.LoadInt32(&c.status) != 2 {
				continue
			}

			logger.Debug("发送定期链路查询")
			if err := c.sess.SendEnquireLink(); err != nil {
				missCount++
				logger.Error(fmt.Sprintf("发送链路查询失败 (%d/3): %v", missCount, err))
				if missCount >= 3 {
					logger.Error("连续三次链路查询失败，关闭连接")
					c.close()
					missCount = 0
				}
			} else {
				missCount = 0
			}
		}
	}
}

// readLoop 唯一的读取循环：响应投递给等待者，推送走异步路径
func (c *Client) readLoop() {
	defer c.wg.Done()
	defer c.close()

	logger.Info("开始消息读取循环")

	for {
		select {
		case <-c.ctx.Done():
			logger.Info("客户端上下文取消，退出读取循环")
			return
		default:
		}

		if atomic.LoadInt32(&c.status) != 2 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		msg, err := c.sess.Receive(100 * time.Millisecond)
		if err != nil {
			switch {
			case errors.Is(err, transport.ErrReadTimeout):
				// 超时是正常的，继续下一次循环
				continue
			case errors.Is(err, session.ErrBadMessage):
				continue
			case session.IsProtocolError(err):
				// 带错误状态码的响应也要投递给等待者
				if msg != nil && msg.IsResponse() && c.resolveWaiter(msg) {
					continue
				}
				logger.Warning(fmt.Sprintf("收到错误状态的消息: %v", err))
				continue
			default:
				c.metrics.ErrorCount.Inc(1)
				logger.Error(fmt.Sprintf("读取错误: %v", err))
				if err := c.reconnect(); err != nil {
					logger.Error(fmt.Sprintf("重连失败: %v", err))
					return
				}
				continue
			}
		}

		c.metrics.MessageCount.Inc(1)
		c.metrics.MessageRate.Mark(1)

		// 响应优先匹配等待表
		if msg.IsResponse() && c.resolveWaiter(msg) {
			continue
		}

		// 处理推送消息
		switch msg.Header.CommandID {
		case protocol.DELIVER_SM:
			c.handleDeliverSM(msg)

		case protocol.ENQUIRE_LINK:
			resp := protocol.CreateEnquireLinkResponse(msg.Header.SequenceNumber)
			if err := c.sess.Send(resp); err != nil {
				logger.Error(fmt.Sprintf("发送enquire_link_resp失败: %v", err))
			}

		case protocol.ENQUIRE_LINK_RESP:
			logger.Debug(fmt.Sprintf("收到链路查询响应，序列号: %d", msg.Header.SequenceNumber))

		case protocol.UNBIND:
			logger.Info("收到对端unbind命令")
			resp := protocol.CreateUnbindResponse(msg.Header.SequenceNumber, protocol.SMPP_ESME_ROK)
			if err := c.sess.Send(resp); err != nil {
				logger.Error(fmt.Sprintf("发送unbind_resp失败: %v", err))
			}
			c.close()

		default:
			logger.Warning(fmt.Sprintf("未处理的SMPP命令 '%s'，序列号: %d",
				msg.CommandName(), msg.Header.SequenceNumber))
		}
	}
}

// handleDeliverSM 处理短信投递：先回响应，再走推送路径
func (c *Client) handleDeliverSM(msg *protocol.Message) {
	resp := protocol.CreateDeliverSMResponse(msg.Header.SequenceNumber, protocol.SMPP_ESME_ROK)
	if err := c.sess.Send(resp); err != nil {
		logger.Error(fmt.Sprintf("发送deliver_sm_resp失败: %v", err))
	}

	if c.pushDispatcher != nil {
		if err := c.pushDispatcher.Dispatch(msg); err != nil {
			logger.Error(fmt.Sprintf("推送消息入队失败: %v", err))
		}
		return
	}

	c.handlerMu.Lock()
	handler := c.pushHandler
	c.handlerMu.Unlock()
	handler(msg)
}

// reconnect 重新连接
func (c *Client) reconnect() error {
	c.close()

	baseInterval := c.config.ReconnectInterval

	for i := 0; i < c.config.MaxRetries; i++ {
		// 指数退避
		waitTime := time.Duration(float64(baseInterval) * math.Pow(c.config.BackoffFactor, float64(i)))
		logger.Info(fmt.Sprintf("尝试第%d次重连，等待%.2f秒", i+1, waitTime.Seconds()))

		select {
		case <-time.After(waitTime):
			if err := c.connect(); err == nil {
				atomic.AddUint64(&c.stats.reconnectCount, 1)
				return nil
			}

		case <-c.ctx.Done():
			return errors.New("连接已终止")
		}
	}

	return errors.New("超过最大重试次数")
}

// GetStatus 获取连接状态
func (c *Client) GetStatus() string {
	switch atomic.LoadInt32(&c.status) {
	case 0:
		return "未连接"
	case 1:
		return "连接中"
	case 2:
		return "已连接"
	default:
		return "未知状态"
	}
}

// GetStats 获取统计信息
func (c *Client) GetStats() map[string]uint64 {
	stats := c.sess.GetStats()
	stats["reconnect_count"] = atomic.LoadUint64(&c.stats.reconnectCount)
	return stats
}
