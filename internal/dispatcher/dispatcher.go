// internal/dispatcher/dispatcher.go  推送消息分发器
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"smpc/internal/protocol"
	"smpc/pkg/logger"
)

// MessageDispatcher 推送消息分发器。
// 会话的推送回调将deliver_sm消息入队，工作线程取出后
// 并发分发给所有已注册的处理器。
type MessageDispatcher struct {
	handlers []MessageHandler
	msgQueue *MessageQueue

	// 统计数据
	stats struct {
		dispatched uint64
		errors     uint64
		totalTime  int64
	}

	// 配置参数
	config struct {
		queueSize       int
		workerCount     int
		dispatchTimeout time.Duration
	}

	// 同步控制
	mu        sync.RWMutex
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
}

// NewMessageDispatcher 创建新的消息分发器
func NewMessageDispatcher(queueSize, workerCount int, dispatchTimeout time.Duration) *MessageDispatcher {
	if queueSize <= 0 {
		queueSize = 1000
	}
	if workerCount <= 0 {
		workerCount = 5
	}
	if dispatchTimeout <= 0 {
		dispatchTimeout = 2 * time.Second
	}

	d := &MessageDispatcher{
		handlers: make([]MessageHandler, 0),
	}

	d.config.queueSize = queueSize
	d.config.workerCount = workerCount
	d.config.dispatchTimeout = dispatchTimeout

	d.msgQueue = NewMessageQueue(queueSize)
	return d
}

// Start 启动分发器
func (d *MessageDispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isRunning {
		return nil
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.isRunning = true

	// 启动工作线程
	for i := 0; i < d.config.workerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	logger.Info(fmt.Sprintf("消息分发器已启动, 队列大小=%d, 工作线程数=%d",
		d.config.queueSize, d.config.workerCount))

	return nil
}

// Stop 停止分发器
func (d *MessageDispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isRunning {
		return
	}

	logger.Info("正在停止消息分发器...")

	if d.cancel != nil {
		d.cancel()
	}

	d.wg.Wait()
	d.isRunning = false

	logger.Info("消息分发器已停止")
}

// RegisterHandler 注册消息处理器
func (d *MessageDispatcher) RegisterHandler(handler MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers = append(d.handlers, handler)
	logger.Info(fmt.Sprintf("已注册消息处理器: %s", handler.HandlerName()))
}

// Dispatch 异步分发消息
func (d *MessageDispatcher) Dispatch(msg *protocol.Message) error {
	d.mu.RLock()
	running := d.isRunning
	d.mu.RUnlock()

	if !running {
		return fmt.Errorf("分发器未启动")
	}

	if err := d.msgQueue.Enqueue(msg); err != nil {
		logger.Error(fmt.Sprintf("消息入队失败: %v", err))
		atomic.AddUint64(&d.stats.errors, 1)
		return err
	}

	return nil
}

// DispatchSync 同步分发消息给所有处理器
func (d *MessageDispatcher) DispatchSync(ctx context.Context, msg *protocol.Message) error {
	start := time.Now()

	// 复制处理器列表，避免锁争用
	d.mu.RLock()
	handlers := make([]MessageHandler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	timeoutCtx, cancel := context.WithTimeout(ctx, d.config.dispatchTimeout)
	defer cancel()

	// 并发分发给所有处理器
	var wg sync.WaitGroup
	errCh := make(chan error, len(handlers))

	for _, handler := range handlers {
		wg.Add(1)
		go func(h MessageHandler) {
			defer wg.Done()

			if err := h.Handle(timeoutCtx, msg); err != nil {
				errCh <- fmt.Errorf("处理器 %s 处理失败: %v", h.HandlerName(), err)
			}
		}(handler)
	}

	// 等待所有处理器完成或超时
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-timeoutCtx.Done():
		atomic.AddUint64(&d.stats.errors, 1)
		return fmt.Errorf("分发超时，已耗时 %d 毫秒", time.Since(start).Milliseconds())
	}

	// 检查错误
	close(errCh)
	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}

	atomic.AddUint64(&d.stats.dispatched, 1)
	atomic.AddInt64(&d.stats.totalTime, time.Since(start).Nanoseconds())

	if len(errs) > 0 {
		atomic.AddUint64(&d.stats.errors, 1)
		return fmt.Errorf("分发错误: %v", errs)
	}

	return nil
}

// worker 工作线程
func (d *MessageDispatcher) worker(id int) {
	defer d.wg.Done()

	logger.Debug(fmt.Sprintf("工作线程 #%d 已启动", id))

	for {
		select {
		case <-d.ctx.Done():
			logger.Debug(fmt.Sprintf("工作线程 #%d 收到退出信号", id))
			return
		default:
		}

		// 从队列获取消息，超时属于正常情况
		msg, err := d.msgQueue.Dequeue(100 * time.Millisecond)
		if err != nil {
			continue
		}

		if err := d.DispatchSync(d.ctx, msg); err != nil {
			logger.Error(fmt.Sprintf("工作线程 #%d 分发失败: %v", id, err))
		}
	}
}

// GetStats 获取统计信息
func (d *MessageDispatcher) GetStats() map[string]interface{} {
	dispatched := atomic.LoadUint64(&d.stats.dispatched)
	errCount := atomic.LoadUint64(&d.stats.errors)
	totalTime := atomic.LoadInt64(&d.stats.totalTime)

	var avgTime float64
	if dispatched > 0 {
		avgTime = float64(totalTime) / float64(dispatched) / float64(time.Millisecond)
	}

	return map[string]interface{}{
		"dispatched":     dispatched,
		"errors":         errCount,
		"avg_time_ms":    avgTime,
		"queue_size":     d.msgQueue.Size(),
		"queue_capacity": d.msgQueue.Capacity(),
	}
}
