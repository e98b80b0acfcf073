// internal/dispatcher/queue.go  消息队列
package dispatcher

import (
	"errors"
	"time"

	"smpc/internal/protocol"
)

// ErrQueueFull 队列已满
var ErrQueueFull = errors.New("队列已满")

// ErrDequeueTimeout 出队超时
var ErrDequeueTimeout = errors.New("队列取消息超时")

// MessageQueue 有界消息队列
type MessageQueue struct {
	queue    chan *protocol.Message
	capacity int
}

// NewMessageQueue 创建新的消息队列
func NewMessageQueue(capacity int) *MessageQueue {
	if capacity <= 0 {
		capacity = 1000
	}

	return &MessageQueue{
		queue:    make(chan *protocol.Message, capacity),
		capacity: capacity,
	}
}

// Enqueue 将消息放入队列，非阻塞
func (q *MessageQueue) Enqueue(msg *protocol.Message) error {
	select {
	case q.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue 从队列取出消息，带超时
func (q *MessageQueue) Dequeue(timeout time.Duration) (*protocol.Message, error) {
	select {
	case msg := <-q.queue:
		return msg, nil
	case <-time.After(timeout):
		return nil, ErrDequeueTimeout
	}
}

// Size 获取队列当前大小
func (q *MessageQueue) Size() int {
	return len(q.queue)
}

// Capacity 获取队列容量
func (q *MessageQueue) Capacity() int {
	return q.capacity
}
