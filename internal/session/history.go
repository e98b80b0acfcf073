// internal/session/history.go  消息审计日志
package session

import (
	"sync"
	"time"

	"smpc/internal/protocol"
)

// 消息方向
const (
	KindRequest  = "request"
	KindResponse = "response"
)

// HistoryRecord 一条消息交换记录
type HistoryRecord struct {
	Sequence uint32
	Kind     string
	Command  string
	Status   uint32
	Length   uint32
	Time     time.Time
}

// History 会话消息历史，按交换顺序追加。
// 每个会话实例持有自己的历史，绝不跨实例共享；
// 仅用于诊断审计，不参与控制流。
type History struct {
	mu      sync.Mutex
	records []HistoryRecord
}

// NewHistory 创建消息历史
func NewHistory() *History {
	return &History{}
}

// Push 追加一条消息记录
func (h *History) Push(msg *protocol.Message) {
	kind := KindRequest
	if msg.IsResponse() {
		kind = KindResponse
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, HistoryRecord{
		Sequence: msg.Header.SequenceNumber,
		Kind:     kind,
		Command:  msg.CommandName(),
		Status:   msg.Header.CommandStatus,
		Length:   msg.Header.CommandLength,
		Time:     time.Now(),
	})
}

// Len 获取记录条数
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.records)
}

// Snapshot 获取历史记录的副本
func (h *History) Snapshot() []HistoryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistoryRecord, len(h.records))
	copy(out, h.records)
	return out
}
