package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smpc/internal/protocol"
)

func TestHistoryPush(t *testing.T) {
	h := NewHistory()
	assert.Equal(t, 0, h.Len())

	h.Push(protocol.CreateEnquireLink(1))
	h.Push(protocol.CreateEnquireLinkResponse(1))

	require.Equal(t, 2, h.Len())

	records := h.Snapshot()
	assert.Equal(t, KindRequest, records[0].Kind)
	assert.Equal(t, "enquire_link", records[0].Command)
	assert.Equal(t, uint32(1), records[0].Sequence)

	assert.Equal(t, KindResponse, records[1].Kind)
	assert.Equal(t, "enquire_link_resp", records[1].Command)
}

func TestHistorySnapshotIsolation(t *testing.T) {
	h := NewHistory()
	h.Push(protocol.CreateEnquireLink(1))

	snapshot := h.Snapshot()
	snapshot[0].Command = "tampered"

	// 快照是副本，修改不影响原始历史
	assert.Equal(t, "enquire_link", h.Snapshot()[0].Command)
}

func TestHistoryPerSessionIsolation(t *testing.T) {
	// 每个会话持有自己的历史，互不串扰
	s1 := New(&Config{})
	s2 := New(&Config{})

	s1.History().Push(protocol.CreateEnquireLink(1))

	assert.Equal(t, 1, s1.History().Len())
	assert.Equal(t, 0, s2.History().Len())
}
