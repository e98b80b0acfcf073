package session

import (
	"bytes"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smpc/internal/protocol"
	"smpc/internal/transport"
)

// pipeSession 创建一个挂在net.Pipe上的会话，返回会话和对端帧连接
func pipeSession(t *testing.T, cfg *Config) (*Session, *transport.FrameConn) {
	t.Helper()

	if cfg == nil {
		cfg = &Config{ResponseTimeout: time.Second}
	}

	local, remote := net.Pipe()
	t.Cleanup(func() {
		local.Close()
		remote.Close()
	})

	sess := New(cfg)
	sess.Attach(local)

	return sess, transport.NewFrameConn(remote, time.Second)
}

// readMessage 从对端读取并解析一条消息
func readMessage(t *testing.T, fc *transport.FrameConn) *protocol.Message {
	t.Helper()

	frame, err := fc.ReadFrame(time.Second)
	require.NoError(t, err)

	msg, err := protocol.ParseMessage(frame)
	require.NoError(t, err)
	return msg
}

// bindTransceiver 完成一次成功的收发绑定握手
func bindTransceiver(t *testing.T, sess *Session, peer *transport.FrameConn) {
	t.Helper()

	type result struct {
		resp *protocol.Message
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := sess.BindTransceiver(&protocol.BindParams{SystemID: "esme01", Password: "pw"})
		done <- result{resp, err}
	}()

	req := readMessage(t, peer)
	require.Equal(t, uint32(protocol.BIND_TRANSCEIVER), req.Header.CommandID)

	resp := protocol.CreateBindResponse(protocol.BIND_TRANSCEIVER_RESP,
		req.Header.SequenceNumber, protocol.SMPP_ESME_ROK, "SMSC")
	require.NoError(t, peer.WriteFrame(resp.Bytes()))

	res := <-done
	require.NoError(t, res.err)
	require.Equal(t, StateBoundTRX, sess.State())
}

// recordConn 记录写入字节的假连接
type recordConn struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *recordConn) Read(b []byte) (int, error) { return 0, io.EOF }

func (c *recordConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(b)
}

func (c *recordConn) Close() error                       { return nil }
func (c *recordConn) LocalAddr() net.Addr                { return &net.TCPAddr{} }
func (c *recordConn) RemoteAddr() net.Addr               { return &net.TCPAddr{} }
func (c *recordConn) SetDeadline(t time.Time) error      { return nil }
func (c *recordConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *recordConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *recordConn) Written() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}

func TestSendNotConnected(t *testing.T) {
	sess := New(&Config{})
	err := sess.Send(protocol.CreateEnquireLink(1))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSendInvalidStateWritesNothing(t *testing.T) {
	conn := &recordConn{}
	sess := New(&Config{})
	sess.Attach(conn)

	// OPEN状态下不允许submit_sm，连接上不能出现任何字节
	err := sess.Send(protocol.NewSubmitSM(1, &protocol.SubmitParams{
		DestinationAddr: "13800138000",
		ShortMessage:    []byte("hi"),
	}))

	assert.True(t, IsInvalidState(err), "期望状态错误，实际: %v", err)
	assert.Equal(t, 0, conn.Written())
	assert.Equal(t, StateOpen, sess.State())
}

func TestAttachAndDisconnect(t *testing.T) {
	sess, _ := pipeSession(t, nil)
	assert.Equal(t, StateOpen, sess.State())

	require.NoError(t, sess.Disconnect())
	assert.Equal(t, StateClosed, sess.State())
}

func TestNextSequence(t *testing.T) {
	sess := New(&Config{})
	assert.Equal(t, uint32(1), sess.NextSequence())
	assert.Equal(t, uint32(2), sess.NextSequence())
	assert.Equal(t, uint32(3), sess.NextSequence())
}

func TestBindTransceiverHandshake(t *testing.T) {
	sess, peer := pipeSession(t, nil)

	bindTransceiver(t, sess, peer)

	assert.True(t, sess.ReceiverMode())
	assert.Equal(t, 2, sess.History().Len())

	stats := sess.GetStats()
	assert.Equal(t, uint64(1), stats["sent_messages"])
	assert.Equal(t, uint64(1), stats["received_messages"])
}

func TestBindTransmitterNoReceiverMode(t *testing.T) {
	sess, peer := pipeSession(t, nil)

	done := make(chan error, 1)
	go func() {
		_, err := sess.BindTransmitter(&protocol.BindParams{SystemID: "tx"})
		done <- err
	}()

	req := readMessage(t, peer)
	resp := protocol.CreateBindResponse(protocol.BIND_TRANSMITTER_RESP,
		req.Header.SequenceNumber, protocol.SMPP_ESME_ROK, "SMSC")
	require.NoError(t, peer.WriteFrame(resp.Bytes()))

	require.NoError(t, <-done)
	assert.Equal(t, StateBoundTX, sess.State())
	assert.False(t, sess.ReceiverMode())
}

func TestBindRejectedByPeer(t *testing.T) {
	sess, peer := pipeSession(t, nil)

	type result struct {
		resp *protocol.Message
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := sess.BindTransceiver(&protocol.BindParams{SystemID: "bad"})
		done <- result{resp, err}
	}()

	req := readMessage(t, peer)
	resp := protocol.CreateBindResponse(protocol.BIND_TRANSCEIVER_RESP,
		req.Header.SequenceNumber, protocol.SMPP_ESME_RBINDFAIL, "SMSC")
	require.NoError(t, peer.WriteFrame(resp.Bytes()))

	res := <-done
	assert.True(t, IsProtocolError(res.err), "期望协议错误，实际: %v", res.err)
	require.NotNil(t, res.resp)
	assert.Equal(t, uint32(protocol.SMPP_ESME_RBINDFAIL), res.resp.Header.CommandStatus)

	// 状态迁移在错误判定之前完成
	assert.Equal(t, StateBoundTRX, sess.State())
}

func TestReceiverModePolicies(t *testing.T) {
	t.Run("optimistic", func(t *testing.T) {
		// 乐观策略：绑定发起时即置位，响应超时也保持置位
		sess, peer := pipeSession(t, &Config{
			ResponseTimeout:    50 * time.Millisecond,
			OptimisticReceiver: true,
		})

		// 对端收下请求但不响应
		go peer.ReadFrame(time.Second)

		_, err := sess.BindReceiver(&protocol.BindParams{SystemID: "rx"})
		assert.Error(t, err)
		assert.True(t, sess.ReceiverMode())
	})

	t.Run("confirmed", func(t *testing.T) {
		// 确认策略：响应成功前不置位
		sess, peer := pipeSession(t, &Config{
			ResponseTimeout: 50 * time.Millisecond,
		})

		go peer.ReadFrame(time.Second)

		_, err := sess.BindReceiver(&protocol.BindParams{SystemID: "rx"})
		assert.Error(t, err)
		assert.False(t, sess.ReceiverMode())
	})
}

func TestSubmitSM(t *testing.T) {
	sess, peer := pipeSession(t, nil)
	bindTransceiver(t, sess, peer)

	type result struct {
		resp *protocol.Message
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := sess.SubmitSM(&protocol.SubmitParams{
			SourceAddr:      "10690000",
			DestinationAddr: "13800138000",
			ShortMessage:    []byte("hello"),
		})
		done <- result{resp, err}
	}()

	req := readMessage(t, peer)
	require.Equal(t, uint32(protocol.SUBMIT_SM), req.Header.CommandID)

	resp := protocol.CreateSubmitSMResponse(req.Header.SequenceNumber, protocol.SMPP_ESME_ROK, "msg-42")
	require.NoError(t, peer.WriteFrame(resp.Bytes()))

	res := <-done
	require.NoError(t, res.err)

	messageID, err := protocol.ParseSubmitSMResp(res.resp.Payload)
	require.NoError(t, err)
	assert.Equal(t, "msg-42", messageID)
}

func TestUnbindReturnsToOpen(t *testing.T) {
	sess, peer := pipeSession(t, nil)
	bindTransceiver(t, sess, peer)

	done := make(chan error, 1)
	go func() {
		_, err := sess.Unbind()
		done <- err
	}()

	req := readMessage(t, peer)
	require.Equal(t, uint32(protocol.UNBIND), req.Header.CommandID)

	resp := protocol.CreateUnbindResponse(req.Header.SequenceNumber, protocol.SMPP_ESME_ROK)
	require.NoError(t, peer.WriteFrame(resp.Bytes()))

	require.NoError(t, <-done)
	assert.Equal(t, StateOpen, sess.State())
}

func TestReceiveBadMessage(t *testing.T) {
	sess, peer := pipeSession(t, nil)

	// 完整的帧但命令ID不合法
	msg := protocol.NewMessage(protocol.ENQUIRE_LINK, 0, 1, nil)
	raw := msg.Bytes()
	raw[4], raw[5], raw[6], raw[7] = 0x7F, 0xFF, 0xFF, 0xFF

	go func() {
		peer.WriteFrame(raw)
	}()

	_, err := sess.Receive(time.Second)
	assert.ErrorIs(t, err, ErrBadMessage)
}

func TestReceiveEndOfStream(t *testing.T) {
	sess, peer := pipeSession(t, nil)

	go func() {
		peer.Close()
	}()

	_, err := sess.Receive(time.Second)
	assert.ErrorIs(t, err, transport.ErrEndOfStream)
}
