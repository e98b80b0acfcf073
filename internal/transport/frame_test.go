package transport

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFrame 构造一个指定总长度的测试帧
func buildFrame(length int) []byte {
	frame := make([]byte, length)
	binary.BigEndian.PutUint32(frame[0:4], uint32(length))
	for i := 4; i < length; i++ {
		frame[i] = byte(i)
	}
	return frame
}

func TestReadFrameRoundTrip(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()

	fc := NewFrameConn(local, time.Second)
	sent := buildFrame(32)

	go func() {
		remote.Write(sent)
	}()

	frame, err := fc.ReadFrame(time.Second)
	require.NoError(t, err)
	assert.Equal(t, sent, frame)
}

func TestWriteFrameRoundTrip(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()

	fc := NewFrameConn(local, time.Second)
	peer := NewFrameConn(remote, time.Second)
	sent := buildFrame(20)

	go func() {
		fc.WriteFrame(sent)
	}()

	frame, err := peer.ReadFrame(time.Second)
	require.NoError(t, err)
	assert.Equal(t, sent, frame)
}

func TestReadFrameEndOfStream(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()

	fc := NewFrameConn(local, time.Second)

	// 对端在帧边界上关闭连接
	go func() {
		remote.Close()
	}()

	_, err := fc.ReadFrame(time.Second)
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestReadFrameTimeout(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()

	fc := NewFrameConn(local, time.Second)

	_, err := fc.ReadFrame(50 * time.Millisecond)
	assert.ErrorIs(t, err, ErrReadTimeout)
}

func TestReadFrameBadLength(t *testing.T) {
	tests := []struct {
		name   string
		length uint32
	}{
		{"below_minimum", 5},
		{"above_maximum", MaxFrameLength + 1},
		{"zero", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local, remote := net.Pipe()
			defer local.Close()
			defer remote.Close()

			fc := NewFrameConn(local, time.Second)

			go func() {
				prefix := make([]byte, 4)
				binary.BigEndian.PutUint32(prefix, tt.length)
				remote.Write(prefix)
			}()

			_, err := fc.ReadFrame(time.Second)
			assert.True(t, IsFramingError(err), "期望帧错误，实际: %v", err)
		})
	}
}

func TestReadFramePartialPrefix(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()

	fc := NewFrameConn(local, time.Second)

	// 只写出前缀的一半就断开
	go func() {
		remote.Write([]byte{0x00, 0x00})
		remote.Close()
	}()

	_, err := fc.ReadFrame(time.Second)
	assert.True(t, IsFramingError(err), "期望帧错误，实际: %v", err)
}

func TestReadFrameTruncatedBody(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()

	fc := NewFrameConn(local, time.Second)

	// 声明30字节却只发出一半就断开
	go func() {
		frame := buildFrame(30)
		remote.Write(frame[:15])
		remote.Close()
	}()

	_, err := fc.ReadFrame(time.Second)
	assert.True(t, IsFramingError(err), "期望帧错误，实际: %v", err)
}

func TestReadFrameMidBodyTimeout(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()

	fc := NewFrameConn(local, time.Second)

	// 帧中途停顿超过超时时间，按帧错误处理而非普通超时
	go func() {
		frame := buildFrame(30)
		remote.Write(frame[:10])
	}()

	_, err := fc.ReadFrame(100 * time.Millisecond)
	assert.True(t, IsFramingError(err), "期望帧错误，实际: %v", err)
}

func TestWriteFrameConcurrent(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()

	fc := NewFrameConn(local, time.Second)
	peer := NewFrameConn(remote, time.Second)

	const writers = 4
	const perWriter = 5

	for i := 0; i < writers; i++ {
		go func() {
			for j := 0; j < perWriter; j++ {
				fc.WriteFrame(buildFrame(24))
			}
		}()
	}

	// 并发写入时每个帧仍然完整
	for i := 0; i < writers*perWriter; i++ {
		frame, err := peer.ReadFrame(time.Second)
		require.NoError(t, err)
		assert.Equal(t, buildFrame(24), frame)
	}
}
