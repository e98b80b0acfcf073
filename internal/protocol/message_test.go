package protocol

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBytesRoundTrip(t *testing.T) {
	msg := NewMessage(SUBMIT_SM, SMPP_ESME_ROK, 7, []byte{0x01, 0x02, 0x03})
	raw := msg.Bytes()

	// 长度前缀覆盖整条消息
	require.Equal(t, HeaderLength+3, len(raw))
	assert.Equal(t, uint32(len(raw)), binary.BigEndian.Uint32(raw[0:4]))

	parsed, err := ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(SUBMIT_SM), parsed.Header.CommandID)
	assert.Equal(t, uint32(7), parsed.Header.SequenceNumber)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, parsed.Payload)
}

func TestMessageBytesWithTLV(t *testing.T) {
	msg := NewMessage(DELIVER_SM, 0, 1, []byte{0xAA})
	msg.AddTLV(0x001E, []byte("recv-id"))

	raw := msg.Bytes()
	expected := HeaderLength + 1 + 4 + len("recv-id")
	assert.Equal(t, expected, len(raw))
	assert.Equal(t, uint32(expected), msg.Header.CommandLength)

	// TLV在消息体之后，按大端序排列
	tlvStart := HeaderLength + 1
	assert.Equal(t, uint16(0x001E), binary.BigEndian.Uint16(raw[tlvStart:tlvStart+2]))
	assert.Equal(t, uint16(len("recv-id")), binary.BigEndian.Uint16(raw[tlvStart+2:tlvStart+4]))
	assert.Equal(t, "recv-id", string(raw[tlvStart+4:]))
}

func TestParseMessageErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too_short", []byte{0x00, 0x00, 0x00, 0x10}},
		{"incomplete_body", func() []byte {
			msg := NewMessage(SUBMIT_SM, 0, 1, []byte{1, 2, 3, 4})
			return msg.Bytes()[:18]
		}()},
		{"unknown_command_id", func() []byte {
			msg := NewMessage(SUBMIT_SM, 0, 1, nil)
			raw := msg.Bytes()
			binary.BigEndian.PutUint32(raw[4:8], 0x7FFFFFFF)
			return raw
		}()},
		// command_length小于头部长度，缓冲区本身足够16字节也必须报错
		{"length_below_header", func() []byte {
			msg := NewMessage(ENQUIRE_LINK, 0, 1, nil)
			raw := msg.Bytes()
			binary.BigEndian.PutUint32(raw[0:4], 10)
			return raw
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestMessagePredicates(t *testing.T) {
	req := NewMessage(ENQUIRE_LINK, 0, 1, nil)
	assert.True(t, req.IsRequest())
	assert.False(t, req.IsResponse())
	assert.False(t, req.IsError())
	assert.Equal(t, "enquire_link", req.CommandName())

	resp := NewMessage(ENQUIRE_LINK_RESP, SMPP_ESME_RSYSERR, 1, nil)
	assert.True(t, resp.IsResponse())
	assert.True(t, resp.IsError())
}

func TestBindRequestRoundTrip(t *testing.T) {
	params := &BindParams{
		SystemID:   "esme01",
		Password:   "secret08",
		SystemType: "sms",
	}
	msg := NewBindRequest(BIND_TRANSCEIVER, 5, params)

	assert.Equal(t, uint32(BIND_TRANSCEIVER), msg.Header.CommandID)
	assert.Equal(t, uint32(5), msg.Header.SequenceNumber)

	// 未指定版本时默认SMPP 3.4
	offset := len("esme01") + 1 + len("secret08") + 1 + len("sms") + 1
	assert.Equal(t, byte(0x34), msg.Payload[offset])

	systemID, password, err := ParseBindRequest(msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, "esme01", systemID)
	assert.Equal(t, "secret08", password)
}

func TestSubmitSMLayout(t *testing.T) {
	params := &SubmitParams{
		SourceAddr:      "10690000",
		DestinationAddr: "13800138000",
		ShortMessage:    []byte("hello"),
	}
	msg := NewSubmitSM(9, params)

	assert.Equal(t, uint32(SUBMIT_SM), msg.Header.CommandID)
	// sm_length在消息体末尾前5字节处
	payload := msg.Payload
	assert.Equal(t, byte(5), payload[len(payload)-6])
	assert.Equal(t, "hello", string(payload[len(payload)-5:]))
}

func TestDeliverSMRoundTrip(t *testing.T) {
	content := &DeliverContent{
		SourceAddr:   "10690000",
		DestAddr:     "13800138000",
		DataCoding:   0x08,
		ShortMessage: []byte{0x4F, 0x60, 0x59, 0x7D}, // UCS2 "你好"
	}
	msg := NewDeliverSM(11, content)

	parsed, err := ParseDeliverSM(msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, content.SourceAddr, parsed.SourceAddr)
	assert.Equal(t, content.DestAddr, parsed.DestAddr)
	assert.Equal(t, content.DataCoding, parsed.DataCoding)
	assert.Equal(t, content.ShortMessage, parsed.ShortMessage)
}

func TestParseDeliverSMTruncated(t *testing.T) {
	content := &DeliverContent{SourceAddr: "a", DestAddr: "b", ShortMessage: []byte("xy")}
	payload := NewDeliverSM(1, content).Payload

	for i := 1; i < len(payload); i++ {
		_, err := ParseDeliverSM(payload[:i])
		assert.Error(t, err, "截断到%d字节应当报错", i)
	}

	// sm_length声称的长度超出剩余字节，不允许静默补零
	inflated := make([]byte, len(payload))
	copy(inflated, payload)
	inflated[len(inflated)-3] = 0xFF
	_, err := ParseDeliverSM(inflated)
	assert.Error(t, err)
}

func TestSubmitSMRespRoundTrip(t *testing.T) {
	resp := CreateSubmitSMResponse(3, SMPP_ESME_ROK, "msg-001")
	assert.Equal(t, uint32(SUBMIT_SM_RESP), resp.Header.CommandID)

	messageID, err := ParseSubmitSMResp(resp.Payload)
	require.NoError(t, err)
	assert.Equal(t, "msg-001", messageID)
}

func TestResponseBuilders(t *testing.T) {
	bindResp := CreateBindResponse(BIND_RECEIVER_RESP, 2, SMPP_ESME_ROK, "SMSC")
	assert.Equal(t, uint32(BIND_RECEIVER_RESP), bindResp.Header.CommandID)
	assert.Equal(t, uint32(2), bindResp.Header.SequenceNumber)

	elResp := CreateEnquireLinkResponse(8)
	assert.Equal(t, uint32(ENQUIRE_LINK_RESP), elResp.Header.CommandID)
	assert.Equal(t, uint32(8), elResp.Header.SequenceNumber)
	assert.Empty(t, elResp.Payload)

	unbindResp := CreateUnbindResponse(9, SMPP_ESME_ROK)
	assert.Equal(t, uint32(UNBIND_RESP), unbindResp.Header.CommandID)

	nack := CreateGenericNack(10, SMPP_ESME_RINVCMDID)
	assert.Equal(t, uint32(GENERIC_NACK), nack.Header.CommandID)
	assert.Equal(t, uint32(SMPP_ESME_RINVCMDID), nack.Header.CommandStatus)
}
