package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderWriteRead(t *testing.T) {
	header := SMPPHeader{
		CommandLength:  16,
		CommandID:      ENQUIRE_LINK,
		CommandStatus:  SMPP_ESME_ROK,
		SequenceNumber: 42,
	}

	buf := new(bytes.Buffer)
	require.NoError(t, header.Write(buf))
	require.Equal(t, HeaderLength, buf.Len())

	// 字段按大端序排列
	raw := buf.Bytes()
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x10}, raw[0:4])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x15}, raw[4:8])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, raw[8:12])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x2A}, raw[12:16])

	var decoded SMPPHeader
	require.NoError(t, decoded.Read(bytes.NewReader(raw)))
	assert.Equal(t, header, decoded)
}

func TestParseHeader(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x00, 0x14, // command_length = 20
		0x80, 0x00, 0x00, 0x04, // submit_sm_resp
		0x00, 0x00, 0x00, 0x0B, // ESME_RINVDSTADR
		0x00, 0x00, 0x01, 0x00, // sequence = 256
	}

	header, err := ParseHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(20), header.CommandLength)
	assert.Equal(t, uint32(SUBMIT_SM_RESP), header.CommandID)
	assert.Equal(t, uint32(SMPP_ESME_RINVDSTADR), header.CommandStatus)
	assert.Equal(t, uint32(256), header.SequenceNumber)
}

func TestParseHeaderTooShort(t *testing.T) {
	_, err := ParseHeader([]byte{0x00, 0x00, 0x00})
	assert.Error(t, err)
}
