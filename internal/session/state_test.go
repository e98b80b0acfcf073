package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smpc/internal/protocol"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "CLOSED", StateClosed.String())
	assert.Equal(t, "OPEN", StateOpen.String())
	assert.Equal(t, "BOUND_TX", StateBoundTX.String())
	assert.Equal(t, "BOUND_RX", StateBoundRX.String())
	assert.Equal(t, "BOUND_TRX", StateBoundTRX.String())
	assert.Equal(t, "UNKNOWN", State(99).String())
}

func TestCommandStateMatrix(t *testing.T) {
	tests := []struct {
		name      string
		commandID uint32
		state     State
		allowed   bool
	}{
		{"bind_in_open", protocol.BIND_TRANSCEIVER, StateOpen, true},
		{"bind_when_bound", protocol.BIND_TRANSCEIVER, StateBoundTRX, false},
		{"bind_when_closed", protocol.BIND_TRANSMITTER, StateClosed, false},
		{"submit_in_tx", protocol.SUBMIT_SM, StateBoundTX, true},
		{"submit_in_trx", protocol.SUBMIT_SM, StateBoundTRX, true},
		{"submit_in_rx", protocol.SUBMIT_SM, StateBoundRX, false},
		{"submit_in_open", protocol.SUBMIT_SM, StateOpen, false},
		{"deliver_in_rx", protocol.DELIVER_SM, StateBoundRX, true},
		{"deliver_in_tx", protocol.DELIVER_SM, StateBoundTX, false},
		{"deliver_resp_in_trx", protocol.DELIVER_SM_RESP, StateBoundTRX, true},
		{"replace_only_tx", protocol.REPLACE_SM, StateBoundTX, true},
		{"replace_not_trx", protocol.REPLACE_SM, StateBoundTRX, false},
		{"query_in_rx", protocol.QUERY_SM, StateBoundRX, true},
		{"query_not_tx", protocol.QUERY_SM, StateBoundTX, false},
		{"unbind_in_tx", protocol.UNBIND, StateBoundTX, true},
		{"unbind_in_open", protocol.UNBIND, StateOpen, false},
		{"enquire_when_bound", protocol.ENQUIRE_LINK, StateBoundRX, true},
		{"enquire_in_open", protocol.ENQUIRE_LINK, StateOpen, false},
		{"outbind_in_open", protocol.OUTBIND, StateOpen, true},
		{"generic_nack_when_bound", protocol.GENERIC_NACK, StateBoundTRX, true},
		{"generic_nack_in_open", protocol.GENERIC_NACK, StateOpen, false},
		{"unknown_command", 0x7FFFFFFF, StateBoundTRX, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, allowedIn(tt.commandID, tt.state))
		})
	}
}

func TestStateSetters(t *testing.T) {
	assert.Equal(t, StateBoundTX, stateSetters[protocol.BIND_TRANSMITTER_RESP])
	assert.Equal(t, StateBoundRX, stateSetters[protocol.BIND_RECEIVER_RESP])
	assert.Equal(t, StateBoundTRX, stateSetters[protocol.BIND_TRANSCEIVER_RESP])
	assert.Equal(t, StateOpen, stateSetters[protocol.UNBIND_RESP])

	// 其余响应不迁移状态
	_, ok := stateSetters[protocol.SUBMIT_SM_RESP]
	assert.False(t, ok)
	_, ok = stateSetters[protocol.ENQUIRE_LINK_RESP]
	assert.False(t, ok)
}
