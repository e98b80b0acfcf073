// internal/session/state.go  会话状态机配置
package session

import "smpc/internal/protocol"

// State 会话绑定状态
type State int

// 会话状态常量
const (
	StateClosed State = iota // 未连接
	StateOpen                // 已连接未绑定
	StateBoundTX             // 已绑定为发送方
	StateBoundRX             // 已绑定为接收方
	StateBoundTRX            // 已绑定为收发方
)

// 状态名称映射
var stateNames = map[State]string{
	StateClosed:   "CLOSED",
	StateOpen:     "OPEN",
	StateBoundTX:  "BOUND_TX",
	StateBoundRX:  "BOUND_RX",
	StateBoundTRX: "BOUND_TRX",
}

// String 返回状态名称
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// commandStates 命令状态矩阵：每个命令允许发送/接收的会话状态集合。
// 矩阵必须覆盖编解码器能产生的全部命令。
var commandStates = map[uint32][]State{
	protocol.BIND_TRANSMITTER:      {StateOpen},
	protocol.BIND_TRANSMITTER_RESP: {StateOpen},
	protocol.BIND_RECEIVER:         {StateOpen},
	protocol.BIND_RECEIVER_RESP:    {StateOpen},
	protocol.BIND_TRANSCEIVER:      {StateOpen},
	protocol.BIND_TRANSCEIVER_RESP: {StateOpen},
	protocol.OUTBIND:               {StateOpen},
	protocol.UNBIND:                {StateBoundTX, StateBoundRX, StateBoundTRX},
	protocol.UNBIND_RESP:           {StateBoundTX, StateBoundRX, StateBoundTRX},
	protocol.SUBMIT_SM:             {StateBoundTX, StateBoundTRX},
	protocol.SUBMIT_SM_RESP:        {StateBoundTX, StateBoundTRX},
	protocol.SUBMIT_MULTI:          {StateBoundTX, StateBoundTRX},
	protocol.SUBMIT_MULTI_RESP:     {StateBoundTX, StateBoundTRX},
	protocol.DATA_SM:               {StateBoundTX, StateBoundRX, StateBoundTRX},
	protocol.DATA_SM_RESP:          {StateBoundTX, StateBoundRX, StateBoundTRX},
	protocol.DELIVER_SM:            {StateBoundRX, StateBoundTRX},
	protocol.DELIVER_SM_RESP:       {StateBoundRX, StateBoundTRX},
	protocol.QUERY_SM:              {StateBoundRX, StateBoundTRX},
	protocol.QUERY_SM_RESP:         {StateBoundRX, StateBoundTRX},
	protocol.CANCEL_SM:             {StateBoundRX, StateBoundTRX},
	protocol.CANCEL_SM_RESP:        {StateBoundRX, StateBoundTRX},
	protocol.REPLACE_SM:            {StateBoundTX},
	protocol.REPLACE_SM_RESP:       {StateBoundTX},
	protocol.ENQUIRE_LINK:          {StateBoundTX, StateBoundRX, StateBoundTRX},
	protocol.ENQUIRE_LINK_RESP:     {StateBoundTX, StateBoundRX, StateBoundTRX},
	protocol.GENERIC_NACK:          {StateBoundTX, StateBoundRX, StateBoundTRX},
}

// stateSetters 状态设置表：收到这些响应后会话进入对应状态
var stateSetters = map[uint32]State{
	protocol.BIND_TRANSMITTER_RESP: StateBoundTX,
	protocol.BIND_RECEIVER_RESP:    StateBoundRX,
	protocol.BIND_TRANSCEIVER_RESP: StateBoundTRX,
	protocol.UNBIND_RESP:           StateOpen,
}

// allowedIn 判断命令在指定状态下是否允许
func allowedIn(commandID uint32, state State) bool {
	states, ok := commandStates[commandID]
	if !ok {
		return false
	}

	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
