// internal/protocol/constants.go  # 协议常量定义
package protocol

// Command IDs (SMPP 3.4)
const (
	GENERIC_NACK          = 0x80000000
	BIND_RECEIVER         = 0x00000001
	BIND_RECEIVER_RESP    = 0x80000001
	BIND_TRANSMITTER      = 0x00000002
	BIND_TRANSMITTER_RESP = 0x80000002
	QUERY_SM              = 0x00000003
	QUERY_SM_RESP         = 0x80000003
	SUBMIT_SM             = 0x00000004
	SUBMIT_SM_RESP        = 0x80000004
	DELIVER_SM            = 0x00000005
	DELIVER_SM_RESP       = 0x80000005
	UNBIND                = 0x00000006
	UNBIND_RESP           = 0x80000006
	REPLACE_SM            = 0x00000007
	REPLACE_SM_RESP       = 0x80000007
	CANCEL_SM             = 0x00000008
	CANCEL_SM_RESP        = 0x80000008
	BIND_TRANSCEIVER      = 0x00000009
	BIND_TRANSCEIVER_RESP = 0x80000009
	OUTBIND               = 0x0000000B
	SUBMIT_MULTI          = 0x00000021
	SUBMIT_MULTI_RESP     = 0x80000021
	ENQUIRE_LINK          = 0x00000015
	ENQUIRE_LINK_RESP     = 0x80000015
	DATA_SM               = 0x00000103
	DATA_SM_RESP          = 0x80000103
)

// 响应命令的标志位
const RESPONSE_BIT = 0x80000000

// Command status codes
const (
	SMPP_ESME_ROK              = 0x00000000 // No Error
	SMPP_ESME_RINVMSGLEN       = 0x00000001 // Message Length is invalid
	SMPP_ESME_RINVCMDLEN       = 0x00000002 // Command Length is invalid
	SMPP_ESME_RINVCMDID        = 0x00000003 // Invalid Command ID
	SMPP_ESME_RINVBNDSTS       = 0x00000004 // Incorrect BIND Status for given command
	SMPP_ESME_RALYBND          = 0x00000005 // ESME Already in Bound State
	SMPP_ESME_RINVPRTFLG       = 0x00000006 // Invalid Priority Flag
	SMPP_ESME_RINVREGDLVFLG    = 0x00000007 // Invalid Registered Delivery Flag
	SMPP_ESME_RSYSERR          = 0x00000008 // System Error
	SMPP_ESME_RINVSRCADR       = 0x0000000A // Invalid Source Address
	SMPP_ESME_RINVDSTADR       = 0x0000000B // Invalid Destination Address
	SMPP_ESME_RINVMSGID        = 0x0000000C // Message ID is invalid
	SMPP_ESME_RBINDFAIL        = 0x0000000D // Bind Failed
	SMPP_ESME_RINVPASWD        = 0x0000000E // Invalid Password
	SMPP_ESME_RINVSYSID        = 0x0000000F // Invalid System ID
	SMPP_ESME_RCANCELFAIL      = 0x00000011 // Cancel SM Failed
	SMPP_ESME_RREPLACEFAIL     = 0x00000013 // Replace SM Failed
	SMPP_ESME_RMSGQFUL         = 0x00000014 // Message Queue Full
	SMPP_ESME_RINVSERTYP       = 0x00000015 // Invalid Service Type
	SMPP_ESME_RINVNUMDESTS     = 0x00000033 // Invalid number of destinations
	SMPP_ESME_RINVDLNAME       = 0x00000034 // Invalid Distribution List name
	SMPP_ESME_RINVDESTFLAG     = 0x00000040 // Invalid Destination flag
	SMPP_ESME_RINVSUBREP       = 0x00000042 // Invalid submit with replace request
	SMPP_ESME_RINVESMCLASS     = 0x00000043 // Invalid esm_class field data
	SMPP_ESME_RCNTSUBDL        = 0x00000044 // Cannot Submit to Distribution List
	SMPP_ESME_RSUBMITFAIL      = 0x00000045 // submit_sm or submit_multi failed
	SMPP_ESME_RINVSRCTON       = 0x00000048 // Invalid Source address TON
	SMPP_ESME_RINVSRCNPI       = 0x00000049 // Invalid Source address NPI
	SMPP_ESME_RINVDSTTON       = 0x00000050 // Invalid Destination address TON
	SMPP_ESME_RINVDSTNPI       = 0x00000051 // Invalid Destination address NPI
	SMPP_ESME_RINVSYSTYP       = 0x00000053 // Invalid system_type field
	SMPP_ESME_RINVREPFLAG      = 0x00000054 // Invalid replace_if_present flag
	SMPP_ESME_RINVNUMMSGS      = 0x00000055 // Invalid number of messages
	SMPP_ESME_RTHROTTLED       = 0x00000058 // Throttling error (ESME has exceeded allowed message limits)
	SMPP_ESME_RINVSCHED        = 0x00000061 // Invalid Scheduled Delivery Time
	SMPP_ESME_RINVEXPIRY       = 0x00000062 // Invalid message validity period (Expiry time)
	SMPP_ESME_RINVDFTMSGID     = 0x00000063 // Predefined Message Invalid or Not Found
	SMPP_ESME_RX_T_APPN        = 0x00000064 // ESME Receiver Temporary App Error Code
	SMPP_ESME_RX_P_APPN        = 0x00000065 // ESME Receiver Permanent App Error Code
	SMPP_ESME_RX_R_APPN        = 0x00000066 // ESME Receiver Reject Message Error Code
	SMPP_ESME_RQUERYFAIL       = 0x00000067 // query_sm request failed
	SMPP_ESME_RINVOPTPARSTREAM = 0x000000C0 // Error in the optional part of the PDU Body
	SMPP_ESME_ROPTPARNOTALLWD  = 0x000000C1 // Optional Parameter not allowed
	SMPP_ESME_RINVPARLEN       = 0x000000C2 // Invalid Parameter Length
	SMPP_ESME_RMISSINGOPTPARAM = 0x000000C3 // Expected Optional Parameter missing
	SMPP_ESME_RINVOPTPARAMVAL  = 0x000000C4 // Invalid Optional Parameter Value
	SMPP_ESME_RDELIVERYFAILURE = 0x000000FE // Delivery Failure (used for data_sm_resp)
	SMPP_ESME_RUNKNOWNERR      = 0x000000FF // Unknown Error
)

// 命令ID到命令名称的映射表
var commandNames = map[uint32]string{
	GENERIC_NACK:          "generic_nack",
	BIND_RECEIVER:         "bind_receiver",
	BIND_RECEIVER_RESP:    "bind_receiver_resp",
	BIND_TRANSMITTER:      "bind_transmitter",
	BIND_TRANSMITTER_RESP: "bind_transmitter_resp",
	QUERY_SM:              "query_sm",
	QUERY_SM_RESP:         "query_sm_resp",
	SUBMIT_SM:             "submit_sm",
	SUBMIT_SM_RESP:        "submit_sm_resp",
	DELIVER_SM:            "deliver_sm",
	DELIVER_SM_RESP:       "deliver_sm_resp",
	UNBIND:                "unbind",
	UNBIND_RESP:           "unbind_resp",
	REPLACE_SM:            "replace_sm",
	REPLACE_SM_RESP:       "replace_sm_resp",
	CANCEL_SM:             "cancel_sm",
	CANCEL_SM_RESP:        "cancel_sm_resp",
	BIND_TRANSCEIVER:      "bind_transceiver",
	BIND_TRANSCEIVER_RESP: "bind_transceiver_resp",
	OUTBIND:               "outbind",
	SUBMIT_MULTI:          "submit_multi",
	SUBMIT_MULTI_RESP:     "submit_multi_resp",
	ENQUIRE_LINK:          "enquire_link",
	ENQUIRE_LINK_RESP:     "enquire_link_resp",
	DATA_SM:               "data_sm",
	DATA_SM_RESP:          "data_sm_resp",
}

// 状态码到描述的映射表，仅用于格式化错误信息
var statusDescs = map[uint32]string{
	SMPP_ESME_ROK:              "No Error",
	SMPP_ESME_RINVMSGLEN:       "Message Length is invalid",
	SMPP_ESME_RINVCMDLEN:       "Command Length is invalid",
	SMPP_ESME_RINVCMDID:        "Invalid Command ID",
	SMPP_ESME_RINVBNDSTS:       "Incorrect BIND Status for given command",
	SMPP_ESME_RALYBND:          "ESME Already in Bound State",
	SMPP_ESME_RINVPRTFLG:       "Invalid Priority Flag",
	SMPP_ESME_RINVREGDLVFLG:    "Invalid Registered Delivery Flag",
	SMPP_ESME_RSYSERR:          "System Error",
	SMPP_ESME_RINVSRCADR:       "Invalid Source Address",
	SMPP_ESME_RINVDSTADR:       "Invalid Destination Address",
	SMPP_ESME_RINVMSGID:        "Message ID is invalid",
	SMPP_ESME_RBINDFAIL:        "Bind Failed",
	SMPP_ESME_RINVPASWD:        "Invalid Password",
	SMPP_ESME_RINVSYSID:        "Invalid System ID",
	SMPP_ESME_RCANCELFAIL:      "Cancel SM Failed",
	SMPP_ESME_RREPLACEFAIL:     "Replace SM Failed",
	SMPP_ESME_RMSGQFUL:         "Message Queue Full",
	SMPP_ESME_RINVSERTYP:       "Invalid Service Type",
	SMPP_ESME_RINVNUMDESTS:     "Invalid number of destinations",
	SMPP_ESME_RINVDLNAME:       "Invalid Distribution List name",
	SMPP_ESME_RINVDESTFLAG:     "Invalid Destination flag",
	SMPP_ESME_RINVSUBREP:       "Invalid submit with replace request",
	SMPP_ESME_RINVESMCLASS:     "Invalid esm_class field data",
	SMPP_ESME_RCNTSUBDL:        "Cannot Submit to Distribution List",
	SMPP_ESME_RSUBMITFAIL:      "submit_sm or submit_multi failed",
	SMPP_ESME_RINVSRCTON:       "Invalid Source address TON",
	SMPP_ESME_RINVSRCNPI:       "Invalid Source address NPI",
	SMPP_ESME_RINVDSTTON:       "Invalid Destination address TON",
	SMPP_ESME_RINVDSTNPI:       "Invalid Destination address NPI",
	SMPP_ESME_RINVSYSTYP:       "Invalid system_type field",
	SMPP_ESME_RINVREPFLAG:      "Invalid replace_if_present flag",
	SMPP_ESME_RINVNUMMSGS:      "Invalid number of messages",
	SMPP_ESME_RTHROTTLED:       "Throttling error",
	SMPP_ESME_RINVSCHED:        "Invalid Scheduled Delivery Time",
	SMPP_ESME_RINVEXPIRY:       "Invalid message validity period",
	SMPP_ESME_RINVDFTMSGID:     "Predefined Message Invalid or Not Found",
	SMPP_ESME_RX_T_APPN:        "ESME Receiver Temporary App Error Code",
	SMPP_ESME_RX_P_APPN:        "ESME Receiver Permanent App Error Code",
	SMPP_ESME_RX_R_APPN:        "ESME Receiver Reject Message Error Code",
	SMPP_ESME_RQUERYFAIL:       "query_sm request failed",
	SMPP_ESME_RINVOPTPARSTREAM: "Error in the optional part of the PDU Body",
	SMPP_ESME_ROPTPARNOTALLWD:  "Optional Parameter not allowed",
	SMPP_ESME_RINVPARLEN:       "Invalid Parameter Length",
	SMPP_ESME_RMISSINGOPTPARAM: "Expected Optional Parameter missing",
	SMPP_ESME_RINVOPTPARAMVAL:  "Invalid Optional Parameter Value",
	SMPP_ESME_RDELIVERYFAILURE: "Delivery Failure",
	SMPP_ESME_RUNKNOWNERR:      "Unknown Error",
}

// GetCommandName 获取命令ID对应的命令名称
func GetCommandName(commandID uint32) string {
	if name, ok := commandNames[commandID]; ok {
		return name
	}
	return "unknown"
}

// 命令名称到命令ID的反查表
var commandIDs = make(map[string]uint32, len(commandNames))

func init() {
	for id, name := range commandNames {
		commandIDs[name] = id
	}
}

// GetCommandID 获取命令名称对应的命令ID
func GetCommandID(name string) (uint32, bool) {
	id, ok := commandIDs[name]
	return id, ok
}

// GetStatusDesc 获取状态码的可读描述
func GetStatusDesc(status uint32) string {
	if desc, ok := statusDescs[status]; ok {
		return desc
	}
	return "Unknown Status"
}

// IsResponseCommand 判断命令ID是否为响应类命令
func IsResponseCommand(commandID uint32) bool {
	return commandID&RESPONSE_BIT != 0
}
