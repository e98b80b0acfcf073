// internal/protocol/message.go   消息结构
package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// TLV 表示一个TLV可选参数
type TLV struct {
	Tag   uint16
	Len   uint16
	Value []byte
}

// Message 表示一个完整的SMPP消息
type Message struct {
	Header  SMPPHeader
	Payload []byte
	TLVs    []TLV
}

// NewMessage 创建新消息
func NewMessage(commandID, status, sequence uint32, payload []byte) *Message {
	return &Message{
		Header: SMPPHeader{
			CommandLength:  uint32(HeaderLength + len(payload)),
			CommandID:      commandID,
			CommandStatus:  status,
			SequenceNumber: sequence,
		},
		Payload: payload,
	}
}

// CommandName 获取消息的命令名称
func (m *Message) CommandName() string {
	return GetCommandName(m.Header.CommandID)
}

// IsResponse 判断消息是否为响应
func (m *Message) IsResponse() bool {
	return IsResponseCommand(m.Header.CommandID)
}

// IsRequest 判断消息是否为请求
func (m *Message) IsRequest() bool {
	return !m.IsResponse()
}

// IsError 判断消息的状态码是否为错误
func (m *Message) IsError() bool {
	return m.Header.CommandStatus != SMPP_ESME_ROK
}

// AddTLV 添加一个TLV参数
func (m *Message) AddTLV(tag uint16, value []byte) {
	m.TLVs = append(m.TLVs, TLV{
		Tag:   tag,
		Len:   uint16(len(value)),
		Value: value,
	})
}

// Bytes 将消息转换为字节数组
func (m *Message) Bytes() []byte {
	// 重新计算总长度
	totalLen := HeaderLength + len(m.Payload)
	for _, tlv := range m.TLVs {
		totalLen += 4 + int(tlv.Len)
	}

	m.Header.CommandLength = uint32(totalLen)

	// 序列化消息
	buf := new(bytes.Buffer)
	m.Header.Write(buf)
	buf.Write(m.Payload)

	// 添加所有TLV
	for _, tlv := range m.TLVs {
		binary.Write(buf, binary.BigEndian, tlv.Tag)
		binary.Write(buf, binary.BigEndian, tlv.Len)
		buf.Write(tlv.Value)
	}

	return buf.Bytes()
}

// ParseMessage 从字节数组解析消息
func ParseMessage(data []byte) (*Message, error) {
	if len(data) < HeaderLength {
		return nil, errors.New("invalid message: too short")
	}

	// 解析消息头
	header := SMPPHeader{
		CommandLength:  binary.BigEndian.Uint32(data[0:4]),
		CommandID:      binary.BigEndian.Uint32(data[4:8]),
		CommandStatus:  binary.BigEndian.Uint32(data[8:12]),
		SequenceNumber: binary.BigEndian.Uint32(data[12:16]),
	}

	if header.CommandLength < HeaderLength {
		return nil, errors.New("invalid message: bad command_length")
	}

	if uint32(len(data)) < header.CommandLength {
		return nil, errors.New("invalid message: incomplete data")
	}

	if _, ok := commandNames[header.CommandID]; !ok {
		return nil, errors.New("invalid message: unknown command id")
	}

	// 构建消息对象
	message := &Message{
		Header:  header,
		Payload: data[HeaderLength:header.CommandLength],
	}

	return message, nil
}

// BindParams 绑定请求参数
type BindParams struct {
	SystemID         string
	Password         string
	SystemType       string
	InterfaceVersion byte
	AddrTON          byte
	AddrNPI          byte
	AddressRange     string
}

// NewBindRequest 创建绑定请求消息
func NewBindRequest(commandID, sequence uint32, params *BindParams) *Message {
	version := params.InterfaceVersion
	if version == 0 {
		version = 0x34 // SMPP 3.4
	}

	buf := new(bytes.Buffer)
	writeCString(buf, params.SystemID)
	writeCString(buf, params.Password)
	writeCString(buf, params.SystemType)
	buf.WriteByte(version)
	buf.WriteByte(params.AddrTON)
	buf.WriteByte(params.AddrNPI)
	writeCString(buf, params.AddressRange)

	return NewMessage(commandID, 0, sequence, buf.Bytes())
}

// ParseBindRequest 解析绑定请求，提取系统ID和密码
func ParseBindRequest(payload []byte) (systemID, password string, err error) {
	r := bytes.NewReader(payload)

	systemID, err = readCString(r)
	if err != nil {
		return "", "", errors.New("invalid bind request: bad system_id")
	}

	password, err = readCString(r)
	if err != nil {
		return "", "", errors.New("invalid bind request: bad password")
	}

	return systemID, password, nil
}

// SubmitParams 短信提交参数
type SubmitParams struct {
	ServiceType        string
	SourceAddrTON      byte
	SourceAddrNPI      byte
	SourceAddr         string
	DestAddrTON        byte
	DestAddrNPI        byte
	DestinationAddr    string
	ESMClass           byte
	ProtocolID         byte
	PriorityFlag       byte
	RegisteredDelivery byte
	DataCoding         byte
	ShortMessage       []byte
}

// NewSubmitSM 创建submit_sm消息
func NewSubmitSM(sequence uint32, params *SubmitParams) *Message {
	buf := new(bytes.Buffer)
	writeCString(buf, params.ServiceType)
	buf.WriteByte(params.SourceAddrTON)
	buf.WriteByte(params.SourceAddrNPI)
	writeCString(buf, params.SourceAddr)
	buf.WriteByte(params.DestAddrTON)
	buf.WriteByte(params.DestAddrNPI)
	writeCString(buf, params.DestinationAddr)
	buf.WriteByte(params.ESMClass)
	buf.WriteByte(params.ProtocolID)
	buf.WriteByte(params.PriorityFlag)
	writeCString(buf, "") // schedule_delivery_time
	writeCString(buf, "") // validity_period
	buf.WriteByte(params.RegisteredDelivery)
	buf.WriteByte(0) // replace_if_present_flag
	buf.WriteByte(params.DataCoding)
	buf.WriteByte(0) // sm_default_msg_id
	buf.WriteByte(byte(len(params.ShortMessage)))
	buf.Write(params.ShortMessage)

	return NewMessage(SUBMIT_SM, 0, sequence, buf.Bytes())
}

// DeliverContent 短信投递内容
type DeliverContent struct {
	SourceAddr   string
	DestAddr     string
	DataCoding   byte
	ShortMessage []byte
}

// ParseDeliverSM 解析deliver_sm消息体
func ParseDeliverSM(payload []byte) (*DeliverContent, error) {
	r := bytes.NewReader(payload)

	if _, err := readCString(r); err != nil { // service_type
		return nil, errors.New("invalid deliver_sm: bad service_type")
	}

	if err := skipBytes(r, 2); err != nil { // source ton/npi
		return nil, errors.New("invalid deliver_sm: truncated")
	}
	sourceAddr, err := readCString(r)
	if err != nil {
		return nil, errors.New("invalid deliver_sm: bad source_addr")
	}

	if err := skipBytes(r, 2); err != nil { // dest ton/npi
		return nil, errors.New("invalid deliver_sm: truncated")
	}
	destAddr, err := readCString(r)
	if err != nil {
		return nil, errors.New("invalid deliver_sm: bad destination_addr")
	}

	if err := skipBytes(r, 3); err != nil { // esm_class, protocol_id, priority_flag
		return nil, errors.New("invalid deliver_sm: truncated")
	}
	if _, err := readCString(r); err != nil { // schedule_delivery_time
		return nil, errors.New("invalid deliver_sm: truncated")
	}
	if _, err := readCString(r); err != nil { // validity_period
		return nil, errors.New("invalid deliver_sm: truncated")
	}
	if err := skipBytes(r, 2); err != nil { // registered_delivery, replace_if_present
		return nil, errors.New("invalid deliver_sm: truncated")
	}

	dataCoding, err := r.ReadByte()
	if err != nil {
		return nil, errors.New("invalid deliver_sm: truncated")
	}
	if err := skipBytes(r, 1); err != nil { // sm_default_msg_id
		return nil, errors.New("invalid deliver_sm: truncated")
	}

	smLength, err := r.ReadByte()
	if err != nil {
		return nil, errors.New("invalid deliver_sm: truncated")
	}

	shortMessage := make([]byte, int(smLength))
	if smLength > 0 {
		if _, err := io.ReadFull(r, shortMessage); err != nil {
			return nil, errors.New("invalid deliver_sm: short message truncated")
		}
	}

	return &DeliverContent{
		SourceAddr:   sourceAddr,
		DestAddr:     destAddr,
		DataCoding:   dataCoding,
		ShortMessage: shortMessage,
	}, nil
}

// NewDeliverSM 创建deliver_sm消息（模拟器使用）
func NewDeliverSM(sequence uint32, content *DeliverContent) *Message {
	buf := new(bytes.Buffer)
	writeCString(buf, "") // service_type
	buf.WriteByte(0)      // source_addr_ton
	buf.WriteByte(0)      // source_addr_npi
	writeCString(buf, content.SourceAddr)
	buf.WriteByte(0) // dest_addr_ton
	buf.WriteByte(0) // dest_addr_npi
	writeCString(buf, content.DestAddr)
	buf.WriteByte(0)      // esm_class
	buf.WriteByte(0)      // protocol_id
	buf.WriteByte(0)      // priority_flag
	writeCString(buf, "") // schedule_delivery_time
	writeCString(buf, "") // validity_period
	buf.WriteByte(0)      // registered_delivery
	buf.WriteByte(0)      // replace_if_present_flag
	buf.WriteByte(content.DataCoding)
	buf.WriteByte(0) // sm_default_msg_id
	buf.WriteByte(byte(len(content.ShortMessage)))
	buf.Write(content.ShortMessage)

	return NewMessage(DELIVER_SM, 0, sequence, buf.Bytes())
}

// ParseSubmitSMResp 解析submit_sm_resp，提取消息ID
func ParseSubmitSMResp(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", nil
	}

	messageID, err := readCString(bytes.NewReader(payload))
	if err != nil {
		return "", errors.New("invalid submit_sm_resp: bad message_id")
	}
	return messageID, nil
}

// CreateBindResponse 创建绑定响应消息
func CreateBindResponse(commandID, sequence, status uint32, systemID string) *Message {
	payload := append([]byte(systemID), 0) // 添加空终止符
	return NewMessage(commandID, status, sequence, payload)
}

// CreateSubmitSMResponse 创建短信提交响应
func CreateSubmitSMResponse(sequence, status uint32, messageID string) *Message {
	payload := append([]byte(messageID), 0)
	return NewMessage(SUBMIT_SM_RESP, status, sequence, payload)
}

// CreateDeliverSMResponse 创建短信投递响应
func CreateDeliverSMResponse(sequence, status uint32) *Message {
	return NewMessage(DELIVER_SM_RESP, status, sequence, nil)
}

// CreateEnquireLink 创建链路查询请求
func CreateEnquireLink(sequence uint32) *Message {
	return NewMessage(ENQUIRE_LINK, 0, sequence, nil)
}

// CreateEnquireLinkResponse 创建链路查询响应
func CreateEnquireLinkResponse(sequence uint32) *Message {
	return NewMessage(ENQUIRE_LINK_RESP, SMPP_ESME_ROK, sequence, nil)
}

// CreateUnbind 创建解绑请求
func CreateUnbind(sequence uint32) *Message {
	return NewMessage(UNBIND, 0, sequence, nil)
}

// CreateUnbindResponse 创建解绑响应
func CreateUnbindResponse(sequence, status uint32) *Message {
	return NewMessage(UNBIND_RESP, status, sequence, nil)
}

// CreateGenericNack 创建generic_nack响应
func CreateGenericNack(sequence, status uint32) *Message {
	return NewMessage(GENERIC_NACK, status, sequence, nil)
}

// writeCString 写入C风格字符串（空终止）
func writeCString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0)
}

// readCString 读取C风格字符串（空终止）
func readCString(r *bytes.Reader) (string, error) {
	var out []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(out), nil
		}
		out = append(out, b)
	}
}

// skipBytes 跳过n个字节
func skipBytes(r *bytes.Reader, n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.ReadByte(); err != nil {
			return err
		}
	}
	return nil
}
