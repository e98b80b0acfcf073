// internal/session/listen.go  接收模式消息循环
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smpc/internal/protocol"
	"smpc/internal/transport"
	"smpc/pkg/logger"
)

// 对端关闭后每次空读之间的停顿
const endOfStreamPause = 10 * time.Millisecond

// Listen 接收模式消息循环。
// 仅允许在接收模式的会话上启动，循环运行直到收到对端的unbind命令、
// 出现致命传输错误或上下文被取消。所有回复都经过Send的状态校验。
func (s *Session) Listen(ctx context.Context) error {
	if !s.ReceiverMode() {
		return &UsageError{Reason: "监听循环仅允许在接收模式的会话上启动"}
	}

	logger.Info("开始消息监听循环")

	for {
		select {
		case <-ctx.Done():
			logger.Info("上下文取消，退出监听循环")
			return nil
		default:
		}

		msg, err := s.Receive(s.config.ReadTimeout)
		if err != nil {
			switch {
			case errors.Is(err, transport.ErrReadTimeout):
				// 空闲超时，继续监听
				continue
			case errors.Is(err, transport.ErrEndOfStream):
				// 未读到有效数据，继续监听；对端关闭后读取会立即返回，
				// 停顿一下避免空转
				time.Sleep(endOfStreamPause)
				continue
			case errors.Is(err, ErrBadMessage):
				continue
			case IsProtocolError(err):
				// 协议层错误不终止会话
				logger.Warning(fmt.Sprintf("收到错误状态的消息: %v", err))
				continue
			default:
				// 致命传输错误，终止循环
				logger.Error(fmt.Sprintf("读取消息失败: %v", err))
				return err
			}
		}

		switch msg.Header.CommandID {
		case protocol.UNBIND:
			logger.Info("收到unbind命令，退出监听循环")
			return nil

		case protocol.DELIVER_SM:
			s.handleDeliverSM(msg)

		case protocol.ENQUIRE_LINK:
			s.handleEnquireLink(msg)

		default:
			logger.Warning(fmt.Sprintf("未处理的SMPP命令 '%s'，序列号: %d",
				msg.CommandName(), msg.Header.SequenceNumber))
		}
	}
}

// handleDeliverSM 处理短信投递：先回响应（回显对端序列号），再调用回调
func (s *Session) handleDeliverSM(msg *protocol.Message) {
	resp := protocol.CreateDeliverSMResponse(msg.Header.SequenceNumber, protocol.SMPP_ESME_ROK)
	if err := s.Send(resp); err != nil {
		logger.Error(fmt.Sprintf("发送deliver_sm_resp失败: %v", err))
	}

	s.getPushHandler()(msg)
}

// handleEnquireLink 处理链路查询：回显对端序列号
func (s *Session) handleEnquireLink(msg *protocol.Message) {
	resp := protocol.CreateEnquireLinkResponse(msg.Header.SequenceNumber)
	if err := s.Send(resp); err != nil {
		logger.Error(fmt.Sprintf("发送enquire_link_resp失败: %v", err))
		return
	}

	logger.Info(fmt.Sprintf("收到链路查询，序列号: %d", msg.Header.SequenceNumber))
}
