// cmd/smsc_simulator/main.go  SMSC模拟器，用于本地联调
package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"smpc/internal/protocol"
	"smpc/internal/transport"
	"smpc/pkg/logger"
)

var (
	listenAddr    = flag.String("listen", ":2775", "监听地址")
	deliverPeriod = flag.Duration("deliver-interval", 10*time.Second, "下行消息推送间隔，0表示不推送")
)

func main() {
	flag.Parse()
	logger.Init("smsc_simulator")

	listener, err := net.Listen("tcp", *listenAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "监听失败: %v\n", err)
		os.Exit(1)
	}
	defer listener.Close()

	logger.Info(fmt.Sprintf("SMSC模拟器启动，监听地址: %s", *listenAddr))

	for {
		conn, err := listener.Accept()
		if err != nil {
			logger.Error(fmt.Sprintf("接受连接失败: %v", err))
			continue
		}
		go handleConnection(conn)
	}
}

// handleConnection 处理一条ESME连接的完整生命周期
func handleConnection(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	logger.Info(fmt.Sprintf("新连接: %s", remote))

	fc := transport.NewFrameConn(conn, 5*time.Second)
	defer fc.Close()

	var bound int32
	var serverSeq uint32 = 1000
	var deliverStop chan struct{}

	for {
		frame, err := fc.ReadFrame(100 * time.Millisecond)
		if err != nil {
			if errors.Is(err, transport.ErrReadTimeout) {
				continue
			}
			if errors.Is(err, transport.ErrEndOfStream) {
				logger.Info(fmt.Sprintf("对端断开: %s", remote))
			} else {
				logger.Error(fmt.Sprintf("读取消息失败: %v", err))
			}
			break
		}

		msg, err := protocol.ParseMessage(frame)
		if err != nil {
			logger.Warning(fmt.Sprintf("无法解析的消息，回复generic_nack: %v", err))
			nack := protocol.CreateGenericNack(0, protocol.SMPP_ESME_RINVCMDID)
			fc.WriteFrame(nack.Bytes())
			continue
		}

		logger.Debug(fmt.Sprintf("收到 %s, 序列号=%d", msg.CommandName(), msg.Header.SequenceNumber))

		switch msg.Header.CommandID {
		case protocol.BIND_TRANSMITTER, protocol.BIND_RECEIVER, protocol.BIND_TRANSCEIVER:
			systemID, _, perr := protocol.ParseBindRequest(msg.Payload)
			status := uint32(protocol.SMPP_ESME_ROK)
			if perr != nil {
				status = protocol.SMPP_ESME_RINVSYSID
			}
			resp := protocol.CreateBindResponse(
				msg.Header.CommandID|protocol.RESPONSE_BIT,
				msg.Header.SequenceNumber, status, "SMSC-SIM")
			fc.WriteFrame(resp.Bytes())

			if status == protocol.SMPP_ESME_ROK {
				logger.Info(fmt.Sprintf("绑定成功: %s (%s)", systemID, msg.CommandName()))
				atomic.StoreInt32(&bound, 1)

				// 收发和接收模式下周期性推送deliver_sm
				if *deliverPeriod > 0 && deliverStop == nil &&
					msg.Header.CommandID != protocol.BIND_TRANSMITTER {
					deliverStop = make(chan struct{})
					go deliverLoop(fc, &serverSeq, &bound, deliverStop)
				}
			}

		case protocol.SUBMIT_SM:
			messageID := fmt.Sprintf("sim-%d", msg.Header.SequenceNumber)
			resp := protocol.CreateSubmitSMResponse(msg.Header.SequenceNumber, protocol.SMPP_ESME_ROK, messageID)
			fc.WriteFrame(resp.Bytes())

		case protocol.ENQUIRE_LINK:
			resp := protocol.CreateEnquireLinkResponse(msg.Header.SequenceNumber)
			fc.WriteFrame(resp.Bytes())

		case protocol.ENQUIRE_LINK_RESP, protocol.DELIVER_SM_RESP:
			// 对端响应，不需要处理

		case protocol.UNBIND:
			resp := protocol.CreateUnbindResponse(msg.Header.SequenceNumber, protocol.SMPP_ESME_ROK)
			fc.WriteFrame(resp.Bytes())
			logger.Info(fmt.Sprintf("解绑: %s", remote))
			atomic.StoreInt32(&bound, 0)

		default:
			nack := protocol.CreateGenericNack(msg.Header.SequenceNumber, protocol.SMPP_ESME_RINVCMDID)
			fc.WriteFrame(nack.Bytes())
		}
	}

	if deliverStop != nil {
		close(deliverStop)
	}
}

// deliverLoop 周期性向ESME推送deliver_sm
func deliverLoop(fc *transport.FrameConn, seq *uint32, bound *int32, stop chan struct{}) {
	ticker := time.NewTicker(*deliverPeriod)
	defer ticker.Stop()

	counter := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if atomic.LoadInt32(bound) != 1 {
				continue
			}

			counter++
			content := &protocol.DeliverContent{
				SourceAddr:   "10690000",
				DestAddr:     "13800138000",
				DataCoding:   0x00,
				ShortMessage: []byte(fmt.Sprintf("simulator message %d", counter)),
			}
			msg := protocol.NewDeliverSM(atomic.AddUint32(seq, 1), content)
			if err := fc.WriteFrame(msg.Bytes()); err != nil {
				logger.Error(fmt.Sprintf("推送deliver_sm失败: %v", err))
				return
			}
			logger.Info(fmt.Sprintf("已推送deliver_sm #%d", counter))
		}
	}
}
