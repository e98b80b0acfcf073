// cmd/client_test/main.go  客户端联调工具，配合smsc_simulator使用
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"smpc/internal/client"
	"smpc/internal/protocol"
	"smpc/pkg/logger"
)

var (
	addr     = flag.String("addr", "127.0.0.1:2775", "SMSC地址")
	systemID = flag.String("system-id", "smpc-test", "系统ID")
	password = flag.String("password", "secret08", "密码")
	bindMode = flag.String("bind-mode", "transceiver", "绑定模式: transmitter/receiver/transceiver")
	dest     = flag.String("dest", "13800138000", "目的号码")
	text     = flag.String("text", "hello from smpc", "短信内容")
	count    = flag.Int("count", 3, "发送条数")
	waitTime = flag.Duration("wait", 30*time.Second, "发送完成后等待下行消息的时长")
)

func main() {
	flag.Parse()
	logger.Init("client_test")

	cfg := &client.Config{
		Address:         *addr,
		SystemID:        *systemID,
		Password:        *password,
		BindMode:        *bindMode,
		EnquireInterval: 10 * time.Second,
		ResponseTimeout: 5 * time.Second,
	}

	c, err := client.NewClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建客户端失败: %v\n", err)
		os.Exit(1)
	}

	c.SetPushHandler(func(msg *protocol.Message) {
		content, err := protocol.ParseDeliverSM(msg.Payload)
		if err != nil {
			logger.Warning(fmt.Sprintf("解析下行消息失败: %v", err))
			return
		}
		logger.Info(fmt.Sprintf("收到下行消息: %s -> %s: %s",
			content.SourceAddr, content.DestAddr, string(content.ShortMessage)))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "连接失败: %v\n", err)
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("已连接，状态: %s", c.GetStatus()))

	if *bindMode != client.BindModeReceiver {
		for i := 0; i < *count; i++ {
			params := &protocol.SubmitParams{
				SourceAddr:      *systemID,
				DestinationAddr: *dest,
				ShortMessage:    []byte(fmt.Sprintf("%s #%d", *text, i+1)),
			}
			resp, err := c.SubmitMessage(params)
			if err != nil {
				logger.Error(fmt.Sprintf("发送失败: %v", err))
				continue
			}
			messageID, _ := protocol.ParseSubmitSMResp(resp.Payload)
			logger.Info(fmt.Sprintf("发送成功 #%d, 消息ID: %s", i+1, messageID))
		}
	}

	if *waitTime > 0 && *bindMode != client.BindModeTransmitter {
		logger.Info(fmt.Sprintf("等待下行消息 %v...", *waitTime))
		time.Sleep(*waitTime)
	}

	if _, err := c.Unbind(); err != nil {
		logger.Warning(fmt.Sprintf("解绑失败: %v", err))
	}
	c.Stop()

	stats := c.GetStats()
	logger.Info(fmt.Sprintf("统计: 发送=%d, 接收=%d, 错误=%d, 重连=%d",
		stats["sent_messages"], stats["received_messages"], stats["errors"], stats["reconnect_count"]))
}
