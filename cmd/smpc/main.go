// cmd/smpc/main.go  smpc主程序
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smpc/api"
	"smpc/internal/client"
	"smpc/internal/config"
	"smpc/internal/database"
	"smpc/internal/dispatcher"
	"smpc/internal/performance"
	"smpc/pkg/logger"
)

var (
	configPath = flag.String("config", "config/config.yaml", "配置文件路径")
	version    = flag.Bool("version", false, "显示版本信息")
)

const appVersion = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("smpc version %s\n", appVersion)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logCfg := logger.DefaultConfig()
	logCfg.Level = config.LogLevelFromString(cfg.Log.Level)
	if cfg.Log.Output != "" {
		logCfg.Output = cfg.Log.Output
	}
	logCfg.FilePath = cfg.Log.LogFile
	if err := logger.InitWithConfig("smpc", logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	logger.Info(fmt.Sprintf("smpc启动，版本: %s, 配置文件: %s", appVersion, *configPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 数据库（可选）
	var store *database.MessageStore
	var dbManager *database.Manager
	if cfg.Database != nil {
		dbManager = database.NewManager(cfg.Database)
		if err := dbManager.Connect(); err != nil {
			logger.Warning(fmt.Sprintf("数据库连接失败，消息持久化已禁用: %v", err))
			dbManager = nil
		} else {
			if err := database.CreateTables(dbManager.DB()); err != nil {
				logger.Error(fmt.Sprintf("初始化数据表失败: %v", err))
			}
			store = database.NewMessageStore(dbManager.DB())
			logger.Info("数据库连接成功")
		}
	}

	// 消息分发器
	disp := dispatcher.NewMessageDispatcher(
		cfg.Dispatcher.QueueSize, cfg.Dispatcher.Workers, cfg.Dispatcher.Timeout)
	disp.RegisterHandler(dispatcher.NewLoggingHandler())
	if store != nil {
		disp.RegisterHandler(dispatcher.NewStorageHandler(store))
	}
	if err := disp.Start(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("启动消息分发器失败: %v", err))
	}

	// SMSC客户端
	smscClient, err := client.NewClient(cfg.SMSC)
	if err != nil {
		logger.Fatal(fmt.Sprintf("创建SMSC客户端失败: %v", err))
	}
	smscClient.SetDispatcher(disp)
	if err := smscClient.Start(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("连接SMSC失败: %v", err))
	}
	logger.Info(fmt.Sprintf("SMSC客户端已启动，状态: %s", smscClient.GetStatus()))

	// 资源监控
	var monitor *performance.Monitor
	if cfg.Performance != nil && cfg.Performance.Enabled {
		monitor = performance.NewMonitor(cfg.Performance)
		monitor.Start(ctx)
	}

	// Web管理服务
	var webServer *api.Server
	if cfg.Web.Enabled {
		webServer = api.NewServer(api.ServerConfig{
			ListenAddr: cfg.Web.ListenAddr,
			Username:   cfg.Web.Username,
			Password:   cfg.Web.Password,
			JWTSecret:  cfg.Web.JWTSecret,
			Debug:      cfg.Web.Debug,
		}, smscClient, disp, monitor, store)

		go func() {
			if err := webServer.Start(); err != nil {
				logger.Error(fmt.Sprintf("Web服务异常退出: %v", err))
			}
		}()
	}

	// 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info(fmt.Sprintf("收到信号 %v，开始关闭...", sig))

	// 按依赖顺序关闭
	if webServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := webServer.Stop(shutdownCtx); err != nil {
			logger.Error(fmt.Sprintf("关闭Web服务失败: %v", err))
		}
		shutdownCancel()
	}

	if _, err := smscClient.Unbind(); err != nil {
		logger.Warning(fmt.Sprintf("解绑失败: %v", err))
	}
	smscClient.Stop()

	if monitor != nil {
		monitor.Stop()
	}
	disp.Stop()

	if dbManager != nil {
		dbManager.Close()
	}

	cancel()
	logger.Info("smpc已退出")
}
