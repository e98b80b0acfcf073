// api/server.go  Web管理服务
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"smpc/api/handlers"
	"smpc/api/middleware"
	"smpc/api/routes"
	"smpc/internal/client"
	"smpc/internal/database"
	"smpc/internal/dispatcher"
	"smpc/internal/performance"
	"smpc/pkg/logger"
)

// ServerConfig Web服务配置
type ServerConfig struct {
	ListenAddr string
	Username   string
	Password   string
	JWTSecret  string
	Debug      bool
}

// Server Web管理服务
type Server struct {
	config     ServerConfig
	engine     *gin.Engine
	httpServer *http.Server
}

// NewServer 创建Web管理服务
func NewServer(cfg ServerConfig, c *client.Client, d *dispatcher.MessageDispatcher,
	m *performance.Monitor, store *database.MessageStore) *Server {

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtCfg := middleware.DefaultJWTConfig()
	if cfg.JWTSecret != "" {
		jwtCfg.SecretKey = cfg.JWTSecret
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	routes.SetupRoutes(engine, routes.Handlers{
		Auth:     handlers.NewAuthHandler(cfg.Username, cfg.Password, jwtCfg),
		Session:  handlers.NewSessionHandler(c),
		Stats:    handlers.NewStatsHandler(c, d, m),
		Messages: handlers.NewMessagesHandler(store),
	}, jwtCfg)

	return &Server{
		config: cfg,
		engine: engine,
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Start 启动Web服务，阻塞直到服务退出
func (s *Server) Start() error {
	logger.Info(fmt.Sprintf("Web管理服务启动，监听地址: %s", s.config.ListenAddr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("Web服务启动失败: %v", err)
	}
	return nil
}

// Stop 优雅关闭Web服务
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("Web管理服务正在关闭...")
	return s.httpServer.Shutdown(ctx)
}
