// api/routes/routes.go  API路由注册
package routes

import (
	"github.com/gin-gonic/gin"

	"smpc/api/handlers"
	"smpc/api/middleware"
)

// Handlers 路由需要的处理器集合
type Handlers struct {
	Auth     *handlers.AuthHandler
	Session  *handlers.SessionHandler
	Stats    *handlers.StatsHandler
	Messages *handlers.MessagesHandler
}

// SetupRoutes 注册API路由
func SetupRoutes(engine *gin.Engine, h Handlers, jwtCfg middleware.JWTConfig) {
	engine.Use(middleware.Logger())

	api := engine.Group("/api")
	api.Use(middleware.JWTAuth(jwtCfg))
	{
		api.POST("/auth/login", h.Auth.Login)

		api.GET("/session/status", h.Session.Status)
		api.GET("/session/history", h.Session.History)

		api.GET("/stats", h.Stats.Stats)

		api.GET("/messages/recent", h.Messages.Recent)
	}
}
