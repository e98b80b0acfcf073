// api/handlers/auth.go  登录认证
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"smpc/api/middleware"
	"smpc/pkg/logger"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	username string
	password string
	jwtCfg   middleware.JWTConfig
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(username, password string, jwtCfg middleware.JWTConfig) *AuthHandler {
	return &AuthHandler{
		username: username,
		password: password,
		jwtCfg:   jwtCfg,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录，校验通过后签发JWT令牌
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数错误",
		})
		return
	}

	if req.Username != h.username || req.Password != h.password {
		logger.Warning(fmt.Sprintf("登录失败，用户名: %s, 来源: %s", req.Username, c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "用户名或密码错误",
		})
		return
	}

	token, err := middleware.GenerateToken(req.Username, "admin", h.jwtCfg.SecretKey, h.jwtCfg.TokenExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "生成令牌失败",
		})
		return
	}

	logger.Info(fmt.Sprintf("用户登录成功: %s", req.Username))
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": req.Username,
	})
}
