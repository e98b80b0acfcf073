// api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey     string
	TokenExpiry   time.Duration
	TokenHeadName string
}

// DefaultJWTConfig 默认JWT配置
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:     "smpc-jwt-secret-key",
		TokenExpiry:   24 * time.Hour,
		TokenHeadName: "Bearer",
	}
}

// JWTClaims JWT声明
type JWTClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

// JWTAuth JWT认证中间件
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 登录接口放行
		if c.FullPath() == "/api/auth/login" {
			c.Next()
			return
		}

		token := extractToken(c, cfg.TokenHeadName)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "未授权，需要登录",
			})
			c.Abort()
			return
		}

		claims, err := validateToken(token, cfg.SecretKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "无效的令牌或令牌已过期",
			})
			c.Abort()
			return
		}

		// 设置用户信息到上下文
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// extractToken 从请求头或查询参数提取token
func extractToken(c *gin.Context, headName string) string {
	header := c.GetHeader("Authorization")
	if len(header) > len(headName)+1 && strings.EqualFold(header[:len(headName)], headName) {
		return header[len(headName)+1:]
	}

	return c.Query("token")
}

// validateToken 验证token
func validateToken(tokenString, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// GenerateToken 生成JWT令牌
func GenerateToken(username, role, secret string, expiry time.Duration) (string, error) {
	claims := JWTClaims{
		Username: username,
		Role:     role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(expiry).Unix(),
			IssuedAt:  time.Now().Unix(),
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
