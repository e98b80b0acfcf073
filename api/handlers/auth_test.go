package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"smpc/api/middleware"
)

func newLoginRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler("admin", "admin123", middleware.DefaultJWTConfig())
	engine := gin.New()
	engine.POST("/api/auth/login", h.Login)
	return engine
}

func postLogin(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestLoginSuccess(t *testing.T) {
	w := postLogin(newLoginRouter(), `{"username":"admin","password":"admin123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}

func TestLoginWrongPassword(t *testing.T) {
	w := postLogin(newLoginRouter(), `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginBadRequest(t *testing.T) {
	w := postLogin(newLoginRouter(), `{"username":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
