package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mezshop/shop-api/internal/container"
	handlers "github.com/mezshop/shop-api/internal/interface/http"
	"github.com/mezshop/shop-api/internal/interface/middleware"
)

// AuthModule wires signup, login, logout, and the password reset flow.
type AuthModule struct {
	handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	allow := middleware.AllowPrivateIP()

	// Credential endpoints get tight per-IP limits to slow brute force.
	rg.POST("/signup",
		middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), allow),
		m.handler.Signup)
	rg.POST("/login",
		middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), allow),
		m.handler.Login)

	rg.POST("/reset",
		middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), allow),
		m.handler.RequestReset)
	rg.GET("/reset/:token",
		middleware.RateLimit(rdb, 20, time.Minute, middleware.KeyByIPAndPath(), allow),
		m.handler.CheckResetToken)
	rg.POST("/new-password",
		middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), allow),
		m.handler.CompleteReset)

	authed := rg.Group("")
	authed.Use(middleware.RequireUser())
	authed.POST("/logout", m.handler.Logout)
	authed.GET("/me", m.handler.Me)
}
