package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/invest-marketplace/internal/container"
	handlers "github.com/oksasatya/invest-marketplace/internal/interface/http"
	"github.com/oksasatya/invest-marketplace/internal/interface/middleware"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
	}
}
