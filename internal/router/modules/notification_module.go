package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/invest-marketplace/internal/container"
	handlers "github.com/oksasatya/invest-marketplace/internal/interface/http"
	"github.com/oksasatya/invest-marketplace/internal/interface/middleware"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

type NotificationModule struct {
	Handler *handlers.NotificationHandler
	JWT     *helpers.JWTManager
}

func NewNotificationModule(h *handlers.NotificationHandler, jwt *helpers.JWTManager) *NotificationModule {
	return &NotificationModule{Handler: h, JWT: jwt}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	auth := rg.Group("/notification")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("", m.Handler.Feed)
		auth.POST("", m.Handler.Create)
		auth.PATCH("/:id/seen", m.Handler.MarkSeen)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
