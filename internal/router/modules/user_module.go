package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/invest-marketplace/internal/container"
	handlers "github.com/oksasatya/invest-marketplace/internal/interface/http"
	"github.com/oksasatya/invest-marketplace/internal/interface/middleware"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

// UserModule serves the caller's own account:
// GET /api/user/token-valid, GET /api/user/profile, PUT /api/user/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	auth := rg.Group("/user")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/token-valid", m.Handler.TokenValid)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/avatar", middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByUserID(), nil), m.Handler.UploadAvatar)
	}
}
