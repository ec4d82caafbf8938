package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/invest-marketplace/internal/container"
	handlers "github.com/oksasatya/invest-marketplace/internal/interface/http"
	"github.com/oksasatya/invest-marketplace/internal/interface/middleware"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

type InvestmentModule struct {
	Handler *handlers.DealHandler
	JWT     *helpers.JWTManager
}

func NewInvestmentModule(h *handlers.DealHandler, jwt *helpers.JWTManager) *InvestmentModule {
	return &InvestmentModule{Handler: h, JWT: jwt}
}

func (m *InvestmentModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	auth := rg.Group("/investment")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		// investor side
		auth.POST("/investor", m.Handler.Propose)
		auth.PATCH("/investor/:id", m.Handler.Amend)
		auth.GET("/investor", m.Handler.ListMine)

		// company side
		auth.GET("/company/:company_id", m.Handler.ListForCompany)
		auth.PATCH("/company/:id/respond", m.Handler.Respond)
	}
}
