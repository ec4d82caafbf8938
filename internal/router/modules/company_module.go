package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/invest-marketplace/internal/container"
	handlers "github.com/oksasatya/invest-marketplace/internal/interface/http"
	"github.com/oksasatya/invest-marketplace/internal/interface/middleware"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

// CompanyModule groups everything under /api/company: the profile itself,
// its owners, documents and growth rates.
type CompanyModule struct {
	Companies *handlers.CompanyHandler
	Owners    *handlers.OwnershipHandler
	Content   *handlers.ContentHandler
	JWT       *helpers.JWTManager
}

func NewCompanyModule(companies *handlers.CompanyHandler, owners *handlers.OwnershipHandler, content *handlers.ContentHandler, jwt *helpers.JWTManager) *CompanyModule {
	return &CompanyModule{Companies: companies, Owners: owners, Content: content, JWT: jwt}
}

func (m *CompanyModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	auth := rg.Group("/company")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Companies.Register)
		auth.GET("/filter", m.Companies.Filter)
		auth.GET("/:id", m.Companies.Get)
		auth.PUT("/:id/avatar", m.Companies.UploadAvatar)

		auth.GET("/:id/owners", m.Owners.ListOwners)
		auth.POST("/owners/invite", m.Owners.Invite)
		auth.POST("/owners/:rel_id/accept", m.Owners.Accept)
		auth.DELETE("/owners/:rel_id", m.Owners.Reject)

		auth.POST("/document", m.Content.AddDocument)
		auth.DELETE("/document/:id", m.Content.DeleteDocument)
		auth.GET("/document/:company_id", m.Content.ListDocuments)
		auth.POST("/rates/:company_id", m.Content.SaveRates)
		auth.GET("/rates/:company_id", m.Content.ListRates)
	}
}
