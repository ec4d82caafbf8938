package router

import (
	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/internal/container"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
	pginfra "github.com/oksasatya/invest-marketplace/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/invest-marketplace/internal/interface/http"
	"github.com/oksasatya/invest-marketplace/internal/router/modules"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

// Deps holds the services built from the container singletons.
type Deps struct {
	Store         repository.Store
	Core          *application.Core
	Identity      *application.IdentityService
	Companies     *application.CompanyService
	Ownership     *application.OwnershipService
	Deals         *application.DealService
	Subscriptions *application.SubscriptionService
	Notifications *application.NotificationService
	Content       *application.ContentService
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	store := pginfra.NewStore(container.GetPGPool())

	var pub application.EmailPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	core := application.NewCore(store, pub, cfg, container.GetLogger())
	core.Cache = container.GetRedis()
	if up := helpers.NewGCSUploader(container.GetGCS(), cfg.GCSBucket); up != nil {
		core.Uploader = up
	}

	return Deps{
		Store:         store,
		Core:          core,
		Identity:      application.NewIdentityService(core, container.GetJWT()),
		Companies:     application.NewCompanyService(core),
		Ownership:     application.NewOwnershipService(core),
		Deals:         application.NewDealService(core),
		Subscriptions: application.NewSubscriptionService(core),
		Notifications: application.NewNotificationService(core),
		Content:       application.NewContentService(core),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	d := buildDeps()
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(d.Identity, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Identity, logger), jwt))
	r.Add(modules.NewCompanyModule(
		handlers.NewCompanyHandler(d.Companies, logger),
		handlers.NewOwnershipHandler(d.Ownership, logger),
		handlers.NewContentHandler(d.Content, logger),
		jwt,
	))
	r.Add(modules.NewInvestmentModule(handlers.NewDealHandler(d.Deals, logger), jwt))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(d.Notifications, logger), jwt))
	r.Add(modules.NewPaymentModule(handlers.NewPaymentHandler(d.Subscriptions, logger), cfg.WebhookToken))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
