package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/invest-marketplace/internal/interface/http"
	"github.com/oksasatya/invest-marketplace/internal/interface/middleware"
)

// PaymentModule receives the payment provider's webhook. It sits outside the
// JWT middleware and is guarded by the shared secret instead.
type PaymentModule struct {
	Handler *handlers.PaymentHandler
	Secret  string
}

func NewPaymentModule(h *handlers.PaymentHandler, secret string) *PaymentModule {
	return &PaymentModule{Handler: h, Secret: secret}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", middleware.WebhookToken(m.Secret), m.Handler.Webhook)
}
