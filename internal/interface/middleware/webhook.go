package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/invest-marketplace/pkg/response"
)

const WebhookTokenHeader = "X-Webhook-Token"

// WebhookToken admits requests carrying the shared secret in X-Webhook-Token.
// An empty secret rejects everything.
func WebhookToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(WebhookTokenHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			response.Fail(c, http.StatusUnauthorized, "invalid webhook token", nil)
			return
		}
		c.Next()
	}
}
