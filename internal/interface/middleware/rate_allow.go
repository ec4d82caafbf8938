package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP exempts loopback and private-range clients (internal
// scrapers, health checks) from a rate limit.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(clientIP(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}
