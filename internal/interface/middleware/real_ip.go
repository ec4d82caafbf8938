package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey holds the resolved client address used for rate limiting.
const CtxRealIPKey = "real_ip"

// RealIP resolves the client IP once per request. CF-Connecting-IP wins, then
// X-Real-IP, then the left-most X-Forwarded-For entry, then c.ClientIP().
// Header values that do not parse as an IP are ignored.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, resolveIP(c))
		c.Next()
	}
}

func resolveIP(c *gin.Context) string {
	candidates := []string{
		c.GetHeader("CF-Connecting-IP"),
		c.GetHeader("X-Real-IP"),
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidates = append(candidates, first)
	}
	for _, raw := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(raw)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
