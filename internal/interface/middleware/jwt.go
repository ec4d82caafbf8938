package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

// Context keys set by Auth.
const (
	CtxUserIDKey    = "userID"
	CtxUserRoleKey  = "userRole"
	CtxSessionIDKey = "sessionID"
)

// accessToken reads the bearer token from the Authorization header and falls
// back to the access_token cookie.
func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil {
		return tok
	}
	return ""
}
