package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/invest-marketplace/pkg/helpers"
	"github.com/oksasatya/invest-marketplace/pkg/response"
)

// Auth validates the access token and, when rdb is set, requires the token's
// session to be the one stored in Redis. It sets userID, userRole and
// sessionID in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		if rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), helpers.SessionKey(claims.UserID)).Result()
			if err != nil || len(data) == 0 {
				response.Fail(c, http.StatusUnauthorized, "session not found", nil)
				return
			}
			if data["sid"] != claims.SessionID {
				response.Fail(c, http.StatusUnauthorized, "session expired", nil)
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserRoleKey, claims.Role)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Next()
	}
}
