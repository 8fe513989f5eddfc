package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-auth-system/pkg/helpers"
	"github.com/oksasatya/go-auth-system/pkg/response"
)

// Auth validates the session token and ensures an active session exists in
// Redis. It sets userID, username, and userEmail in the Gin context on
// success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("session_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}
		username, err := jwt.ValidateSessionToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid session token", nil)
			c.Abort()
			return
		}

		// Retrieve session from Redis as a hash
		key := "user:session:" + username
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set("userID", data["user_id"]) // required by handlers
		c.Set("username", data["username"])
		c.Set("userEmail", data["email"])
		c.Next()
	}
}
