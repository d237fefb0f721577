package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yogapratama/dinein-app/utils"
)

// AuthMiddleware requires a valid token and stores its claims on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseSessionToken(tokenString)
		if err != nil || claims == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("session_id", claims.SessionID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// GuestTokenMiddleware is a lighter guard for guest endpoints: it parses the
// token when present so handlers can fall back to the session claim, but
// lets unauthenticated bodies through (the handler validates session_id).
func GuestTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := utils.ParseSessionToken(tokenString); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("session_id", claims.SessionID)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}
