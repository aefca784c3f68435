package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/today-i-learned/backend/internal/auth"
	"github.com/today-i-learned/backend/internal/models"
)

// SessionCookie is the cookie carrying the identity token.
const SessionCookie = "til_session"

const userKey = "current_user"

// AuthMiddleware requires a valid identity token, from the Authorization
// header or the session cookie, and stores the identity on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You must log in first"})
			c.Abort()
			return
		}

		user, err := auth.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// OptionalAuth resolves an identity when a token is present but lets
// anonymous requests through.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFrom(c); token != "" {
			if user, err := auth.ParseToken(token); err == nil {
				c.Set(userKey, user)
				c.Set("user_id", user.ID)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the identity set by the middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, ok := v.(models.User)
	if !ok {
		return nil
	}
	return &user
}

func tokenFrom(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
