package middleware

import (
	"digital_literacy_backend/internal/config"
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/util"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the claims on the context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(parts[1], cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}

// RoleMiddleware restricts a route group to the given roles. Admins pass
// regardless of the list.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("userRole")
		if !exists {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		role := roleVal.(model.UserRole)
		if role == model.Admin {
			c.Next()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		util.Forbidden(c)
		c.Abort()
	}
}

// ActivityRecorder receives last-seen updates for authenticated users.
type ActivityRecorder interface {
	Touch(userID uint, at time.Time)
}

func ActivityMiddleware(rec ActivityRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if id, exists := c.Get("userID"); exists {
			rec.Touch(id.(uint), time.Now())
		}
	}
}
