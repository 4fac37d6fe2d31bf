package middleware

import (
	"net/http"
	"strings"

	"neatly/config"
	"neatly/models"
	"neatly/utils"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware admits either a JWT carrying the admin role or the
// static operations token from config. The static token maps to a synthetic
// "ops" admin so audit entries always have an actor.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if config.AppConfig.AdminToken != "" && tokenString == config.AppConfig.AdminToken {
			c.Set(actorContextKey, models.Actor{ID: "ops", Role: models.RoleAdmin})
			c.Next()
			return
		}

		subject, role, err := utils.ExtractPrincipal(tokenString)
		if err != nil || models.Role(role) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set(actorContextKey, models.Actor{ID: subject, Role: models.RoleAdmin})
		c.Next()
	}
}
