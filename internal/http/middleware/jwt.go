package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"subspace_duel/internal/service"
)

const (
	CtxPlayerID = "player_id"
	CtxRole     = "role"
)

// JWT verifies the bearer token and stores player_id and role in the context.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := service.ParseJWT(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(CtxPlayerID, claims.PlayerID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole must run after JWT.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
