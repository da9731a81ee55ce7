package middleware

import (
	"net/http"

	"stagelink/models"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole admits only callers whose token carries one of the given roles.
// It must run after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role := c.GetString("role")
		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.APIResponse{
				Success: false, Error: "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// RequireOrganizer admits organizer accounts.
func RequireOrganizer() gin.HandlerFunc {
	return RequireRole(models.RoleOrganizer)
}

// RequireTalent admits talent accounts.
func RequireTalent() gin.HandlerFunc {
	return RequireRole(models.RoleTalent)
}

// RequireAdmin admits platform administrators.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
