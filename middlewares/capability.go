package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/utils"
)

// RequireCapability lets the request through only when the caller's role may perform action.
func RequireCapability(action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		if role == "" {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}
		if !models.Can(role, action) {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("role %s is not allowed to %s", role, action))
			c.Abort()
			return
		}
		c.Next()
	}
}
