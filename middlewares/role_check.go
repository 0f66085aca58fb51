package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

// RoleCheck lets the request through only when the token's role is one of
// roles. It must run after AuthMiddleware.
func RoleCheck(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(CtxRole)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		userRole, err := models.ParseRole(fmt.Sprint(value))
		if err == nil {
			for _, r := range roles {
				if r == userRole {
					c.Next()
					return
				}
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", roleList(roles)))
		c.Abort()
	}
}

func roleList(roles []models.Role) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += "/"
		}
		out += string(r)
	}
	return out
}
