package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

const (
	CtxStaffID  = "staff_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxToken    = "token"
)

// AuthMiddleware accepts "Authorization: Bearer <jwt>" or, for websocket
// upgrades where browsers cannot set headers, a ?token= query parameter.
func AuthMiddleware(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if header := c.GetHeader("Authorization"); header != "" {
			if !strings.HasPrefix(header, "Bearer ") {
				utils.RespondError(c, http.StatusUnauthorized, errors.New("format token tidak valid"))
				c.Abort()
				return
			}
			tokenString = strings.TrimPrefix(header, "Bearer ")
		} else {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}

		claims, err := issuer.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if claims.StaffID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid staff ID in token"))
			c.Abort()
			return
		}

		c.Set(CtxStaffID, claims.StaffID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxToken, tokenString)
		c.Request = c.Request.WithContext(services.WithActor(c.Request.Context(), claims.StaffID))

		c.Next()
	}
}
