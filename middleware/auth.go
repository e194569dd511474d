package middleware

import (
	"net/http"
	"strings"

	"clinicore/models"
	"clinicore/services/admin"
	"clinicore/services/scheduling"
	"clinicore/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxAdminKey = "currentAdmin"
)

// AuthMiddleware resolves the bearer token to its admin and stores the admin
// on the request context. Token validity alone is not enough: the stored
// session hash must match, so a logout revokes the token immediately.
func AuthMiddleware(auth admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Missing or malformed Authorization header", "")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		current, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Invalid or revoked session", err.Error())
			c.Abort()
			return
		}

		c.Set(ctxAdminKey, current)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := CurrentAdmin(c)
		if current == nil {
			utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Authentication required", "")
			c.Abort()
			return
		}
		for _, role := range roles {
			if current.Role == role {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Insufficient privileges", "")
		c.Abort()
	}
}

// CurrentAdmin returns the authenticated admin, or nil on public routes.
func CurrentAdmin(c *gin.Context) *models.Admin {
	v, ok := c.Get(ctxAdminKey)
	if !ok {
		return nil
	}
	current, ok := v.(*models.Admin)
	if !ok {
		return nil
	}
	return current
}

// ActorFromContext builds the audit actor for the current request. Public
// requests yield the zero actor.
func ActorFromContext(c *gin.Context) scheduling.Actor {
	current := CurrentAdmin(c)
	if current == nil {
		return scheduling.Actor{}
	}
	return scheduling.Actor{ID: current.ID, Name: current.FullName()}
}
