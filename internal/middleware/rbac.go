package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/response"
)

// RequireRoles allows the request through when the caller holds one of roles.
// Claims without a role are treated as EMPLOYEE.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		role := claims.Role
		if role == "" {
			role = models.RoleEmployee
		}
		if _, ok := allowed[role]; !ok {
			response.Abort(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}
