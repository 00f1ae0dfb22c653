package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/view"
)

const (
	ContextUserID = "auth_user_id"
	ContextRole   = "auth_role"
)

// RoleLookup returns the role currently stored for a user.
type RoleLookup func(ctx context.Context, userID string) (model.UserRole, error)

// RequireAuth rejects requests without a valid bearer token and stores the
// caller in the gin context. A token claiming a staff role is checked against
// lookup so a demotion takes effect before the token expires; a nil lookup
// trusts the claim.
func RequireAuth(tokens *TokenManager, lookup RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			abort(c, http.StatusUnauthorized, model.ErrUnauthorized)
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, model.ErrUnauthorized)
			return
		}

		role := claims.Role
		if lookup != nil && model.IsStaffRole(role) {
			role, err = lookup(c.Request.Context(), claims.UserID)
			if errors.Is(err, model.ErrNotFound) {
				abort(c, http.StatusUnauthorized, model.ErrUnauthorized)
				return
			}
			if err != nil {
				abort(c, http.StatusInternalServerError, errors.New("internal server error"))
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, model.ErrForbidden)
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func Role(c *gin.Context) model.UserRole {
	if v, ok := c.Get(ContextRole); ok {
		if role, ok := v.(model.UserRole); ok {
			return role
		}
	}
	return ""
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, view.CreateResponse[any](nil, err, nil, ""))
}
