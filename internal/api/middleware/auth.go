package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/config"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/linskybing/orgflow/pkg/response"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/linskybing/orgflow/pkg/utils"
)

// Auth handles authorization middleware
type Auth struct {
	repos *repository.Repos
}

// NewAuth creates a new Auth middleware instance
func NewAuth(repos *repository.Repos) *Auth {
	return &Auth{repos: repos}
}

// Identity resolves the token's user into a member of the token's group. The
// role is read on every request, so role changes apply without a new token.
func (a *Auth) Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := utils.GetClaimsFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Invalid token claims"})
			return
		}

		member, err := a.repos.Member.GetMember(c.Request.Context(), claims.GroupID, claims.UserID)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "not a member of this group"})
				return
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(utils.CallerKey, types.Caller{
			UserID:    claims.UserID,
			MemberID:  member.ID,
			GroupID:   member.GroupID,
			Role:      member.Role,
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
		c.Next()
	}
}

// Admin allows only callers whose role is one of the configured admin roles.
func (a *Auth) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := utils.GetCallerFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
			return
		}
		if !config.IsAdminRole(caller.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "admin only"})
			return
		}
		c.Next()
	}
}
