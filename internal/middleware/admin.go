package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
)

// RoleChecker answers whether an account holds the admin role
type RoleChecker interface {
	IsAdmin(ctx context.Context, accountID string) (bool, error)
}

// Redirect targets of the admin gate
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// RequireAdminRole lets only admins through. Everyone else is redirected
// with no body: anonymous callers to the login page, signed-in accounts to
// their dashboard. Role lookup failures count as "not an admin".
func RequireAdminRole(checker RoleChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := GetAccountID(c)
		if accountID == "" {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}

		isAdmin, err := checker.IsAdmin(c.Request.Context(), accountID)
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("account_id", accountID).Msg("admin role lookup failed")
		}
		if err != nil || !isAdmin {
			c.Redirect(http.StatusSeeOther, DashboardPath)
			c.Abort()
			return
		}

		c.Next()
	}
}
