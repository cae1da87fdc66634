package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogsterhq/blogster/models"
	"github.com/blogsterhq/blogster/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUserEmailKey stores the email inside Gin context.
	ContextUserEmailKey = "user_email"
	// ContextUserRoleKey stores the role inside Gin context.
	ContextUserRoleKey = "user_role"
	// ContextSessionTokenKey stores the raw session token for logout revocation.
	ContextSessionTokenKey = "session_token"
)

// AuthRequired ensures the request carries a valid, unrevoked session cookie.
// Requests without one are rejected before the handler runs.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(utils.SessionCookieName)
		if err != nil || token == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "login required")
			ctx.Abort()
			return
		}

		if utils.IsSessionRevoked(token) {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "session expired")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseSession(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "invalid session")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUserEmailKey, claims.Email)
		ctx.Set(ContextUserRoleKey, claims.Role)
		ctx.Set(ContextSessionTokenKey, token)
		ctx.Next()
	}
}

// AdminRequired restricts a route to admin accounts. It composes with
// AuthRequired, which must run first; the check fails hard with 403 and the
// handler never executes.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role, exists := ctx.Get(ContextUserRoleKey)
		if !exists || role != models.RoleAdmin {
			utils.Error(ctx, http.StatusForbidden, 40301, "admin access required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentUserID returns the authenticated user's ID from the context.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
