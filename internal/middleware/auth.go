package middleware

import (
	"context"
	"strings"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/policy"
	"github.com/Abhishek40905/ancome-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextUser     = "user"

	// AccessTokenCookie carries the session JWT set by the login callback.
	AccessTokenCookie = "access_token"
)

// Authenticator resolves a session token to the current user record.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// TokenFromRequest returns the session token from the access_token cookie,
// falling back to an "Authorization: Bearer" header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthRequired rejects requests without a valid session and stores the
// freshly loaded user in the context.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUsername, user.Username)
		c.Set(ContextRole, user.GlobalRole)

		c.Next()
	}
}

// SuperAdminRequired must run after AuthRequired.
func SuperAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.CanActAsPlatformAdmin(GetActor(c)) {
			response.Forbidden(c, "super admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUser returns the authenticated user, or nil.
func GetUser(c *gin.Context) *models.User {
	if v, exists := c.Get(ContextUser); exists {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// GetActor returns the identity acting on the current request.
func GetActor(c *gin.Context) policy.Actor {
	return policy.Actor{UserID: GetUserID(c), GlobalRole: GetRole(c)}
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetUsername gets the current username from context
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// GetRole gets the current user role from context
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}
