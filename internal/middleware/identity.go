package middleware

import (
	"context"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
)

// CustomClaims are the profile claims the Auth0 action adds to access tokens
type CustomClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

type contextKey string

const (
	ClaimsKey      contextKey = "claims"
	Auth0IDKey     contextKey = "auth0_id"
	WorkspaceIDKey contextKey = "workspace_id"
)

// ContextWithIdentity stores the caller on ctx. A zero workspaceID means the
// user has not finished first sign-in.
func ContextWithIdentity(ctx context.Context, claims *validator.ValidatedClaims, workspaceID int32) context.Context {
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	ctx = context.WithValue(ctx, Auth0IDKey, claims.RegisteredClaims.Subject)
	return context.WithValue(ctx, WorkspaceIDKey, workspaceID)
}

// GetAuth0ID returns the token subject, or "" outside an authenticated request
func GetAuth0ID(c echo.Context) string {
	id, _ := c.Request().Context().Value(Auth0IDKey).(string)
	return id
}

func GetClaims(c echo.Context) *validator.ValidatedClaims {
	claims, _ := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims)
	return claims
}

// GetCustomClaims returns the profile claims, nil when the token carried none
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	custom, _ := claims.CustomClaims.(*CustomClaims)
	return custom
}

// GetWorkspaceID returns the caller's workspace, 0 when none is provisioned
func GetWorkspaceID(c echo.Context) int32 {
	id, _ := c.Request().Context().Value(WorkspaceIDKey).(int32)
	return id
}
