package middleware

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
)

const (
	jwksCacheTTL = 5 * time.Minute
	clockSkew    = time.Minute
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errHeaderFormat  = errors.New("invalid authorization header format")
)

// WorkspaceProvider resolves the workspace owned by an Auth0 subject
type WorkspaceProvider interface {
	GetWorkspaceByAuth0ID(ctx context.Context, auth0ID string) (workspaceID int32, err error)
}

// TokenValidator validates a raw bearer token. *validator.Validator satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// AuthMiddleware authenticates API requests against Auth0
type AuthMiddleware struct {
	validator  TokenValidator
	workspaces WorkspaceProvider
}

// NewAuth0Validator builds an RS256 validator for the tenant backed by a cached JWKS.
// The same instance also authenticates WebSocket upgrades.
func NewAuth0Validator(domain, audience string) (*validator.Validator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL)
	return validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &CustomClaims{} }),
		validator.WithAllowedClockSkew(clockSkew),
	)
}

// NewAuthMiddleware creates an AuthMiddleware. workspaces may be nil, in which
// case no workspace is attached to the request.
func NewAuthMiddleware(v TokenValidator, workspaces WorkspaceProvider) *AuthMiddleware {
	return &AuthMiddleware{validator: v, workspaces: workspaces}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", errHeaderFormat
	}
	return token, nil
}

// Authenticate validates the bearer token and attaches the caller's identity.
// A user without a workspace yet is let through so /auth/callback can provision one;
// workspace-scoped handlers reject them.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return unauthorizedError(c, err.Error())
			}

			ctx := c.Request().Context()
			raw, err := m.validator.ValidateToken(ctx, token)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("Token validation failed")
				return unauthorizedError(c, "invalid token")
			}
			claims, ok := raw.(*validator.ValidatedClaims)
			if !ok {
				return unauthorizedError(c, "invalid claims")
			}

			workspaceID, err := m.lookupWorkspace(ctx, claims.RegisteredClaims.Subject)
			if err != nil {
				log.Debug().Err(err).Str("auth0_id", claims.RegisteredClaims.Subject).Msg("Workspace lookup failed")
				return unauthorizedError(c, "workspace not found")
			}

			c.SetRequest(c.Request().WithContext(ContextWithIdentity(ctx, claims, workspaceID)))
			return next(c)
		}
	}
}

// lookupWorkspace returns 0 without error for a user who has not signed in before
func (m *AuthMiddleware) lookupWorkspace(ctx context.Context, auth0ID string) (int32, error) {
	if m.workspaces == nil {
		return 0, nil
	}
	workspaceID, err := m.workspaces.GetWorkspaceByAuth0ID(ctx, auth0ID)
	if errors.Is(err, domain.ErrWorkspaceNotFound) {
		return 0, nil
	}
	return workspaceID, err
}
