package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrWorkspaceNotFound is returned when workspace lookup fails
var ErrWorkspaceNotFound = errors.New("workspace not found")

// WorkspaceLookup resolves the workspace of an Auth0 subject
type WorkspaceLookup interface {
	GetWorkspaceByAuth0ID(ctx context.Context, auth0ID string) (workspaceID int32, err error)
}

// TokenValidator validates a raw JWT. *validator.Validator satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// TokenAuthenticator resolves the workspace behind a WebSocket token.
// Browsers cannot set headers on the upgrade request, so the token arrives as a query param.
type TokenAuthenticator struct {
	validator  TokenValidator
	workspaces WorkspaceLookup
}

// NewTokenAuthenticator creates a TokenAuthenticator
func NewTokenAuthenticator(v TokenValidator, workspaces WorkspaceLookup) *TokenAuthenticator {
	return &TokenAuthenticator{validator: v, workspaces: workspaces}
}

// ValidateToken validates a JWT and returns the caller's workspace ID
func (a *TokenAuthenticator) ValidateToken(ctx context.Context, token string) (int32, error) {
	claims, err := a.validator.ValidateToken(ctx, token)
	if err != nil {
		return 0, ErrInvalidToken
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok || validated.RegisteredClaims.Subject == "" {
		return 0, ErrInvalidToken
	}

	workspaceID, err := a.workspaces.GetWorkspaceByAuth0ID(ctx, validated.RegisteredClaims.Subject)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWorkspaceNotFound, err)
	}
	return workspaceID, nil
}
