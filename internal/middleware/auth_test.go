package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
)

type fakeValidator struct {
	claims interface{}
	err    error
	token  string
}

func (f *fakeValidator) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	f.token = token
	return f.claims, f.err
}

type fakeWorkspaceProvider struct {
	workspaceID int32
	err         error
}

func (f *fakeWorkspaceProvider) GetWorkspaceByAuth0ID(ctx context.Context, auth0ID string) (int32, error) {
	return f.workspaceID, f.err
}

func validClaims(sub string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: sub},
		CustomClaims:     &CustomClaims{Email: "a@example.com"},
	}
}

func runAuth(t *testing.T, m *AuthMiddleware, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var seen echo.Context
	err := m.Authenticate()(func(c echo.Context) error {
		called = true
		seen = c
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, seen, called
}

func TestAuthenticate_HeaderErrors(t *testing.T) {
	m := NewAuthMiddleware(&fakeValidator{claims: validClaims("auth0|x")}, nil)

	tests := []struct {
		name   string
		header string
		detail string
	}{
		{"missing header", "", "missing authorization header"},
		{"no bearer prefix", "invalid-token", "invalid authorization header format"},
		{"wrong scheme", "Basic abc", "invalid authorization header format"},
		{"empty token", "Bearer ", "invalid authorization header format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := runAuth(t, m, tt.header)
			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body problemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, errorTypeUnauthorized, body.Type)
			assert.Equal(t, tt.detail, body.Detail)
		})
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	m := NewAuthMiddleware(&fakeValidator{err: errors.New("expired")}, nil)

	rec, _, called := runAuth(t, m, "Bearer abc")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InjectsWorkspace(t *testing.T) {
	v := &fakeValidator{claims: validClaims("auth0|42")}
	m := NewAuthMiddleware(v, &fakeWorkspaceProvider{workspaceID: 42})

	rec, c, called := runAuth(t, m, "Bearer good-token")
	require.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good-token", v.token)
	assert.Equal(t, int32(42), GetWorkspaceID(c))
	assert.Equal(t, "auth0|42", GetAuth0ID(c))
	assert.Equal(t, "a@example.com", GetCustomClaims(c).Email)
}

func TestAuthenticate_WorkspaceLookupFails(t *testing.T) {
	m := NewAuthMiddleware(
		&fakeValidator{claims: validClaims("auth0|nobody")},
		&fakeWorkspaceProvider{err: errors.New("workspace not found")},
	)

	rec, _, called := runAuth(t, m, "Bearer token")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_FirstSignInPassesWithoutWorkspace(t *testing.T) {
	m := NewAuthMiddleware(
		&fakeValidator{claims: validClaims("auth0|first")},
		&fakeWorkspaceProvider{err: fmt.Errorf("lookup: %w", domain.ErrWorkspaceNotFound)},
	)

	_, c, called := runAuth(t, m, "Bearer token")
	require.True(t, called)
	assert.Equal(t, int32(0), GetWorkspaceID(c))
	assert.Equal(t, "auth0|first", GetAuth0ID(c))
}

func TestAuthenticate_NilProviderSkipsWorkspace(t *testing.T) {
	m := NewAuthMiddleware(&fakeValidator{claims: validClaims("auth0|new")}, nil)

	_, c, called := runAuth(t, m, "bearer token")
	require.True(t, called)
	assert.Equal(t, int32(0), GetWorkspaceID(c))
	assert.Equal(t, "auth0|new", GetAuth0ID(c))
}

func TestNewAuth0Validator(t *testing.T) {
	v, err := NewAuth0Validator("tenant.auth0.com", "https://api.sitebooks.app")
	require.NoError(t, err)

	_, err = v.ValidateToken(context.Background(), "not-a-jwt")
	assert.Error(t, err)

	m := NewAuthMiddleware(v, nil)
	rec, _, called := runAuth(t, m, "Bearer not-a-jwt")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
