package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWith(ctx context.Context) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestContextWithIdentity(t *testing.T) {
	claims := validClaims("auth0|site-manager")
	c := contextWith(ContextWithIdentity(context.Background(), claims, 42))

	assert.Equal(t, "auth0|site-manager", GetAuth0ID(c))
	assert.Same(t, claims, GetClaims(c))
	require.NotNil(t, GetCustomClaims(c))
	assert.Equal(t, "a@example.com", GetCustomClaims(c).Email)
	assert.Equal(t, int32(42), GetWorkspaceID(c))
}

func TestContextWithIdentity_NoWorkspace(t *testing.T) {
	c := contextWith(ContextWithIdentity(context.Background(), validClaims("auth0|first"), 0))

	assert.Equal(t, "auth0|first", GetAuth0ID(c))
	assert.Zero(t, GetWorkspaceID(c))
}

func TestIdentityGetters_Unauthenticated(t *testing.T) {
	c := contextWith(context.Background())

	assert.Empty(t, GetAuth0ID(c))
	assert.Nil(t, GetClaims(c))
	assert.Nil(t, GetCustomClaims(c))
	assert.Zero(t, GetWorkspaceID(c))
}

func TestGetCustomClaims_TokenWithoutProfileClaims(t *testing.T) {
	claims := &validator.ValidatedClaims{RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|m2m"}}
	c := contextWith(ContextWithIdentity(context.Background(), claims, 0))

	assert.NotNil(t, GetClaims(c))
	assert.Nil(t, GetCustomClaims(c))
}

func TestCustomClaims_Validate(t *testing.T) {
	assert.NoError(t, CustomClaims{}.Validate(context.Background()))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def", "abc.def", nil},
		{"bearer abc", "abc", nil},
		{"BEARER abc", "abc", nil},
		{"", "", errMissingHeader},
		{"abc", "", errHeaderFormat},
		{"Basic abc", "", errHeaderFormat},
		{"Bearer ", "", errHeaderFormat},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}
