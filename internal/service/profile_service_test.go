package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/testutil"
)

func TestProfileService(t *testing.T) {
	ctx := context.Background()
	users := testutil.NewMockUserRepository()
	users.AddUser(&domain.User{ID: uuid.New(), Auth0ID: "auth0|pm", Email: "pm@example.com"})
	svc := NewProfileService(users)

	user, err := svc.GetProfile(ctx, "auth0|pm")
	require.NoError(t, err)
	assert.Nil(t, user.Name)

	user, err = svc.UpdateProfile(ctx, "auth0|pm", "  Dewi Lestari ")
	require.NoError(t, err)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Dewi Lestari", *user.Name)

	_, err = svc.UpdateProfile(ctx, "auth0|pm", " ")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.UpdateProfile(ctx, "auth0|pm", strings.Repeat("n", domain.MaxDisplayNameLength+1))
	assert.ErrorIs(t, err, domain.ErrNameTooLong)

	_, err = svc.UpdateProfile(ctx, "auth0|ghost", "Ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
