package service

import (
	"context"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
)

// ProfileService reads and renames the signed-in user
type ProfileService struct {
	userRepo domain.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// GetProfile returns ErrUserNotFound before the first /auth/callback
func (s *ProfileService) GetProfile(ctx context.Context, auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(ctx, auth0ID)
}

// UpdateProfile trims and validates the display name before saving it
func (s *ProfileService) UpdateProfile(ctx context.Context, auth0ID string, name string) (*domain.User, error) {
	name, err := requiredText(name, domain.MaxDisplayNameLength, domain.ErrNameRequired, domain.ErrNameTooLong)
	if err != nil {
		return nil, err
	}
	return s.userRepo.UpdateName(ctx, auth0ID, name)
}
