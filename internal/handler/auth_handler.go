package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/middleware"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
)

// AuthHandler handles sign-in and session HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SessionResponse is the signed-in user together with their workspace
type SessionResponse struct {
	User      ProfileResponse   `json:"user"`
	Workspace WorkspaceResponse `json:"workspace"`
	IsNewUser bool              `json:"isNewUser"`
}

// LogoutResponse represents the response from logout
type LogoutResponse struct {
	Message string `json:"message"`
}

func toSessionResponse(user *domain.User, workspace *domain.Workspace, isNew bool) SessionResponse {
	return SessionResponse{
		User:      toProfileResponse(user),
		Workspace: toWorkspaceResponse(workspace),
		IsNewUser: isNew,
	}
}

// optionalClaim maps an empty claim to nil
func optionalClaim(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Callback godoc
// @Summary Register or sign in the Auth0 user
// @Description Called by the frontend after receiving the Auth0 token. Creates the user and a default workspace on first sign-in.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /auth/callback [post]
func (h *AuthHandler) Callback(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		log.Error().Msg("Callback reached without an Auth0 subject")
		return NewUnauthorizedError(c, "Authentication required")
	}

	claims := middleware.GetCustomClaims(c)
	if claims == nil || claims.Email == "" {
		log.Warn().Str("auth0_id", auth0ID).Msg("Token carries no email claim")
		return NewValidationError(c, "Email is required for authentication", []ValidationError{
			{Field: "email", Message: "Email claim is missing from token"},
		})
	}

	result, err := h.authService.AuthenticateUser(c.Request().Context(), auth0ID, claims.Email,
		optionalClaim(claims.Name), optionalClaim(claims.Picture))
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to authenticate user")
		return NewInternalError(c, "Failed to authenticate user")
	}

	return c.JSON(http.StatusOK, toSessionResponse(result.User, result.Workspace, result.IsNewUser))
}

// Me godoc
// @Summary Get the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ctx := c.Request().Context()
	user, err := h.authService.GetUserByAuth0ID(ctx, auth0ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return NewNotFoundError(c, "User not found, complete sign-in first")
	}
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get user")
		return NewInternalError(c, "Failed to get user")
	}

	// The middleware lets a first sign-in through without a workspace
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewNotFoundError(c, "Workspace not provisioned, complete sign-in first")
	}

	workspace, err := h.authService.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get workspace")
		return NewInternalError(c, "Failed to get workspace")
	}

	return c.JSON(http.StatusOK, toSessionResponse(user, workspace, false))
}

// Logout godoc
// @Summary Acknowledge a logout
// @Description Auth0 owns the session; the API only records the event.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LogoutResponse
// @Failure 401 {object} ProblemDetails
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	log.Info().Str("auth0_id", auth0ID).Int32("workspace_id", middleware.GetWorkspaceID(c)).Msg("User logged out")
	return c.JSON(http.StatusOK, LogoutResponse{Message: "Logged out successfully"})
}
