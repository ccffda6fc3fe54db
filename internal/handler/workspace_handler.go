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

// WorkspaceHandler handles workspace-related HTTP requests
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// RenameWorkspaceRequest represents the rename workspace request
type RenameWorkspaceRequest struct {
	Name string `json:"name"`
}

// WorkspaceResponse represents a workspace in API responses
type WorkspaceResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toWorkspaceResponse(ws *domain.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:        ws.ID,
		Name:      ws.Name,
		CreatedAt: formatTime(ws.CreatedAt),
		UpdatedAt: formatTime(ws.UpdatedAt),
	}
}

// GetWorkspace godoc
// @Summary Get the current workspace
// @Tags workspace
// @Produce json
// @Security BearerAuth
// @Success 200 {object} WorkspaceResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /workspace [get]
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	ws, err := h.workspaceService.GetWorkspace(c.Request().Context(), workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get workspace")
		return NewInternalError(c, "Failed to get workspace")
	}

	return c.JSON(http.StatusOK, toWorkspaceResponse(ws))
}

// RenameWorkspace godoc
// @Summary Rename the current workspace
// @Tags workspace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RenameWorkspaceRequest true "Workspace"
// @Success 200 {object} WorkspaceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /workspace [put]
func (h *WorkspaceHandler) RenameWorkspace(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req RenameWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	ws, err := h.workspaceService.RenameWorkspace(c.Request().Context(), workspaceID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to rename workspace")
		return NewInternalError(c, "Failed to rename workspace")
	}

	return c.JSON(http.StatusOK, toWorkspaceResponse(ws))
}

// ClearAllData godoc
// @Summary Delete every site, entry and invoice in the workspace
// @Tags workspace
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /workspace/data [delete]
func (h *WorkspaceHandler) ClearAllData(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	if err := h.workspaceService.ClearAllData(c.Request().Context(), workspaceID); err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to clear workspace data")
		return NewInternalError(c, "Failed to clear workspace data")
	}

	return c.NoContent(http.StatusNoContent)
}
