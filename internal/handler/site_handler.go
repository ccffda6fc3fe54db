package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/middleware"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
)

// SiteHandler handles site-related HTTP requests
type SiteHandler struct {
	siteService *service.SiteService
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(siteService *service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

// SiteRequest represents the create/update site request body
type SiteRequest struct {
	Name     string  `json:"name"`
	Location *string `json:"location,omitempty"`
}

// SiteResponse represents a site in API responses
type SiteResponse struct {
	ID          int32   `json:"id"`
	WorkspaceID int32   `json:"workspaceId"`
	Name        string  `json:"name"`
	Location    *string `json:"location,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateSite godoc
// @Summary Create a site
// @Tags sites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SiteRequest true "Site"
// @Success 201 {object} SiteResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /sites [post]
func (h *SiteHandler) CreateSite(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req SiteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	site, err := h.siteService.CreateSite(c.Request().Context(), workspaceID, service.SiteInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create site")
		return NewInternalError(c, "Failed to create site")
	}

	return c.JSON(http.StatusCreated, toSiteResponse(site))
}

// GetSites godoc
// @Summary List sites
// @Tags sites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} SiteResponse
// @Failure 401 {object} ProblemDetails
// @Router /sites [get]
func (h *SiteHandler) GetSites(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	sites, err := h.siteService.GetSites(c.Request().Context(), workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get sites")
		return NewInternalError(c, "Failed to get sites")
	}

	response := make([]SiteResponse, len(sites))
	for i, site := range sites {
		response[i] = toSiteResponse(site)
	}
	return c.JSON(http.StatusOK, response)
}

// GetSite handles GET /api/v1/sites/:siteId
func (h *SiteHandler) GetSite(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	site, err := h.siteService.GetSite(c.Request().Context(), workspaceID, siteID)
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to get site")
		return NewInternalError(c, "Failed to get site")
	}

	return c.JSON(http.StatusOK, toSiteResponse(site))
}

// UpdateSite godoc
// @Summary Update a site
// @Tags sites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param request body SiteRequest true "Site"
// @Success 200 {object} SiteResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId} [put]
func (h *SiteHandler) UpdateSite(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	var req SiteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	site, err := h.siteService.UpdateSite(c.Request().Context(), workspaceID, siteID, service.SiteInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to update site")
		return NewInternalError(c, "Failed to update site")
	}

	return c.JSON(http.StatusOK, toSiteResponse(site))
}

// DeleteSite godoc
// @Summary Delete a site
// @Tags sites
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId} [delete]
func (h *SiteHandler) DeleteSite(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	if err := h.siteService.DeleteSite(c.Request().Context(), workspaceID, siteID); err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to delete site")
		return NewInternalError(c, "Failed to delete site")
	}

	return c.NoContent(http.StatusNoContent)
}

func toSiteResponse(site *domain.Site) SiteResponse {
	return SiteResponse{
		ID:          site.ID,
		WorkspaceID: site.WorkspaceID,
		Name:        site.Name,
		Location:    site.Location,
		CreatedAt:   formatTime(site.CreatedAt),
		UpdatedAt:   formatTime(site.UpdatedAt),
	}
}
