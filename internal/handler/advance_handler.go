package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/middleware"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/util"
)

// AdvanceHandler handles advance-related HTTP requests
type AdvanceHandler struct {
	advanceService *service.AdvanceService
}

// NewAdvanceHandler creates a new AdvanceHandler
func NewAdvanceHandler(advanceService *service.AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{advanceService: advanceService}
}

// CreateAdvanceRequest represents the create advance request body
type CreateAdvanceRequest struct {
	Date          string  `json:"date,omitempty"`
	Amount        string  `json:"amount"`
	Purpose       string  `json:"purpose"`
	RecipientType string  `json:"recipientType"`
	RecipientName string  `json:"recipientName"`
	Remarks       *string `json:"remarks,omitempty"`
}

// AdvanceResponse represents an advance in API responses
type AdvanceResponse struct {
	ID            int32   `json:"id"`
	SiteID        int32   `json:"siteId"`
	Date          string  `json:"date"`
	Amount        string  `json:"amount"`
	Purpose       string  `json:"purpose"`
	RecipientType string  `json:"recipientType"`
	RecipientName string  `json:"recipientName"`
	Remarks       *string `json:"remarks,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// CreateAdvance godoc
// @Summary Record an advance
// @Description Purpose advance counts toward totalAdvances, every other purpose is a worker debit.
// @Tags advances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param request body CreateAdvanceRequest true "Advance"
// @Success 201 {object} AdvanceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/advances [post]
func (h *AdvanceHandler) CreateAdvance(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	var req CreateAdvanceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		_, herr := writeDomainError(c, err)
		return herr
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		_, herr := writeDomainError(c, err)
		return herr
	}

	advance, err := h.advanceService.CreateAdvance(c.Request().Context(), workspaceID, siteID, service.CreateAdvanceInput{
		Date:          date,
		Amount:        amount,
		Purpose:       domain.AdvancePurpose(req.Purpose),
		RecipientType: domain.RecipientType(req.RecipientType),
		RecipientName: req.RecipientName,
		Remarks:       req.Remarks,
	})
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to create advance")
		return NewInternalError(c, "Failed to create advance")
	}

	return c.JSON(http.StatusCreated, toAdvanceResponse(advance))
}

// GetAdvances godoc
// @Summary List advances of a site
// @Tags advances
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Success 200 {array} AdvanceResponse
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/advances [get]
func (h *AdvanceHandler) GetAdvances(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	advances, err := h.advanceService.GetAdvances(c.Request().Context(), workspaceID, siteID)
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to get advances")
		return NewInternalError(c, "Failed to get advances")
	}

	response := make([]AdvanceResponse, len(advances))
	for i, a := range advances {
		response[i] = toAdvanceResponse(a)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteAdvance godoc
// @Summary Delete an advance
// @Tags advances
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param id path int true "Advance ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/advances/{id} [delete]
func (h *AdvanceHandler) DeleteAdvance(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid advance ID", nil)
	}

	if err := h.advanceService.DeleteAdvance(c.Request().Context(), workspaceID, siteID, id); err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("advance_id", id).Msg("Failed to delete advance")
		return NewInternalError(c, "Failed to delete advance")
	}

	return c.NoContent(http.StatusNoContent)
}

func toAdvanceResponse(a *domain.Advance) AdvanceResponse {
	return AdvanceResponse{
		ID:            a.ID,
		SiteID:        a.SiteID,
		Date:          util.FormatDate(a.Date),
		Amount:        a.Amount.StringFixed(2),
		Purpose:       string(a.Purpose),
		RecipientType: string(a.RecipientType),
		RecipientName: a.RecipientName,
		Remarks:       a.Remarks,
		CreatedAt:     formatTime(a.CreatedAt),
	}
}
