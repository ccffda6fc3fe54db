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

// FundsHandler handles funds-received HTTP requests
type FundsHandler struct {
	fundsService *service.FundsService
}

// NewFundsHandler creates a new FundsHandler
func NewFundsHandler(fundsService *service.FundsService) *FundsHandler {
	return &FundsHandler{fundsService: fundsService}
}

// CreateFundsRequest represents the record funds request body
type CreateFundsRequest struct {
	Date    string  `json:"date,omitempty"`
	Amount  string  `json:"amount"`
	Source  *string `json:"source,omitempty"`
	Remarks *string `json:"remarks,omitempty"`
}

// FundsResponse represents a funds-received entry in API responses
type FundsResponse struct {
	ID        int32   `json:"id"`
	SiteID    int32   `json:"siteId"`
	Date      string  `json:"date"`
	Amount    string  `json:"amount"`
	Source    *string `json:"source,omitempty"`
	Remarks   *string `json:"remarks,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// CreateFunds godoc
// @Summary Record funds received
// @Tags funds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param request body CreateFundsRequest true "Funds received"
// @Success 201 {object} FundsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/funds [post]
func (h *FundsHandler) CreateFunds(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	var req CreateFundsRequest
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

	funds, err := h.fundsService.CreateFunds(c.Request().Context(), workspaceID, siteID, service.CreateFundsInput{
		Date:    date,
		Amount:  amount,
		Source:  req.Source,
		Remarks: req.Remarks,
	})
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to record funds")
		return NewInternalError(c, "Failed to record funds")
	}

	return c.JSON(http.StatusCreated, toFundsResponse(funds))
}

// GetFunds godoc
// @Summary List funds received by a site
// @Tags funds
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Success 200 {array} FundsResponse
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/funds [get]
func (h *FundsHandler) GetFunds(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	entries, err := h.fundsService.GetFunds(c.Request().Context(), workspaceID, siteID)
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to get funds")
		return NewInternalError(c, "Failed to get funds")
	}

	response := make([]FundsResponse, len(entries))
	for i, f := range entries {
		response[i] = toFundsResponse(f)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteFunds godoc
// @Summary Delete a funds-received entry
// @Tags funds
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param id path int true "Funds entry ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/funds/{id} [delete]
func (h *FundsHandler) DeleteFunds(c echo.Context) error {
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
		return NewValidationError(c, "Invalid funds ID", nil)
	}

	if err := h.fundsService.DeleteFunds(c.Request().Context(), workspaceID, siteID, id); err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("funds_id", id).Msg("Failed to delete funds")
		return NewInternalError(c, "Failed to delete funds")
	}

	return c.NoContent(http.StatusNoContent)
}

func toFundsResponse(f *domain.FundsReceived) FundsResponse {
	return FundsResponse{
		ID:        f.ID,
		SiteID:    f.SiteID,
		Date:      util.FormatDate(f.Date),
		Amount:    f.Amount.StringFixed(2),
		Source:    f.Source,
		Remarks:   f.Remarks,
		CreatedAt: formatTime(f.CreatedAt),
	}
}
