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

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the create expense request body.
// Amount is a decimal string, date is YYYY-MM-DD and defaults to today.
type CreateExpenseRequest struct {
	Date        string `json:"date,omitempty"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          int32  `json:"id"`
	SiteID      int32  `json:"siteId"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// CreateExpense godoc
// @Summary Record an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param request body CreateExpenseRequest true "Expense"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	var req CreateExpenseRequest
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

	expense, err := h.expenseService.CreateExpense(c.Request().Context(), workspaceID, siteID, service.CreateExpenseInput{
		Date:        date,
		Amount:      amount,
		Category:    domain.ExpenseCategory(req.Category),
		Description: req.Description,
	})
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses godoc
// @Summary List expenses of a site
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Success 200 {array} ExpenseResponse
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	expenses, err := h.expenseService.GetExpenses(c.Request().Context(), workspaceID, siteID)
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to get expenses")
		return NewInternalError(c, "Failed to get expenses")
	}

	response := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		response[i] = toExpenseResponse(e)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param id path int true "Expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
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
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(c.Request().Context(), workspaceID, siteID, id); err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("expense_id", id).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	return c.NoContent(http.StatusNoContent)
}

func toExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		SiteID:      e.SiteID,
		Date:        util.FormatDate(e.Date),
		Amount:      e.Amount.StringFixed(2),
		Category:    string(e.Category),
		Description: e.Description,
		CreatedAt:   formatTime(e.CreatedAt),
	}
}
