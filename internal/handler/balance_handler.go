package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/middleware"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
)

// BalanceHandler serves derived site balances
type BalanceHandler struct {
	balanceService *service.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balanceService *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// BalanceSummaryResponse is a BalanceSummary with amounts rendered as two-decimal strings
type BalanceSummaryResponse struct {
	FundsReceived    string `json:"fundsReceived"`
	TotalExpenditure string `json:"totalExpenditure"`
	TotalAdvances    string `json:"totalAdvances"`
	DebitsToWorker   string `json:"debitsToWorker"`
	InvoicesPaid     string `json:"invoicesPaid"`
	PendingInvoices  string `json:"pendingInvoices"`
	TotalBalance     string `json:"totalBalance"`
}

// SiteBalanceResponse pairs a site with its balance summary
type SiteBalanceResponse struct {
	SiteID   int32                  `json:"siteId"`
	SiteName string                 `json:"siteName"`
	Summary  BalanceSummaryResponse `json:"summary"`
}

// GetSiteBalance godoc
// @Summary Get the balance summary of a site
// @Description totalBalance = fundsReceived - totalExpenditure - totalAdvances - invoicesPaid
// @Tags balances
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Success 200 {object} SiteBalanceResponse
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/balance [get]
func (h *BalanceHandler) GetSiteBalance(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	balance, err := h.balanceService.GetSiteSummary(c.Request().Context(), workspaceID, siteID)
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to compute site balance")
		return NewInternalError(c, "Failed to compute site balance")
	}

	return c.JSON(http.StatusOK, toSiteBalanceResponse(balance))
}

// GetBalances godoc
// @Summary Get balance summaries for every site in the workspace
// @Tags balances
// @Produce json
// @Security BearerAuth
// @Success 200 {array} SiteBalanceResponse
// @Router /balances [get]
func (h *BalanceHandler) GetBalances(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	balances, err := h.balanceService.GetWorkspaceSummaries(c.Request().Context(), workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to compute balances")
		return NewInternalError(c, "Failed to compute balances")
	}

	response := make([]SiteBalanceResponse, len(balances))
	for i, b := range balances {
		response[i] = toSiteBalanceResponse(b)
	}
	return c.JSON(http.StatusOK, response)
}

func toSiteBalanceResponse(b *domain.SiteBalance) SiteBalanceResponse {
	return SiteBalanceResponse{
		SiteID:   b.Site.ID,
		SiteName: b.Site.Name,
		Summary:  toBalanceSummaryResponse(b.Summary),
	}
}

func toBalanceSummaryResponse(s domain.BalanceSummary) BalanceSummaryResponse {
	return BalanceSummaryResponse{
		FundsReceived:    s.FundsReceived.StringFixed(2),
		TotalExpenditure: s.TotalExpenditure.StringFixed(2),
		TotalAdvances:    s.TotalAdvances.StringFixed(2),
		DebitsToWorker:   s.DebitsToWorker.StringFixed(2),
		InvoicesPaid:     s.InvoicesPaid.StringFixed(2),
		PendingInvoices:  s.PendingInvoices.StringFixed(2),
		TotalBalance:     s.TotalBalance.StringFixed(2),
	}
}
