package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/middleware"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/util"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService    *service.InvoiceService
	attachmentService *service.AttachmentService
}

// NewInvoiceHandler creates a new InvoiceHandler. attachmentService may be nil.
func NewInvoiceHandler(invoiceService *service.InvoiceService, attachmentService *service.AttachmentService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, attachmentService: attachmentService}
}

// CreateInvoiceRequest represents the create invoice request body
type CreateInvoiceRequest struct {
	Date          string `json:"date,omitempty"`
	InvoiceNumber string `json:"invoiceNumber"`
	VendorName    string `json:"vendorName"`
	NetAmount     string `json:"netAmount"`
	ApproverType  string `json:"approverType"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

// UpdatePaymentStatusRequest represents the payment status update body
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            int32  `json:"id"`
	SiteID        int32  `json:"siteId"`
	Date          string `json:"date"`
	InvoiceNumber string `json:"invoiceNumber"`
	VendorName    string `json:"vendorName"`
	NetAmount     string `json:"netAmount"`
	ApproverType  string `json:"approverType"`
	PaymentStatus string `json:"paymentStatus"`
	HasAttachment bool   `json:"hasAttachment"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// CreateInvoice godoc
// @Summary Record an invoice
// @Description Only supervisor-approved invoices count toward the site balance.
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param request body CreateInvoiceRequest true "Invoice"
// @Success 201 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /sites/{siteId}/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	var req CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := parseAmount(req.NetAmount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "netAmount", Message: "Must be a positive decimal number"},
		})
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		_, herr := writeDomainError(c, err)
		return herr
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request().Context(), workspaceID, siteID, service.CreateInvoiceInput{
		Date:          date,
		InvoiceNumber: req.InvoiceNumber,
		VendorName:    req.VendorName,
		NetAmount:     amount,
		ApproverType:  domain.ApproverType(req.ApproverType),
		PaymentStatus: domain.PaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "netAmount", Message: "Must be a positive decimal number"},
			})
		}
		if errors.Is(err, domain.ErrDuplicateInvoiceNumber) {
			return NewConflictError(c, "This vendor invoice number is already recorded for the site")
		}
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to create invoice")
		return NewInternalError(c, "Failed to create invoice")
	}

	return c.JSON(http.StatusCreated, toInvoiceResponse(invoice))
}

// GetInvoices godoc
// @Summary List invoices of a site
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Success 200 {array} InvoiceResponse
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/invoices [get]
func (h *InvoiceHandler) GetInvoices(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, err := parseID(c, "siteId")
	if err != nil {
		return NewValidationError(c, "Invalid site ID", nil)
	}

	invoices, err := h.invoiceService.GetInvoices(c.Request().Context(), workspaceID, siteID)
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("site_id", siteID).Msg("Failed to get invoices")
		return NewInternalError(c, "Failed to get invoices")
	}

	response := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		response[i] = toInvoiceResponse(inv)
	}
	return c.JSON(http.StatusOK, response)
}

// GetInvoice handles GET /api/v1/sites/:siteId/invoices/:id
func (h *InvoiceHandler) GetInvoice(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, id, invalid := parseSiteAndInvoice(c)
	if invalid != "" {
		return NewValidationError(c, invalid, nil)
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request().Context(), workspaceID, siteID, id)
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("invoice_id", id).Msg("Failed to get invoice")
		return NewInternalError(c, "Failed to get invoice")
	}

	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// UpdatePaymentStatus godoc
// @Summary Mark an invoice as paid or pending
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param id path int true "Invoice ID"
// @Param request body UpdatePaymentStatusRequest true "Payment status"
// @Success 200 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/invoices/{id}/payment-status [patch]
func (h *InvoiceHandler) UpdatePaymentStatus(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, id, invalid := parseSiteAndInvoice(c)
	if invalid != "" {
		return NewValidationError(c, invalid, nil)
	}

	var req UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	invoice, err := h.invoiceService.UpdatePaymentStatus(c.Request().Context(), workspaceID, siteID, id, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("invoice_id", id).Msg("Failed to update payment status")
		return NewInternalError(c, "Failed to update payment status")
	}

	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// DeleteInvoice godoc
// @Summary Delete an invoice and its scan
// @Tags invoices
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param id path int true "Invoice ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /sites/{siteId}/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	siteID, id, invalid := parseSiteAndInvoice(c)
	if invalid != "" {
		return NewValidationError(c, invalid, nil)
	}

	if err := h.invoiceService.DeleteInvoice(c.Request().Context(), workspaceID, siteID, id); err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("invoice_id", id).Msg("Failed to delete invoice")
		return NewInternalError(c, "Failed to delete invoice")
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadAttachment godoc
// @Summary Upload an invoice scan
// @Description Accepts a JPEG or PNG up to 10MB. Replaces any previous scan.
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param id path int true "Invoice ID"
// @Param file formData file true "Scan image"
// @Success 201 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /sites/{siteId}/invoices/{id}/attachment [post]
func (h *InvoiceHandler) UploadAttachment(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	if !h.attachmentService.IsEnabled() {
		return NewServiceUnavailableError(c, "Invoice scans are disabled (storage not configured)")
	}

	siteID, id, invalid := parseSiteAndInvoice(c)
	if invalid != "" {
		return NewValidationError(c, invalid, nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	// one byte over the limit is enough to reject
	data, err := io.ReadAll(io.LimitReader(src, service.MaxScanSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	invoice, err := h.attachmentService.UploadInvoiceScan(c.Request().Context(), workspaceID, siteID, id, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScanTooLarge),
			errors.Is(err, service.ErrInvalidFormat),
			errors.Is(err, service.ErrScanTooSmall),
			errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: err.Error()},
			})
		}
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("invoice_id", id).Msg("Failed to upload invoice scan")
		return NewInternalError(c, "Failed to upload invoice scan")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("invoice_id", id).
		Msg("Invoice scan uploaded")

	return c.JSON(http.StatusCreated, toInvoiceResponse(invoice))
}

// GetAttachment godoc
// @Summary Get presigned links to an invoice scan
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param siteId path int true "Site ID"
// @Param id path int true "Invoice ID"
// @Success 200 {object} service.AttachmentURLs
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /sites/{siteId}/invoices/{id}/attachment [get]
func (h *InvoiceHandler) GetAttachment(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	if !h.attachmentService.IsEnabled() {
		return NewServiceUnavailableError(c, "Invoice scans are disabled (storage not configured)")
	}

	siteID, id, invalid := parseSiteAndInvoice(c)
	if invalid != "" {
		return NewValidationError(c, invalid, nil)
	}

	urls, err := h.attachmentService.GetInvoiceScanURLs(c.Request().Context(), workspaceID, siteID, id)
	if err != nil {
		if handled, herr := writeDomainError(c, err); handled {
			return herr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("invoice_id", id).Msg("Failed to get invoice scan")
		return NewInternalError(c, "Failed to get invoice scan")
	}

	return c.JSON(http.StatusOK, urls)
}

// parseSiteAndInvoice reads both path IDs. A non-empty message names the invalid one.
func parseSiteAndInvoice(c echo.Context) (int32, int32, string) {
	siteID, err := parseID(c, "siteId")
	if err != nil {
		return 0, 0, "Invalid site ID"
	}
	id, err := parseID(c, "id")
	if err != nil {
		return 0, 0, "Invalid invoice ID"
	}
	return siteID, id, ""
}

func toInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		SiteID:        inv.SiteID,
		Date:          util.FormatDate(inv.Date),
		InvoiceNumber: inv.InvoiceNumber,
		VendorName:    inv.VendorName,
		NetAmount:     inv.NetAmount.StringFixed(2),
		ApproverType:  string(inv.ApproverType),
		PaymentStatus: string(inv.PaymentStatus),
		HasAttachment: inv.AttachmentPath != nil,
		CreatedAt:     formatTime(inv.CreatedAt),
		UpdatedAt:     formatTime(inv.UpdatedAt),
	}
}
