package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

// InvoiceService handles vendor invoices raised against a site
type InvoiceService struct {
	eventSink
	siteRepo    domain.SiteRepository
	invoiceRepo domain.InvoiceRepository
	attachments *AttachmentService
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(siteRepo domain.SiteRepository, invoiceRepo domain.InvoiceRepository) *InvoiceService {
	return &InvoiceService{siteRepo: siteRepo, invoiceRepo: invoiceRepo}
}

// SetAttachmentService enables removal of stored scans when an invoice is deleted
func (s *InvoiceService) SetAttachmentService(attachments *AttachmentService) {
	s.attachments = attachments
}

// CreateInvoiceInput holds the input for recording an invoice
type CreateInvoiceInput struct {
	Date          *time.Time
	InvoiceNumber string
	VendorName    string
	NetAmount     decimal.Decimal
	ApproverType  domain.ApproverType
	// PaymentStatus defaults to pending
	PaymentStatus domain.PaymentStatus
}

// CreateInvoice records an invoice against a site
func (s *InvoiceService) CreateInvoice(ctx context.Context, workspaceID, siteID int32, input CreateInvoiceInput) (*domain.Invoice, error) {
	number, err := requiredText(input.InvoiceNumber, domain.MaxInvoiceNumberLength, domain.ErrInvoiceNumberRequired, domain.ErrInvoiceNumberTooLong)
	if err != nil {
		return nil, err
	}
	vendor, err := requiredText(input.VendorName, domain.MaxVendorNameLength, domain.ErrVendorNameRequired, domain.ErrVendorNameTooLong)
	if err != nil {
		return nil, err
	}
	if err := positiveAmount(input.NetAmount); err != nil {
		return nil, err
	}
	if !input.ApproverType.IsValid() {
		return nil, domain.ErrInvalidApproverType
	}
	status := input.PaymentStatus
	if status == "" {
		status = domain.PaymentStatusPending
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidPaymentStatus
	}
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.Create(ctx, &domain.Invoice{
		WorkspaceID:   workspaceID,
		SiteID:        siteID,
		Date:          entryDate(input.Date),
		InvoiceNumber: number,
		VendorName:    vendor,
		NetAmount:     input.NetAmount,
		ApproverType:  input.ApproverType,
		PaymentStatus: status,
	})
	if err != nil {
		return nil, err
	}

	s.publishEntryChange(workspaceID, siteID, websocket.EntryCreated(websocket.EntityTypeInvoice, siteID, invoice))
	return invoice, nil
}

// GetInvoices lists every invoice of a site, head office ones included
func (s *InvoiceService) GetInvoices(ctx context.Context, workspaceID, siteID int32) ([]*domain.Invoice, error) {
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetBySite(ctx, workspaceID, siteID)
}

// GetInvoice retrieves a single invoice of a site
func (s *InvoiceService) GetInvoice(ctx context.Context, workspaceID, siteID, id int32) (*domain.Invoice, error) {
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, workspaceID, siteID, id)
}

// UpdatePaymentStatus marks an invoice pending or paid
func (s *InvoiceService) UpdatePaymentStatus(ctx context.Context, workspaceID, siteID, id int32, status domain.PaymentStatus) (*domain.Invoice, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidPaymentStatus
	}
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.UpdatePaymentStatus(ctx, workspaceID, siteID, id, status)
	if err != nil {
		return nil, err
	}

	s.publishEntryChange(workspaceID, siteID, websocket.EntryUpdated(websocket.EntityTypeInvoice, siteID, invoice))
	return invoice, nil
}

// DeleteInvoice removes an invoice and, when storage is configured, its scan
func (s *InvoiceService) DeleteInvoice(ctx context.Context, workspaceID, siteID, id int32) error {
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return err
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, workspaceID, siteID, id)
	if err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, workspaceID, siteID, id); err != nil {
		return err
	}

	if invoice.AttachmentPath != nil && s.attachments.IsEnabled() {
		if err := s.attachments.DeleteVariants(ctx, *invoice.AttachmentPath); err != nil {
			log.Warn().Err(err).Int32("invoice_id", id).Msg("Failed to remove invoice scan")
		}
	}

	s.publishEntryChange(workspaceID, siteID, websocket.EntryDeleted(websocket.EntityTypeInvoice, siteID, id))
	return nil
}
