package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ApproverType string

const (
	// ApproverTypeHeadOffice invoices are settled by head office and stay out of the site balance
	ApproverTypeHeadOffice ApproverType = "ho"
	ApproverTypeSupervisor ApproverType = "supervisor"
)

// IsValid reports whether a is a known approver type
func (a ApproverType) IsValid() bool {
	return a == ApproverTypeHeadOffice || a == ApproverTypeSupervisor
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// IsValid reports whether p is a known payment status
func (p PaymentStatus) IsValid() bool {
	return p == PaymentStatusPending || p == PaymentStatusPaid
}

// Invoice is a vendor bill raised against a site
type Invoice struct {
	ID             int32           `json:"id"`
	WorkspaceID    int32           `json:"workspaceId"`
	SiteID         int32           `json:"siteId"`
	Date           time.Time       `json:"date"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	VendorName     string          `json:"vendorName"`
	NetAmount      decimal.Decimal `json:"netAmount"`
	ApproverType   ApproverType    `json:"approverType"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus"`
	AttachmentPath *string         `json:"attachmentPath,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) (*Invoice, error)
	GetByID(ctx context.Context, workspaceID int32, siteID int32, id int32) (*Invoice, error)
	GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*Invoice, error)
	UpdatePaymentStatus(ctx context.Context, workspaceID int32, siteID int32, id int32, status PaymentStatus) (*Invoice, error)
	SetAttachment(ctx context.Context, workspaceID int32, siteID int32, id int32, path *string) (*Invoice, error)
	Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error
}
