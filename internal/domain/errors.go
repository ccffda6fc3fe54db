package domain

import "errors"

// Domain errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrSiteNotFound      = errors.New("site not found")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrAdvanceNotFound   = errors.New("advance not found")
	ErrFundsNotFound     = errors.New("funds received entry not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = errors.New("name exceeds maximum length")
	ErrLocationTooLong   = errors.New("location exceeds maximum length")
)

// Ledger entry errors
var (
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidExpenseCategory   = errors.New("invalid expense category")
	ErrDescriptionRequired      = errors.New("description is required")
	ErrDescriptionTooLong       = errors.New("description exceeds maximum length")
	ErrInvalidAdvancePurpose    = errors.New("invalid advance purpose")
	ErrInvalidRecipientType     = errors.New("invalid recipient type")
	ErrRecipientNameRequired    = errors.New("recipient name is required")
	ErrRecipientNameTooLong     = errors.New("recipient name exceeds maximum length")
	ErrRemarksTooLong           = errors.New("remarks exceed maximum length")
	ErrInvalidApproverType      = errors.New("invalid approver type")
	ErrInvalidPaymentStatus     = errors.New("invalid payment status")
	ErrInvoiceNumberRequired    = errors.New("invoice number is required")
	ErrInvoiceNumberTooLong     = errors.New("invoice number exceeds maximum length")
	ErrVendorNameRequired       = errors.New("vendor name is required")
	ErrVendorNameTooLong        = errors.New("vendor name exceeds maximum length")
	ErrSourceTooLong            = errors.New("source exceeds maximum length")
	ErrInvalidDate              = errors.New("invalid date")
	ErrInvoiceAttachmentMissing = errors.New("invoice has no attachment")
	ErrDuplicateInvoiceNumber   = errors.New("invoice number already recorded for this vendor on the site")
)

// Validation constants
const (
	MaxSiteNameLength      = 255
	MaxDisplayNameLength   = 255
	MaxWorkspaceNameLength = 255
	MaxLocationLength      = 500
	MaxDescriptionLength   = 500
	MaxRemarksLength       = 1000
	MaxRecipientNameLength = 255
	MaxInvoiceNumberLength = 100
	MaxVendorNameLength    = 255
	MaxSourceLength        = 255
)
