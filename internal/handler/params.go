package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/util"
)

var errInvalidID = errors.New("invalid id")

// parseID reads a positive int32 path parameter
func parseID(c echo.Context, name string) (int32, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return int32(id), nil
}

// maxAmountLength caps the raw input before it reaches the decimal parser
const maxAmountLength = 32

// parseAmount parses a decimal string with at most two meaningful fractional digits.
// Non-numeric input (including NaN/Inf spellings) and huge exponents are rejected.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if len(s) > maxAmountLength {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !domain.IsCentPrecise(d) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return d, nil
}

// parseOptionalDate parses a YYYY-MM-DD date; empty means "use today" and yields nil
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := util.ParseEntryDate(s)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}
	return &d, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// fieldErrors maps domain validation errors to the request field they concern
var fieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrNameRequired, "name", "Name is required"},
	{domain.ErrNameTooLong, "name", "Name must be 255 characters or less"},
	{domain.ErrLocationTooLong, "location", "Location must be 500 characters or less"},
	{domain.ErrInvalidAmount, "amount", "Must be a positive decimal number"},
	{domain.ErrInvalidDate, "date", "Must be a date in YYYY-MM-DD format"},
	{domain.ErrInvalidExpenseCategory, "category", "Category must be one of: material, labour, transport, machinery, food, other"},
	{domain.ErrDescriptionRequired, "description", "Description is required"},
	{domain.ErrDescriptionTooLong, "description", "Description must be 500 characters or less"},
	{domain.ErrInvalidAdvancePurpose, "purpose", "Purpose must be one of: advance, safety_shoes, tools, other"},
	{domain.ErrInvalidRecipientType, "recipientType", "Recipient type must be one of: worker, subcontractor, staff"},
	{domain.ErrRecipientNameRequired, "recipientName", "Recipient name is required"},
	{domain.ErrRecipientNameTooLong, "recipientName", "Recipient name must be 255 characters or less"},
	{domain.ErrRemarksTooLong, "remarks", "Remarks must be 1000 characters or less"},
	{domain.ErrSourceTooLong, "source", "Source must be 255 characters or less"},
	{domain.ErrInvoiceNumberRequired, "invoiceNumber", "Invoice number is required"},
	{domain.ErrInvoiceNumberTooLong, "invoiceNumber", "Invoice number must be 100 characters or less"},
	{domain.ErrVendorNameRequired, "vendorName", "Vendor name is required"},
	{domain.ErrVendorNameTooLong, "vendorName", "Vendor name must be 255 characters or less"},
	{domain.ErrInvalidApproverType, "approverType", "Approver type must be one of: ho, supervisor"},
	{domain.ErrInvalidPaymentStatus, "paymentStatus", "Payment status must be one of: pending, paid"},
}

// notFoundErrors maps not-found sentinels to their response detail
var notFoundErrors = []struct {
	err    error
	detail string
}{
	{domain.ErrSiteNotFound, "Site not found"},
	{domain.ErrExpenseNotFound, "Expense not found"},
	{domain.ErrAdvanceNotFound, "Advance not found"},
	{domain.ErrFundsNotFound, "Funds entry not found"},
	{domain.ErrInvoiceNotFound, "Invoice not found"},
	{domain.ErrInvoiceAttachmentMissing, "Invoice has no attachment"},
}

// writeDomainError renders a known domain error as problem details.
// It reports false when err is not a known domain error.
func writeDomainError(c echo.Context, err error) (bool, error) {
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf.err) {
			return true, NewNotFoundError(c, nf.detail)
		}
	}
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			return true, NewValidationError(c, "Validation failed", []ValidationError{
				{Field: fe.field, Message: fe.message},
			})
		}
	}
	return false, nil
}
