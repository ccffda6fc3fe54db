package domain

import "github.com/shopspring/decimal"

// MaxAmount is the exclusive upper bound of a stored amount (NUMERIC(14,2))
var MaxAmount = decimal.New(1, 12)

// AmountScale is the number of fractional digits an amount may carry
const AmountScale = 2

// Bounds on the raw decimal representation, checked before any arithmetic.
// Comparisons rescale operands to a common exponent, so an unbounded exponent
// turns into an arbitrarily large integer.
const (
	maxAmountExponent  = 20
	maxCoefficientBits = 128
)

// IsCentPrecise reports whether d is small enough to compare cheaply and has
// no non-zero digits past AmountScale. "1.500" passes, "0.004" does not.
func IsCentPrecise(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxAmountExponent || exp > maxAmountExponent {
		return false
	}
	if d.Coefficient().BitLen() > maxCoefficientBits {
		return false
	}
	return d.Equal(d.Truncate(AmountScale))
}

// ValidateAmount requires 0 < d < MaxAmount at cent precision
func ValidateAmount(d decimal.Decimal) error {
	if !IsCentPrecise(d) || !d.IsPositive() || d.GreaterThanOrEqual(MaxAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// BalanceSummary is the derived money position of a single site. It is never persisted.
//
// TotalBalance = FundsReceived - TotalExpenditure - TotalAdvances - InvoicesPaid.
// DebitsToWorker and PendingInvoices are informational only.
type BalanceSummary struct {
	FundsReceived    decimal.Decimal `json:"fundsReceived"`
	TotalExpenditure decimal.Decimal `json:"totalExpenditure"`
	TotalAdvances    decimal.Decimal `json:"totalAdvances"`
	DebitsToWorker   decimal.Decimal `json:"debitsToWorker"`
	InvoicesPaid     decimal.Decimal `json:"invoicesPaid"`
	PendingInvoices  decimal.Decimal `json:"pendingInvoices"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
}

// SiteBalance pairs a site with its computed summary
type SiteBalance struct {
	Site    *Site          `json:"site"`
	Summary BalanceSummary `json:"summary"`
}
