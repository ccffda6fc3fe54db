package ledger

import (
	"fmt"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Input is a consistent snapshot of one site's ledger entries
type Input struct {
	Expenses []*domain.Expense
	Advances []*domain.Advance
	Funds    []*domain.FundsReceived
	Invoices []*domain.Invoice
}

// SupervisorInvoices returns the invoices approved on site. Only these are debited
// from the site balance; head office invoices are settled elsewhere.
func SupervisorInvoices(invoices []*domain.Invoice) []*domain.Invoice {
	result := make([]*domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv != nil && inv.ApproverType == domain.ApproverTypeSupervisor {
			result = append(result, inv)
		}
	}
	return result
}

// Summarize computes the balance summary of a site.
//
// Invoices not approved by a supervisor are ignored, so callers may pass either the
// full invoice list or a list already filtered with SupervisorInvoices. Negative
// amounts and unknown advance purposes fail the whole computation.
func Summarize(in Input) (domain.BalanceSummary, error) {
	summary := domain.BalanceSummary{
		FundsReceived:    decimal.Zero,
		TotalExpenditure: decimal.Zero,
		TotalAdvances:    decimal.Zero,
		DebitsToWorker:   decimal.Zero,
		InvoicesPaid:     decimal.Zero,
		PendingInvoices:  decimal.Zero,
	}

	for _, f := range in.Funds {
		if f == nil {
			continue
		}
		if err := checkAmount("funds received", f.ID, f.Amount); err != nil {
			return domain.BalanceSummary{}, err
		}
		summary.FundsReceived = summary.FundsReceived.Add(f.Amount)
	}

	for _, e := range in.Expenses {
		if e == nil {
			continue
		}
		if err := checkAmount("expense", e.ID, e.Amount); err != nil {
			return domain.BalanceSummary{}, err
		}
		summary.TotalExpenditure = summary.TotalExpenditure.Add(e.Amount)
	}

	for _, a := range in.Advances {
		if a == nil {
			continue
		}
		if err := checkAmount("advance", a.ID, a.Amount); err != nil {
			return domain.BalanceSummary{}, err
		}
		class, err := Classify(a.Purpose)
		if err != nil {
			return domain.BalanceSummary{}, fmt.Errorf("advance %d: %w", a.ID, err)
		}
		switch class {
		case ClassMoneyAdvance:
			summary.TotalAdvances = summary.TotalAdvances.Add(a.Amount)
		case ClassWorkerDebit:
			summary.DebitsToWorker = summary.DebitsToWorker.Add(a.Amount)
		}
	}

	for _, inv := range SupervisorInvoices(in.Invoices) {
		if err := checkAmount("invoice", inv.ID, inv.NetAmount); err != nil {
			return domain.BalanceSummary{}, err
		}
		summary.InvoicesPaid = summary.InvoicesPaid.Add(inv.NetAmount)
		if inv.PaymentStatus == domain.PaymentStatusPending {
			summary.PendingInvoices = summary.PendingInvoices.Add(inv.NetAmount)
		}
	}

	summary.TotalBalance = summary.FundsReceived.
		Sub(summary.TotalExpenditure).
		Sub(summary.TotalAdvances).
		Sub(summary.InvoicesPaid)

	return summary, nil
}

func checkAmount(kind string, id int32, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s %d has negative amount %s", domain.ErrInvalidAmount, kind, id, amount.String())
	}
	return nil
}
