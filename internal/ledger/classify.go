// Package ledger derives site balances from raw ledger entries.
//
// Everything here is pure: functions take plain values, never mutate them and keep
// no state between calls, so a summary can be recomputed on every data change.
package ledger

import (
	"fmt"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
)

// AdvanceClass is the bucket an advance is counted in
type AdvanceClass string

const (
	// ClassMoneyAdvance is cash handed out that is netted against the site balance
	ClassMoneyAdvance AdvanceClass = "money_advance"
	// ClassWorkerDebit is goods debited to a worker, tracked outside the balance
	ClassWorkerDebit AdvanceClass = "worker_debit"
)

// Classify maps an advance purpose to its class.
//
// Every value in domain.AdvancePurposes must be handled here. Anything else is
// rejected with domain.ErrInvalidAdvancePurpose instead of falling into either bucket.
func Classify(purpose domain.AdvancePurpose) (AdvanceClass, error) {
	switch purpose {
	case domain.AdvancePurposeAdvance:
		return ClassMoneyAdvance, nil
	case domain.AdvancePurposeSafetyShoes, domain.AdvancePurposeTools, domain.AdvancePurposeOther:
		return ClassWorkerDebit, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidAdvancePurpose, purpose)
}

// IsWorkerDebit reports whether purpose is tracked as a worker debit
func IsWorkerDebit(purpose domain.AdvancePurpose) bool {
	class, err := Classify(purpose)
	return err == nil && class == ClassWorkerDebit
}
