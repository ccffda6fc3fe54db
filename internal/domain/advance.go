package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AdvancePurpose string

const (
	AdvancePurposeAdvance     AdvancePurpose = "advance"
	AdvancePurposeSafetyShoes AdvancePurpose = "safety_shoes"
	AdvancePurposeTools       AdvancePurpose = "tools"
	AdvancePurposeOther       AdvancePurpose = "other"
)

// AdvancePurposes lists every purpose an advance can be recorded with.
// Each entry must have a classification in the ledger package.
var AdvancePurposes = []AdvancePurpose{
	AdvancePurposeAdvance,
	AdvancePurposeSafetyShoes,
	AdvancePurposeTools,
	AdvancePurposeOther,
}

type RecipientType string

const (
	RecipientTypeWorker        RecipientType = "worker"
	RecipientTypeSubcontractor RecipientType = "subcontractor"
	RecipientTypeStaff         RecipientType = "staff"
)

// IsValid reports whether r is a known recipient type
func (r RecipientType) IsValid() bool {
	switch r {
	case RecipientTypeWorker, RecipientTypeSubcontractor, RecipientTypeStaff:
		return true
	}
	return false
}

// Advance is money or goods handed to a recipient on site
type Advance struct {
	ID            int32           `json:"id"`
	WorkspaceID   int32           `json:"workspaceId"`
	SiteID        int32           `json:"siteId"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Purpose       AdvancePurpose  `json:"purpose"`
	RecipientType RecipientType   `json:"recipientType"`
	RecipientName string          `json:"recipientName"`
	Remarks       *string         `json:"remarks,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type AdvanceRepository interface {
	Create(ctx context.Context, advance *Advance) (*Advance, error)
	GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*Advance, error)
	Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error
}
