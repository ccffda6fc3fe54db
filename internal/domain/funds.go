package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FundsReceived is money credited to a site
type FundsReceived struct {
	ID          int32           `json:"id"`
	WorkspaceID int32           `json:"workspaceId"`
	SiteID      int32           `json:"siteId"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Source      *string         `json:"source,omitempty"`
	Remarks     *string         `json:"remarks,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type FundsRepository interface {
	Create(ctx context.Context, funds *FundsReceived) (*FundsReceived, error)
	GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*FundsReceived, error)
	Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error
}
