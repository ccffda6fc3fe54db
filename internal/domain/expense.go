package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory string

const (
	ExpenseCategoryMaterial  ExpenseCategory = "material"
	ExpenseCategoryLabour    ExpenseCategory = "labour"
	ExpenseCategoryTransport ExpenseCategory = "transport"
	ExpenseCategoryMachinery ExpenseCategory = "machinery"
	ExpenseCategoryFood      ExpenseCategory = "food"
	ExpenseCategoryOther     ExpenseCategory = "other"
)

// ExpenseCategories lists every accepted expense category
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategoryMaterial,
	ExpenseCategoryLabour,
	ExpenseCategoryTransport,
	ExpenseCategoryMachinery,
	ExpenseCategoryFood,
	ExpenseCategoryOther,
}

// IsValid reports whether c is one of ExpenseCategories
func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is money spent on a site. Always debited from the site balance.
type Expense struct {
	ID          int32           `json:"id"`
	WorkspaceID int32           `json:"workspaceId"`
	SiteID      int32           `json:"siteId"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*Expense, error)
	Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error
}
