package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

// ExpenseService records money spent on a site
type ExpenseService struct {
	eventSink
	siteRepo    domain.SiteRepository
	expenseRepo domain.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(siteRepo domain.SiteRepository, expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{siteRepo: siteRepo, expenseRepo: expenseRepo}
}

// CreateExpenseInput holds the input for recording an expense
type CreateExpenseInput struct {
	Date        *time.Time
	Amount      decimal.Decimal
	Category    domain.ExpenseCategory
	Description string
}

// CreateExpense records an expense against a site
func (s *ExpenseService) CreateExpense(ctx context.Context, workspaceID, siteID int32, input CreateExpenseInput) (*domain.Expense, error) {
	if err := positiveAmount(input.Amount); err != nil {
		return nil, err
	}
	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidExpenseCategory
	}
	description, err := requiredText(input.Description, domain.MaxDescriptionLength, domain.ErrDescriptionRequired, domain.ErrDescriptionTooLong)
	if err != nil {
		return nil, err
	}
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.Create(ctx, &domain.Expense{
		WorkspaceID: workspaceID,
		SiteID:      siteID,
		Date:        entryDate(input.Date),
		Amount:      input.Amount,
		Category:    input.Category,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	s.publishEntryChange(workspaceID, siteID, websocket.EntryCreated(websocket.EntityTypeExpense, siteID, expense))
	return expense, nil
}

// GetExpenses lists the expenses of a site, newest first
func (s *ExpenseService) GetExpenses(ctx context.Context, workspaceID, siteID int32) ([]*domain.Expense, error) {
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return nil, err
	}
	return s.expenseRepo.GetBySite(ctx, workspaceID, siteID)
}

// DeleteExpense removes an expense from a site
func (s *ExpenseService) DeleteExpense(ctx context.Context, workspaceID, siteID, id int32) error {
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, workspaceID, siteID, id); err != nil {
		return err
	}

	s.publishEntryChange(workspaceID, siteID, websocket.EntryDeleted(websocket.EntityTypeExpense, siteID, id))
	return nil
}
