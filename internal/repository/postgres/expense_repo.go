package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `id, workspace_id, site_id, expense_date, amount, category, description, created_at`

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (workspace_id, site_id, expense_date, amount, category, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+expenseColumns,
		expense.WorkspaceID, expense.SiteID, expense.Date, amount, string(expense.Category), expense.Description,
	)
	return scanExpense(row)
}

// GetBySite retrieves all expenses of a site, newest first
func (r *ExpenseRepository) GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE workspace_id = $1 AND site_id = $2
		ORDER BY expense_date DESC, id DESC`,
		workspaceID, siteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Delete permanently removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM expenses
		WHERE workspace_id = $1 AND site_id = $2 AND id = $3`,
		workspaceID, siteID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e        domain.Expense
		amount   pgtype.Numeric
		category string
	)
	if err := row.Scan(&e.ID, &e.WorkspaceID, &e.SiteID, &e.Date, &amount, &category, &e.Description, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	e.Category = domain.ExpenseCategory(category)
	return &e, nil
}
