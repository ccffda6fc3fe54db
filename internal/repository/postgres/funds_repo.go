package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fundsColumns = `id, workspace_id, site_id, received_date, amount, source, remarks, created_at`

// FundsRepository implements domain.FundsRepository using PostgreSQL
type FundsRepository struct {
	pool *pgxpool.Pool
}

// NewFundsRepository creates a new FundsRepository
func NewFundsRepository(pool *pgxpool.Pool) *FundsRepository {
	return &FundsRepository{pool: pool}
}

// Create inserts a new funds received entry
func (r *FundsRepository) Create(ctx context.Context, funds *domain.FundsReceived) (*domain.FundsReceived, error) {
	amount, err := decimalToPgNumeric(funds.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO funds_received (workspace_id, site_id, received_date, amount, source, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+fundsColumns,
		funds.WorkspaceID, funds.SiteID, funds.Date, amount, funds.Source, funds.Remarks,
	)
	return scanFunds(row)
}

// GetBySite retrieves all funds received by a site, newest first
func (r *FundsRepository) GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*domain.FundsReceived, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+fundsColumns+`
		FROM funds_received
		WHERE workspace_id = $1 AND site_id = $2
		ORDER BY received_date DESC, id DESC`,
		workspaceID, siteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	funds := make([]*domain.FundsReceived, 0)
	for rows.Next() {
		f, err := scanFunds(rows)
		if err != nil {
			return nil, err
		}
		funds = append(funds, f)
	}
	return funds, rows.Err()
}

// Delete permanently removes a funds received entry
func (r *FundsRepository) Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM funds_received
		WHERE workspace_id = $1 AND site_id = $2 AND id = $3`,
		workspaceID, siteID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFundsNotFound
	}
	return nil
}

func scanFunds(row pgx.Row) (*domain.FundsReceived, error) {
	var (
		f      domain.FundsReceived
		amount pgtype.Numeric
	)
	if err := row.Scan(&f.ID, &f.WorkspaceID, &f.SiteID, &f.Date, &amount, &f.Source, &f.Remarks, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Amount = pgNumericToDecimal(amount)
	return &f, nil
}
