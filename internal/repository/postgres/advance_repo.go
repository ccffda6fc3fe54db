package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const advanceColumns = `id, workspace_id, site_id, advance_date, amount, purpose, recipient_type, recipient_name, remarks, created_at`

// AdvanceRepository implements domain.AdvanceRepository using PostgreSQL
type AdvanceRepository struct {
	pool *pgxpool.Pool
}

// NewAdvanceRepository creates a new AdvanceRepository
func NewAdvanceRepository(pool *pgxpool.Pool) *AdvanceRepository {
	return &AdvanceRepository{pool: pool}
}

// Create inserts a new advance
func (r *AdvanceRepository) Create(ctx context.Context, advance *domain.Advance) (*domain.Advance, error) {
	amount, err := decimalToPgNumeric(advance.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO advances (workspace_id, site_id, advance_date, amount, purpose, recipient_type, recipient_name, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+advanceColumns,
		advance.WorkspaceID, advance.SiteID, advance.Date, amount,
		string(advance.Purpose), string(advance.RecipientType), advance.RecipientName, advance.Remarks,
	)
	return scanAdvance(row)
}

// GetBySite retrieves all advances of a site, newest first
func (r *AdvanceRepository) GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*domain.Advance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+advanceColumns+`
		FROM advances
		WHERE workspace_id = $1 AND site_id = $2
		ORDER BY advance_date DESC, id DESC`,
		workspaceID, siteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	advances := make([]*domain.Advance, 0)
	for rows.Next() {
		advance, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		advances = append(advances, advance)
	}
	return advances, rows.Err()
}

// Delete permanently removes an advance
func (r *AdvanceRepository) Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM advances
		WHERE workspace_id = $1 AND site_id = $2 AND id = $3`,
		workspaceID, siteID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAdvanceNotFound
	}
	return nil
}

func scanAdvance(row pgx.Row) (*domain.Advance, error) {
	var (
		a             domain.Advance
		amount        pgtype.Numeric
		purpose       string
		recipientType string
	)
	err := row.Scan(&a.ID, &a.WorkspaceID, &a.SiteID, &a.Date, &amount, &purpose,
		&recipientType, &a.RecipientName, &a.Remarks, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Amount = pgNumericToDecimal(amount)
	a.Purpose = domain.AdvancePurpose(purpose)
	a.RecipientType = domain.RecipientType(recipientType)
	return &a, nil
}
