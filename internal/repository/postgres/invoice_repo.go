package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `id, workspace_id, site_id, invoice_date, invoice_number, vendor_name, net_amount,
	approver_type, payment_status, attachment_path, created_at, updated_at`

// InvoiceRepository implements domain.InvoiceRepository using PostgreSQL
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// Create inserts a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	netAmount, err := decimalToPgNumeric(invoice.NetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid net amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (workspace_id, site_id, invoice_date, invoice_number, vendor_name, net_amount,
		                      approver_type, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+invoiceColumns,
		invoice.WorkspaceID, invoice.SiteID, invoice.Date, invoice.InvoiceNumber, invoice.VendorName, netAmount,
		string(invoice.ApproverType), string(invoice.PaymentStatus),
	)
	created, err := scanInvoice(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrDuplicateInvoiceNumber
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a single invoice of a site
func (r *InvoiceRepository) GetByID(ctx context.Context, workspaceID int32, siteID int32, id int32) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE workspace_id = $1 AND site_id = $2 AND id = $3`,
		workspaceID, siteID, id,
	)
	invoice, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvoiceNotFound
	}
	return invoice, err
}

// GetBySite retrieves every invoice of a site regardless of approver, newest first
func (r *InvoiceRepository) GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE workspace_id = $1 AND site_id = $2
		ORDER BY invoice_date DESC, id DESC`,
		workspaceID, siteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// UpdatePaymentStatus sets the payment status of an invoice
func (r *InvoiceRepository) UpdatePaymentStatus(ctx context.Context, workspaceID int32, siteID int32, id int32, status domain.PaymentStatus) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE invoices
		SET payment_status = $4, updated_at = NOW()
		WHERE workspace_id = $1 AND site_id = $2 AND id = $3
		RETURNING `+invoiceColumns,
		workspaceID, siteID, id, string(status),
	)
	invoice, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvoiceNotFound
	}
	return invoice, err
}

// SetAttachment stores (or clears, when path is nil) the object path of the invoice scan
func (r *InvoiceRepository) SetAttachment(ctx context.Context, workspaceID int32, siteID int32, id int32, path *string) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE invoices
		SET attachment_path = $4, updated_at = NOW()
		WHERE workspace_id = $1 AND site_id = $2 AND id = $3
		RETURNING `+invoiceColumns,
		workspaceID, siteID, id, path,
	)
	invoice, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvoiceNotFound
	}
	return invoice, err
}

// Delete permanently removes an invoice
func (r *InvoiceRepository) Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM invoices
		WHERE workspace_id = $1 AND site_id = $2 AND id = $3`,
		workspaceID, siteID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var (
		inv           domain.Invoice
		netAmount     pgtype.Numeric
		approverType  string
		paymentStatus string
	)
	err := row.Scan(&inv.ID, &inv.WorkspaceID, &inv.SiteID, &inv.Date, &inv.InvoiceNumber, &inv.VendorName,
		&netAmount, &approverType, &paymentStatus, &inv.AttachmentPath, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.NetAmount = pgNumericToDecimal(netAmount)
	inv.ApproverType = domain.ApproverType(approverType)
	inv.PaymentStatus = domain.PaymentStatus(paymentStatus)
	return &inv, nil
}

// isPgUniqueViolation checks if an error is a PostgreSQL unique constraint violation
func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
