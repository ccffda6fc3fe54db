package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/testutil"
)

func validInvoiceInput() CreateInvoiceInput {
	return CreateInvoiceInput{
		InvoiceNumber: "INV-001",
		VendorName:    "PT Baja Steel",
		NetAmount:     decimal.RequireFromString("300"),
		ApproverType:  domain.ApproverTypeSupervisor,
	}
}

func TestCreateInvoice_DefaultsToPending(t *testing.T) {
	svc := NewInvoiceService(siteRepoWithSite(), testutil.NewMockInvoiceRepository())

	inv, err := svc.CreateInvoice(context.Background(), testWorkspace, testSite, validInvoiceInput())
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, inv.PaymentStatus)
	assert.Equal(t, "INV-001", inv.InvoiceNumber)
}

func TestCreateInvoice_DuplicateVendorNumber(t *testing.T) {
	svc := NewInvoiceService(siteRepoWithSite(), testutil.NewMockInvoiceRepository())
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, testWorkspace, testSite, validInvoiceInput())
	require.NoError(t, err)

	_, err = svc.CreateInvoice(ctx, testWorkspace, testSite, validInvoiceInput())
	assert.ErrorIs(t, err, domain.ErrDuplicateInvoiceNumber)

	other := validInvoiceInput()
	other.VendorName = "CV Semen Jaya"
	_, err = svc.CreateInvoice(ctx, testWorkspace, testSite, other)
	assert.NoError(t, err)
}

func TestCreateInvoice_Validation(t *testing.T) {
	svc := NewInvoiceService(siteRepoWithSite(), testutil.NewMockInvoiceRepository())

	tests := []struct {
		name    string
		mutate  func(in *CreateInvoiceInput)
		wantErr error
	}{
		{"no number", func(in *CreateInvoiceInput) { in.InvoiceNumber = "" }, domain.ErrInvoiceNumberRequired},
		{"no vendor", func(in *CreateInvoiceInput) { in.VendorName = " " }, domain.ErrVendorNameRequired},
		{"zero amount", func(in *CreateInvoiceInput) { in.NetAmount = decimal.Zero }, domain.ErrInvalidAmount},
		{"sub-cent amount", func(in *CreateInvoiceInput) { in.NetAmount = decimal.RequireFromString("0.004") }, domain.ErrInvalidAmount},
		{"three fractional digits", func(in *CreateInvoiceInput) { in.NetAmount = decimal.RequireFromString("12.345") }, domain.ErrInvalidAmount},
		{"bad approver", func(in *CreateInvoiceInput) { in.ApproverType = "director" }, domain.ErrInvalidApproverType},
		{"bad status", func(in *CreateInvoiceInput) { in.PaymentStatus = "overdue" }, domain.ErrInvalidPaymentStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInvoiceInput()
			tt.mutate(&in)
			_, err := svc.CreateInvoice(context.Background(), testWorkspace, testSite, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	invoices := testutil.NewMockInvoiceRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewInvoiceService(siteRepoWithSite(), invoices)
	svc.SetEventPublisher(publisher)

	inv, err := svc.CreateInvoice(context.Background(), testWorkspace, testSite, validInvoiceInput())
	require.NoError(t, err)

	updated, err := svc.UpdatePaymentStatus(context.Background(), testWorkspace, testSite, inv.ID, domain.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, updated.PaymentStatus)

	_, err = svc.UpdatePaymentStatus(context.Background(), testWorkspace, testSite, inv.ID, "void")
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentStatus)

	_, err = svc.UpdatePaymentStatus(context.Background(), testWorkspace, testSite, 999, domain.PaymentStatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	assert.Equal(t, []string{"invoice.created", "balance.changed", "invoice.updated", "balance.changed"}, publisher.Types())
}

func TestDeleteInvoice_RemovesScan(t *testing.T) {
	invoices := testutil.NewMockInvoiceRepository()
	store := testutil.NewMockObjectStore()
	base := "1/sites/10/invoices/3/abc"
	invoices.AddInvoice(&domain.Invoice{ID: 3, WorkspaceID: testWorkspace, SiteID: testSite, AttachmentPath: &base})

	svc := NewInvoiceService(siteRepoWithSite(), invoices)
	svc.SetAttachmentService(NewAttachmentService(invoices, store))

	require.NoError(t, svc.DeleteInvoice(context.Background(), testWorkspace, testSite, 3))
	assert.ElementsMatch(t, []string{base + "_thumb.jpg", base + "_display.jpg", base + "_original.jpg"}, store.Deleted)

	_, err := svc.GetInvoice(context.Background(), testWorkspace, testSite, 3)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestDeleteInvoice_WithoutStorage(t *testing.T) {
	invoices := testutil.NewMockInvoiceRepository()
	base := "x"
	invoices.AddInvoice(&domain.Invoice{ID: 3, WorkspaceID: testWorkspace, SiteID: testSite, AttachmentPath: &base})
	svc := NewInvoiceService(siteRepoWithSite(), invoices)

	assert.NoError(t, svc.DeleteInvoice(context.Background(), testWorkspace, testSite, 3))
}
