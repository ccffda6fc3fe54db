package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/testutil"
)

type balanceFixture struct {
	sites    *testutil.MockSiteRepository
	invoices *testutil.MockInvoiceRepository
	handler  *BalanceHandler
}

// newBalanceFixture seeds the worked example: funds 2000, expense 1000,
// a 500 money advance, a 200 tools debit and a 300 supervisor invoice.
func newBalanceFixture(status domain.PaymentStatus) *balanceFixture {
	sites := sitesWithTestSite()
	expenses := testutil.NewMockExpenseRepository()
	advances := testutil.NewMockAdvanceRepository()
	funds := testutil.NewMockFundsRepository()
	invoices := testutil.NewMockInvoiceRepository()

	funds.AddFunds(&domain.FundsReceived{WorkspaceID: testWorkspaceID, SiteID: testSiteID, Amount: decimal.NewFromInt(2000)})
	expenses.AddExpense(&domain.Expense{WorkspaceID: testWorkspaceID, SiteID: testSiteID, Amount: decimal.NewFromInt(1000), Category: domain.ExpenseCategoryMaterial, Description: "Rebar"})
	advances.AddAdvance(&domain.Advance{WorkspaceID: testWorkspaceID, SiteID: testSiteID, Amount: decimal.NewFromInt(500), Purpose: domain.AdvancePurposeAdvance, RecipientType: domain.RecipientTypeWorker, RecipientName: "Agus"})
	advances.AddAdvance(&domain.Advance{WorkspaceID: testWorkspaceID, SiteID: testSiteID, Amount: decimal.NewFromInt(200), Purpose: domain.AdvancePurposeTools, RecipientType: domain.RecipientTypeWorker, RecipientName: "Agus"})
	invoices.AddInvoice(&domain.Invoice{WorkspaceID: testWorkspaceID, SiteID: testSiteID, NetAmount: decimal.NewFromInt(300), ApproverType: domain.ApproverTypeSupervisor, PaymentStatus: status})
	invoices.AddInvoice(&domain.Invoice{WorkspaceID: testWorkspaceID, SiteID: testSiteID, NetAmount: decimal.NewFromInt(9999), ApproverType: domain.ApproverTypeHeadOffice, PaymentStatus: domain.PaymentStatusPaid})

	svc := service.NewBalanceService(sites, expenses, advances, funds, invoices)
	return &balanceFixture{sites: sites, invoices: invoices, handler: NewBalanceHandler(svc)}
}

func TestGetSiteBalance_WorkedExample(t *testing.T) {
	tests := []struct {
		status  domain.PaymentStatus
		pending string
	}{
		{domain.PaymentStatusPaid, "0.00"},
		{domain.PaymentStatusPending, "300.00"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			f := newBalanceFixture(tt.status)
			c, rec := newRequestContext(t, http.MethodGet, "/api/v1/sites/10/balance", "", testWorkspaceID, "siteId", "10")

			require.NoError(t, f.handler.GetSiteBalance(c))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp SiteBalanceResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, testSiteID, resp.SiteID)
			assert.Equal(t, "2000.00", resp.Summary.FundsReceived)
			assert.Equal(t, "1000.00", resp.Summary.TotalExpenditure)
			assert.Equal(t, "500.00", resp.Summary.TotalAdvances)
			assert.Equal(t, "200.00", resp.Summary.DebitsToWorker)
			assert.Equal(t, "300.00", resp.Summary.InvoicesPaid)
			assert.Equal(t, tt.pending, resp.Summary.PendingInvoices)
			assert.Equal(t, "200.00", resp.Summary.TotalBalance)
		})
	}
}

func TestGetSiteBalance_UnknownSite(t *testing.T) {
	f := newBalanceFixture(domain.PaymentStatusPaid)
	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/sites/404/balance", "", testWorkspaceID, "siteId", "404")

	require.NoError(t, f.handler.GetSiteBalance(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBalances(t *testing.T) {
	f := newBalanceFixture(domain.PaymentStatusPaid)
	f.sites.AddSite(&domain.Site{ID: 20, WorkspaceID: testWorkspaceID, Name: "Empty Lot"})
	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/balances", "", testWorkspaceID)

	require.NoError(t, f.handler.GetBalances(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []SiteBalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	byID := map[int32]SiteBalanceResponse{}
	for _, b := range resp {
		byID[b.SiteID] = b
	}
	assert.Equal(t, "200.00", byID[testSiteID].Summary.TotalBalance)
	assert.Equal(t, "0.00", byID[20].Summary.TotalBalance)
	assert.Equal(t, "0.00", byID[20].Summary.FundsReceived)
}

func TestGetBalances_MissingWorkspace(t *testing.T) {
	f := newBalanceFixture(domain.PaymentStatusPaid)
	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/balances", "", 0)

	require.NoError(t, f.handler.GetBalances(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
