package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/testutil"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/util"
)

func sitesWithTestSite() *testutil.MockSiteRepository {
	sites := testutil.NewMockSiteRepository()
	sites.AddSite(&domain.Site{ID: testSiteID, WorkspaceID: testWorkspaceID, Name: "Harbour Tower"})
	return sites
}

func TestCreateExpense_Success(t *testing.T) {
	expenses := testutil.NewMockExpenseRepository()
	h := NewExpenseHandler(service.NewExpenseService(sitesWithTestSite(), expenses))
	body := `{"date":"2024-03-05","amount":"1250.50","category":"material","description":"Cement 25 sacks"}`
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/sites/10/expenses", body, testWorkspaceID, "siteId", "10")

	require.NoError(t, h.CreateExpense(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp ExpenseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-03-05", resp.Date)
	assert.Equal(t, "1250.50", resp.Amount)
	assert.Equal(t, "material", resp.Category)
	assert.Equal(t, testSiteID, resp.SiteID)
}

func TestCreateExpense_DefaultsDateToToday(t *testing.T) {
	expenses := testutil.NewMockExpenseRepository()
	h := NewExpenseHandler(service.NewExpenseService(sitesWithTestSite(), expenses))
	body := `{"amount":"80","category":"food","description":"Lunch for crew"}`
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/sites/10/expenses", body, testWorkspaceID, "siteId", "10")

	require.NoError(t, h.CreateExpense(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ExpenseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, util.FormatDate(util.Today()), resp.Date)
}

func TestCreateExpense_Validation(t *testing.T) {
	h := NewExpenseHandler(service.NewExpenseService(sitesWithTestSite(), testutil.NewMockExpenseRepository()))

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"non numeric amount", `{"amount":"abc","category":"food","description":"x"}`, "amount"},
		{"nan amount", `{"amount":"NaN","category":"food","description":"x"}`, "amount"},
		{"negative amount", `{"amount":"-5","category":"food","description":"x"}`, "amount"},
		{"zero amount", `{"amount":"0","category":"food","description":"x"}`, "amount"},
		{"sub-cent amount", `{"amount":"0.004","category":"food","description":"x"}`, "amount"},
		{"huge exponent amount", `{"amount":"1e-90000000","category":"food","description":"x"}`, "amount"},
		{"bad date", `{"date":"05/03/2024","amount":"5","category":"food","description":"x"}`, "date"},
		{"unknown category", `{"amount":"5","category":"fuel","description":"x"}`, "category"},
		{"missing description", `{"amount":"5","category":"food","description":" "}`, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRequestContext(t, http.MethodPost, "/api/v1/sites/10/expenses", tt.body, testWorkspaceID, "siteId", "10")
			require.NoError(t, h.CreateExpense(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			problem := decodeProblem(t, rec)
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
		})
	}
}

func TestCreateExpense_UnknownSite(t *testing.T) {
	h := NewExpenseHandler(service.NewExpenseService(sitesWithTestSite(), testutil.NewMockExpenseRepository()))
	body := `{"amount":"5","category":"food","description":"x"}`
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/sites/77/expenses", body, testWorkspaceID, "siteId", "77")

	require.NoError(t, h.CreateExpense(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Site not found", decodeProblem(t, rec).Detail)
}

func TestGetAndDeleteExpenses(t *testing.T) {
	expenses := testutil.NewMockExpenseRepository()
	expenses.AddExpense(&domain.Expense{ID: 1, WorkspaceID: testWorkspaceID, SiteID: testSiteID, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(100), Category: domain.ExpenseCategoryTransport, Description: "Truck"})
	expenses.AddExpense(&domain.Expense{ID: 2, WorkspaceID: testWorkspaceID, SiteID: testSiteID, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(40), Category: domain.ExpenseCategoryFood, Description: "Snacks"})
	h := NewExpenseHandler(service.NewExpenseService(sitesWithTestSite(), expenses))

	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/sites/10/expenses", "", testWorkspaceID, "siteId", "10")
	require.NoError(t, h.GetExpenses(c))
	var list []ExpenseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, int32(2), list[0].ID)

	c, rec = newRequestContext(t, http.MethodDelete, "/api/v1/sites/10/expenses/1", "", testWorkspaceID, "siteId", "10", "id", "1")
	require.NoError(t, h.DeleteExpense(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newRequestContext(t, http.MethodDelete, "/api/v1/sites/10/expenses/1", "", testWorkspaceID, "siteId", "10", "id", "1")
	require.NoError(t, h.DeleteExpense(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAdvance(t *testing.T) {
	advances := testutil.NewMockAdvanceRepository()
	h := NewAdvanceHandler(service.NewAdvanceService(sitesWithTestSite(), advances))

	body := `{"amount":"200","purpose":"tools","recipientType":"worker","recipientName":"Budi","remarks":"Hammer drill"}`
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/sites/10/advances", body, testWorkspaceID, "siteId", "10")
	require.NoError(t, h.CreateAdvance(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp AdvanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tools", resp.Purpose)
	assert.Equal(t, "200.00", resp.Amount)
	require.NotNil(t, resp.Remarks)

	body = `{"amount":"200","purpose":"bonus","recipientType":"worker","recipientName":"Budi"}`
	c, rec = newRequestContext(t, http.MethodPost, "/api/v1/sites/10/advances", body, testWorkspaceID, "siteId", "10")
	require.NoError(t, h.CreateAdvance(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "purpose", decodeProblem(t, rec).Errors[0].Field)

	body = `{"amount":"200","purpose":"advance","recipientType":"foreman","recipientName":"Budi"}`
	c, rec = newRequestContext(t, http.MethodPost, "/api/v1/sites/10/advances", body, testWorkspaceID, "siteId", "10")
	require.NoError(t, h.CreateAdvance(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "recipientType", decodeProblem(t, rec).Errors[0].Field)
}

func TestGetAndDeleteAdvances(t *testing.T) {
	advances := testutil.NewMockAdvanceRepository()
	advances.AddAdvance(&domain.Advance{ID: 5, WorkspaceID: testWorkspaceID, SiteID: testSiteID, Amount: decimal.NewFromInt(500), Purpose: domain.AdvancePurposeAdvance, RecipientType: domain.RecipientTypeStaff, RecipientName: "Sari"})
	h := NewAdvanceHandler(service.NewAdvanceService(sitesWithTestSite(), advances))

	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/sites/10/advances", "", testWorkspaceID, "siteId", "10")
	require.NoError(t, h.GetAdvances(c))
	var list []AdvanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	c, rec = newRequestContext(t, http.MethodDelete, "/api/v1/sites/10/advances/x", "", testWorkspaceID, "siteId", "10", "id", "x")
	require.NoError(t, h.DeleteAdvance(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newRequestContext(t, http.MethodDelete, "/api/v1/sites/10/advances/5", "", testWorkspaceID, "siteId", "10", "id", "5")
	require.NoError(t, h.DeleteAdvance(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateFunds(t *testing.T) {
	funds := testutil.NewMockFundsRepository()
	h := NewFundsHandler(service.NewFundsService(sitesWithTestSite(), funds))

	body := `{"date":"2024-02-29","amount":"2000.50","source":"Head office transfer"}`
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/sites/10/funds", body, testWorkspaceID, "siteId", "10")
	require.NoError(t, h.CreateFunds(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp FundsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-02-29", resp.Date)
	require.NotNil(t, resp.Source)
	assert.Equal(t, "Head office transfer", *resp.Source)

	c, rec = newRequestContext(t, http.MethodGet, "/api/v1/sites/10/funds", "", testWorkspaceID, "siteId", "10")
	require.NoError(t, h.GetFunds(c))
	var list []FundsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	c, rec = newRequestContext(t, http.MethodDelete, "/api/v1/sites/10/funds/1", "", testWorkspaceID, "siteId", "10", "id", "1")
	require.NoError(t, h.DeleteFunds(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateFunds_MissingAmount(t *testing.T) {
	h := NewFundsHandler(service.NewFundsService(sitesWithTestSite(), testutil.NewMockFundsRepository()))
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/sites/10/funds", `{"source":"HO"}`, testWorkspaceID, "siteId", "10")

	require.NoError(t, h.CreateFunds(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "amount", decodeProblem(t, rec).Errors[0].Field)
}
