package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/middleware"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes
type Handlers struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Workspace *WorkspaceHandler
	Site      *SiteHandler
	Expense   *ExpenseHandler
	Advance   *AdvanceHandler
	Funds     *FundsHandler
	Invoice   *InvoiceHandler
	Balance   *BalanceHandler
	WebSocket *WebSocketHandler
}

// RouteOptions carries the optional pieces of routing
type RouteOptions struct {
	// RateLimiter throttles writes per workspace; nil disables throttling
	RateLimiter *middleware.RateLimiter
	// Servers are advertised in /openapi.json
	Servers []Server
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, h Handlers, opts RouteOptions) {
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", NewOpenAPI3Handler(opts.Servers))

	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}

	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	if opts.RateLimiter != nil {
		api.Use(middleware.WriteRateLimitMiddleware(opts.RateLimiter))
	}

	auth := api.Group("/auth")
	auth.POST("/callback", h.Auth.Callback)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	api.GET("/profile", h.Profile.GetProfile)
	api.PUT("/profile", h.Profile.UpdateProfile)

	api.GET("/workspace", h.Workspace.GetWorkspace)
	api.PUT("/workspace", h.Workspace.RenameWorkspace)
	api.DELETE("/workspace/data", h.Workspace.ClearAllData)

	api.GET("/balances", h.Balance.GetBalances)

	sites := api.Group("/sites")
	sites.POST("", h.Site.CreateSite)
	sites.GET("", h.Site.GetSites)
	sites.GET("/:siteId", h.Site.GetSite)
	sites.PUT("/:siteId", h.Site.UpdateSite)
	sites.DELETE("/:siteId", h.Site.DeleteSite)
	sites.GET("/:siteId/balance", h.Balance.GetSiteBalance)

	sites.POST("/:siteId/expenses", h.Expense.CreateExpense)
	sites.GET("/:siteId/expenses", h.Expense.GetExpenses)
	sites.DELETE("/:siteId/expenses/:id", h.Expense.DeleteExpense)

	sites.POST("/:siteId/advances", h.Advance.CreateAdvance)
	sites.GET("/:siteId/advances", h.Advance.GetAdvances)
	sites.DELETE("/:siteId/advances/:id", h.Advance.DeleteAdvance)

	sites.POST("/:siteId/funds", h.Funds.CreateFunds)
	sites.GET("/:siteId/funds", h.Funds.GetFunds)
	sites.DELETE("/:siteId/funds/:id", h.Funds.DeleteFunds)

	sites.POST("/:siteId/invoices", h.Invoice.CreateInvoice)
	sites.GET("/:siteId/invoices", h.Invoice.GetInvoices)
	sites.GET("/:siteId/invoices/:id", h.Invoice.GetInvoice)
	sites.DELETE("/:siteId/invoices/:id", h.Invoice.DeleteInvoice)
	sites.PATCH("/:siteId/invoices/:id/payment-status", h.Invoice.UpdatePaymentStatus)
	sites.POST("/:siteId/invoices/:id/attachment", h.Invoice.UploadAttachment)
	sites.GET("/:siteId/invoices/:id/attachment", h.Invoice.GetAttachment)
}
