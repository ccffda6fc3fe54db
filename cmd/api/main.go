package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/amqp"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/config"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/handler"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/middleware"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/repository/postgres"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/repository/storage"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

// @title Sitebooks API
// @version 1.0
// @description Construction-site ledger: expenses, advances, funds received, invoices and balances.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.AutoMigrate {
		if err := postgres.MigrateUp(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Migrations applied")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	siteRepo := postgres.NewSiteRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	advanceRepo := postgres.NewAdvanceRepository(pool)
	fundsRepo := postgres.NewFundsRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)

	// Initialize services
	authService := service.NewAuthService(userRepo, workspaceRepo)
	profileService := service.NewProfileService(userRepo)
	workspaceService := service.NewWorkspaceService(workspaceRepo)
	siteService := service.NewSiteService(siteRepo)
	expenseService := service.NewExpenseService(siteRepo, expenseRepo)
	advanceService := service.NewAdvanceService(siteRepo, advanceRepo)
	fundsService := service.NewFundsService(siteRepo, fundsRepo)
	invoiceService := service.NewInvoiceService(siteRepo, invoiceRepo)
	balanceService := service.NewBalanceService(siteRepo, expenseRepo, advanceRepo, fundsRepo, invoiceRepo)

	// Real-time events: WebSocket hub, optionally mirrored to RabbitMQ
	hub := websocket.NewHub()
	publishers := websocket.MultiPublisher{hub}

	var amqpPublisher *amqp.Publisher
	if cfg.AMQP.Enabled() {
		amqpPublisher, err = amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		publishers = append(publishers, amqpPublisher)
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("Mirroring events to RabbitMQ")
	}

	siteService.SetEventPublisher(publishers)
	expenseService.SetEventPublisher(publishers)
	advanceService.SetEventPublisher(publishers)
	fundsService.SetEventPublisher(publishers)
	invoiceService.SetEventPublisher(publishers)
	workspaceService.SetEventPublisher(publishers)

	// Invoice scan storage is optional
	var attachmentService *service.AttachmentService
	if cfg.S3.Enabled() {
		store, err := storage.NewS3ObjectStore(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		attachmentService = service.NewAttachmentService(invoiceRepo, store)
		attachmentService.SetEventPublisher(publishers)
		invoiceService.SetAttachmentService(attachmentService)
		workspaceService.SetAttachmentService(attachmentService)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Invoice scan storage enabled")
	} else {
		log.Warn().Msg("S3 not configured, invoice scan uploads disabled")
	}

	// Create workspace provider adapter for auth middleware and WebSocket auth
	workspaceProvider := &workspaceProviderAdapter{authService: authService}

	// Initialize auth middleware; REST and WebSocket share one JWKS cache
	tokenValidator, err := middleware.NewAuth0Validator(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token validator")
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenValidator, workspaceProvider)
	wsAuthenticator := websocket.NewTokenAuthenticator(tokenValidator, workspaceProvider)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.WriteRateLimit, cfg.WriteBurst)

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Profile:   handler.NewProfileHandler(profileService),
		Workspace: handler.NewWorkspaceHandler(workspaceService),
		Site:      handler.NewSiteHandler(siteService),
		Expense:   handler.NewExpenseHandler(expenseService),
		Advance:   handler.NewAdvanceHandler(advanceService),
		Funds:     handler.NewFundsHandler(fundsService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, attachmentService),
		Balance:   handler.NewBalanceHandler(balanceService),
		WebSocket: handler.NewWebSocketHandler(hub, wsAuthenticator, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ProblemErrorHandler

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{"X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Invoice scans are the largest bodies accepted
	e.Use(echomiddleware.BodyLimit("12M"))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		status, code := "ok", http.StatusOK
		if err := pool.Ping(c.Request().Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		return c.JSON(code, map[string]interface{}{
			"status":               status,
			"websocketClients":     hub.TotalClientCount(),
			"attachmentsEnabled":   attachmentService.IsEnabled(),
			"eventMirroringActive": amqpPublisher != nil,
		})
	})

	servers := handler.DefaultServers
	if cfg.PublicURL != "" {
		servers = []handler.Server{{URL: cfg.PublicURL, Description: cfg.Env}}
	}

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, handlers, handler.RouteOptions{
		RateLimiter: rateLimiter,
		Servers:     servers,
	})

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.CloseAll()
	rateLimiter.Stop()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if amqpPublisher != nil {
		if err := amqpPublisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close RabbitMQ publisher")
		}
	}

	log.Info().Msg("Server exited")
}

// workspaceProviderAdapter adapts AuthService to middleware.WorkspaceProvider and websocket.WorkspaceLookup
type workspaceProviderAdapter struct {
	authService *service.AuthService
}

// GetWorkspaceByAuth0ID resolves the workspace owned by the Auth0 user
func (a *workspaceProviderAdapter) GetWorkspaceByAuth0ID(ctx context.Context, auth0ID string) (int32, error) {
	workspace, err := a.authService.GetWorkspaceByAuth0ID(ctx, auth0ID)
	if err != nil {
		return 0, err
	}
	return workspace.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Int32("workspace_id", middleware.GetWorkspaceID(c)).
				Msg("request")

			return nil
		}
	}
}
