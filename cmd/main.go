package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/jorellortega/covionpartners-sub003/internal/handler"
	"github.com/jorellortega/covionpartners-sub003/internal/ledger"
	"github.com/jorellortega/covionpartners-sub003/internal/middleware"
	"github.com/jorellortega/covionpartners-sub003/internal/service"
	"github.com/jorellortega/covionpartners-sub003/internal/store"
	"github.com/jorellortega/covionpartners-sub003/pkg/config"
	"github.com/jorellortega/covionpartners-sub003/pkg/database"
	"github.com/jorellortega/covionpartners-sub003/pkg/jwtutil"
	"github.com/jorellortega/covionpartners-sub003/pkg/logger"
	"github.com/jorellortega/covionpartners-sub003/pkg/notify"
	"github.com/jorellortega/covionpartners-sub003/pkg/stripe"
	"github.com/jorellortega/covionpartners-sub003/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting partner finance service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)

	// Wire the engine
	db := database.GetDB()
	stripeClient := stripe.NewClient(&cfg.Stripe)
	if !stripeClient.IsConfigured() {
		log.Warn("Stripe is not configured; withdrawal processing will fail until it is")
	}
	notifier := notify.NewClient(&cfg.Notify)

	reports := store.NewReportStore(db)
	withdrawals := store.NewWithdrawalStore(db)
	invitations := store.NewInvitationStore(db)
	reader := ledger.NewReader(ledger.NewGormSource(db))

	handler.InitReportHandler(service.NewReportService(reader, reports, invitations, notifier))
	handler.InitWithdrawalHandler(service.NewWithdrawalService(withdrawals, reports, invitations, stripeClient, notifier))

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// API routes - all require authentication and an organization context
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.Use(middleware.RequireOrganization)

	// Financial reports - generation and sending are administrator-only
	reportsGroup := api.Group("/reports")
	reportsGroup.GET("", handler.ListReports)
	reportsGroup.POST("/generate", handler.GenerateReport, middleware.RequireFinanceAdmin)
	reportsGroup.POST("/:id/send", handler.SendReport, middleware.RequireFinanceAdmin)

	// Withdrawal requests - partners create, administrators decide
	withdrawalsGroup := api.Group("/withdrawals")
	withdrawalsGroup.GET("", handler.ListWithdrawals)
	withdrawalsGroup.POST("", handler.CreateWithdrawal)
	withdrawalsGroup.POST("/:id/approve", handler.ApproveWithdrawal, middleware.RequireFinanceAdmin)
	withdrawalsGroup.POST("/:id/reject", handler.RejectWithdrawal, middleware.RequireFinanceAdmin)
	withdrawalsGroup.POST("/:id/process", handler.ProcessWithdrawal, middleware.RequireFinanceAdmin)

	// Start server
	log.Info("Starting partnerfin-service on port " + cfg.Server.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
