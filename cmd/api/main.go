package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/NetraTech/netra_api/internal/cache"
	"github.com/NetraTech/netra_api/internal/config"
	"github.com/NetraTech/netra_api/internal/database"
	"github.com/NetraTech/netra_api/internal/handler"
	"github.com/NetraTech/netra_api/internal/middleware"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/sse"
	"github.com/NetraTech/netra_api/internal/utils"
	"github.com/NetraTech/netra_api/internal/worker"
	"github.com/NetraTech/netra_api/pkg/optilab"
)

// main is the application entrypoint for the Netra API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger and JWT signing
	setupLogger(cfg.Env)
	utils.InitJWT(cfg.JWTSecret)
	log.Info().Str("env", cfg.Env).Msg("starting netra api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize stats cache
	statsCache := cache.NewStatsCache(redisClient)

	// 4. Initialize Optilab client (lens lab ordering)
	optilabClient := optilab.NewClient(
		cfg.Optilab.BaseURL,
		cfg.Optilab.MemberID,
		cfg.Optilab.KeyProduction,
		cfg.Optilab.KeyTraining,
	)

	// 5. Initialize repositories
	branchRepo := repository.NewBranchRepository(db)
	terminalRepo := repository.NewTerminalRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	eyeTestRepo := repository.NewEyeTestRepository(db)
	productRepo := repository.NewProductRepository(db)
	skuRepo := repository.NewSKURepository(db)
	saleRepo := repository.NewSaleRepository(db)
	labRepo := repository.NewLabOrderRepository(db)
	rxScanRepo := repository.NewRxScanRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// 5a. SSE hub for live dashboard updates
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 6. Initialize services
	authSvc := service.NewAuthService(terminalRepo)
	staffAuthSvc := service.NewStaffAuthService(staffRepo)
	terminalSvc := service.NewTerminalService(terminalRepo, branchRepo)
	patientSvc := service.NewPatientService(patientRepo)
	eyeTestSvc := service.NewEyeTestService(eyeTestRepo, patientRepo)
	productSvc := service.NewProductService(productRepo, skuRepo)
	productMgmtSvc := service.NewProductManagementService(productRepo, skuRepo)
	suggestionSvc := service.NewSuggestionService(patientRepo, eyeTestRepo)
	emailSvc := service.NewEmailService(&cfg.Email)
	labSvc := service.NewLabOrderService(labRepo, optilabClient, &cfg.Worker, notifier)
	saleSvc := service.NewSaleService(saleRepo, skuRepo, labRepo, labSvc, patientRepo, settingRepo, statsCache, notifier, emailSvc)
	dashboardSvc := service.NewDashboardService(saleRepo, eyeTestRepo, patientRepo, labRepo, skuRepo, statsCache)
	settingSvc := service.NewSettingService(settingRepo)
	taskSvc := service.NewTaskService(taskRepo)

	// S3 service for prescription scan storage
	s3Svc, err := service.NewS3Service(&cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("S3 service initialization failed - rx scan upload will be disabled")
	}
	rxScanSvc := service.NewRxScanService(rxScanRepo, s3Svc, cfg)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:            handler.NewHealthHandler(db, redisClient, optilabClient),
		Product:           handler.NewProductHandler(productSvc),
		Suggestion:        handler.NewSuggestionHandler(suggestionSvc),
		Patient:           handler.NewPatientHandler(patientSvc),
		EyeTest:           handler.NewEyeTestHandler(eyeTestSvc, patientSvc),
		Sale:              handler.NewSaleHandler(saleSvc, labSvc),
		LabOrder:          handler.NewLabOrderHandler(labSvc),
		RxScan:            handler.NewRxScanHandler(rxScanSvc),
		Webhook:           handler.NewWebhookHandler(labSvc, cfg.Optilab.WebhookSecret),
		StaffAuth:         handler.NewStaffAuthHandler(staffAuthSvc),
		Staff:             handler.NewStaffHandler(staffAuthSvc, staffRepo),
		Branch:            handler.NewBranchHandler(branchRepo),
		Terminal:          handler.NewTerminalHandler(terminalSvc),
		AdminSale:         handler.NewAdminSaleHandler(saleRepo),
		ProductManagement: handler.NewProductManagementHandler(productMgmtSvc),
		Dashboard:         handler.NewDashboardHandler(dashboardSvc),
		SSE:               handler.NewSSEHandler(hub),
		Setting:           handler.NewSettingHandler(settingSvc),
		Task:              handler.NewTaskHandler(taskSvc),
	}

	// 8. Initialize middleware
	authMw := middleware.NewAuthMiddleware(authSvc)
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	setupRoutes(router, handlers, authMw, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewLabDispatchWorker(labSvc, cfg.Worker.LabDispatchInterval).Start(ctx)
	go worker.NewLabStatusWorker(labSvc, cfg.Worker.LabStatusInterval).Start(ctx)
	go worker.NewStockAlertWorker(skuRepo, emailSvc, notifier, cfg.Worker.StockAlertInterval).Start(ctx)
	go worker.NewReportWorker(dashboardSvc, emailSvc, cfg.Worker.ReportInterval, cfg.Worker.ReportDailyHour).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Product           *handler.ProductHandler
	Suggestion        *handler.SuggestionHandler
	Patient           *handler.PatientHandler
	EyeTest           *handler.EyeTestHandler
	Sale              *handler.SaleHandler
	LabOrder          *handler.LabOrderHandler
	RxScan            *handler.RxScanHandler
	Webhook           *handler.WebhookHandler
	StaffAuth         *handler.StaffAuthHandler
	Staff             *handler.StaffHandler
	Branch            *handler.BranchHandler
	Terminal          *handler.TerminalHandler
	AdminSale         *handler.AdminSaleHandler
	ProductManagement *handler.ProductManagementHandler
	Dashboard         *handler.DashboardHandler
	SSE               *handler.SSEHandler
	Setting           *handler.SettingHandler
	Task              *handler.TaskHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware, jwtMiddleware *middleware.JWTMiddleware) {
	// Lab webhook endpoint
	router.POST("/webhook/optilab", handlers.Webhook.HandleOptilabCallback)

	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// POS routes (protected with terminal API key)
	pos := router.Group("/v1")
	pos.Use(authMiddleware.Handle())
	{
		// Directories
		pos.GET("/branches", handlers.Branch.GetDirectory)
		pos.GET("/lens-prices", handlers.Suggestion.GetLensPrices)

		// Catalog
		pos.GET("/products", handlers.Product.GetProducts)
		pos.GET("/products/categories", handlers.Product.GetCategories)
		pos.GET("/products/brands", handlers.Product.GetBrands)
		pos.GET("/products/:id", handlers.Product.GetProductDetail)
		pos.GET("/skus/:code", handlers.Product.GetSKU)

		// Lens suggestions
		pos.POST("/suggestions", handlers.Suggestion.Suggest)

		// Patients
		pos.POST("/patients", handlers.Patient.CreatePatient)
		pos.GET("/patients/search", handlers.Patient.SearchPatients)
		pos.GET("/patients/:code", handlers.Patient.GetPatient)
		pos.PUT("/patients/:code", handlers.Patient.UpdatePatient)
		pos.GET("/patients/:code/eye-tests", handlers.EyeTest.GetHistory)
		pos.GET("/patients/:code/eye-tests/latest", handlers.EyeTest.GetLatestForPatient)

		// Eye tests
		pos.POST("/eye-tests", handlers.EyeTest.CreateEyeTest)
		pos.GET("/eye-tests/:id", handlers.EyeTest.GetEyeTest)
		pos.GET("/eye-tests/:id/suggestions", handlers.Suggestion.SuggestForEyeTest)

		// Sales
		pos.POST("/sales", handlers.Sale.CreateSale)
		pos.GET("/sales/:saleNumber", handlers.Sale.GetSale)
		pos.POST("/sales/:saleNumber/cancel", handlers.Sale.CancelSale)
		pos.GET("/sales/:saleNumber/lab-orders", handlers.Sale.GetSaleLabOrders)

		// Lab orders
		pos.GET("/lab-orders/:orderNumber", handlers.LabOrder.GetOrder)
		pos.POST("/lab-orders/:orderNumber/deliver", handlers.LabOrder.MarkDelivered)

		// Prescription scans
		pos.POST("/rx-scans", handlers.RxScan.UploadScan)
		pos.GET("/rx-scans/:id", handlers.RxScan.GetScan)
	}

	// Admin routes
	admin := router.Group("/admin/v1")
	admin.POST("/auth/login", handlers.StaffAuth.Login)
	// EventSource cannot set headers; the stream validates its own token.
	admin.GET("/dashboard/stream", handlers.SSE.Stream)
	admin.Use(jwtMiddleware.Handle())
	{
		admin.POST("/auth/change-password", handlers.StaffAuth.ChangePassword)

		// Dashboard
		admin.GET("/dashboard/stats", handlers.Dashboard.GetStats)
		admin.GET("/dashboard/trend", handlers.Dashboard.GetTrend)

		// Branch Management
		admin.GET("/branches", handlers.Branch.ListBranches)
		admin.POST("/branches", handlers.Branch.CreateBranch)
		admin.GET("/branches/:id", handlers.Branch.GetBranch)
		admin.PUT("/branches/:id", handlers.Branch.UpdateBranch)

		// Terminal Management
		admin.GET("/terminals", handlers.Terminal.ListTerminals)
		admin.POST("/terminals", handlers.Terminal.CreateTerminal)
		admin.GET("/terminals/:id", handlers.Terminal.GetTerminal)
		admin.PUT("/terminals/:id", handlers.Terminal.UpdateTerminal)
		admin.POST("/terminals/:id/regenerate", handlers.Terminal.RegenerateKeys)

		// Staff Management
		admin.GET("/staff", handlers.Staff.ListStaff)
		admin.POST("/staff", handlers.Staff.CreateStaff)
		admin.GET("/staff/:id", handlers.Staff.GetStaff)
		admin.PUT("/staff/:id", handlers.Staff.UpdateStaff)

		// Patients
		admin.GET("/patients", handlers.Patient.ListPatients)
		admin.GET("/patients/:id", handlers.Patient.GetPatientByID)
		admin.GET("/patients/:id/rx-scans", handlers.RxScan.GetPatientScans)

		// Eye tests
		admin.GET("/eye-tests", handlers.EyeTest.ListEyeTests)

		// Product Management
		admin.GET("/products", handlers.ProductManagement.ListProducts)
		admin.POST("/products", handlers.ProductManagement.CreateProduct)
		admin.GET("/products/:id", handlers.ProductManagement.GetProduct)
		admin.PUT("/products/:id", handlers.ProductManagement.UpdateProduct)
		admin.DELETE("/products/:id", handlers.ProductManagement.DeleteProduct)

		// SKU Management
		admin.POST("/products/:id/skus", handlers.ProductManagement.CreateSKU)
		admin.GET("/products/:id/skus", handlers.ProductManagement.GetProductSKUs)
		admin.GET("/skus/low-stock", handlers.ProductManagement.GetLowStock)
		admin.GET("/skus/:id", handlers.ProductManagement.GetSKU)
		admin.PUT("/skus/:id", handlers.ProductManagement.UpdateSKU)
		admin.POST("/skus/:id/adjust-stock", handlers.ProductManagement.AdjustStock)
		admin.DELETE("/skus/:id", handlers.ProductManagement.DeleteSKU)

		// Sales
		admin.GET("/sales", handlers.AdminSale.ListSales)
		admin.GET("/sales/:id", handlers.AdminSale.GetSale)

		// Lab Orders
		admin.GET("/lab-orders", handlers.LabOrder.ListOrders)
		admin.POST("/lab-orders/:orderNumber/requeue", handlers.LabOrder.Requeue)
		admin.GET("/lab/ping", handlers.LabOrder.PingLab)

		// Settings
		admin.GET("/settings", handlers.Setting.ListSettings)
		admin.GET("/settings/:key", handlers.Setting.GetSetting)
		admin.PUT("/settings/:key", handlers.Setting.UpsertSetting)
		admin.DELETE("/settings/:key", handlers.Setting.DeleteSetting)

		// Tasks
		admin.GET("/tasks", handlers.Task.ListTasks)
		admin.POST("/tasks", handlers.Task.CreateTask)
		admin.GET("/tasks/:id", handlers.Task.GetTask)
		admin.PUT("/tasks/:id", handlers.Task.UpdateTask)
		admin.POST("/tasks/:id/done", handlers.Task.CompleteTask)
		admin.DELETE("/tasks/:id", handlers.Task.DeleteTask)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
