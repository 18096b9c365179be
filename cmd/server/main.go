package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/fleetops/backend/internal/application/billing"
	fleetapp "github.com/fleetops/backend/internal/application/fleet"
	identityapp "github.com/fleetops/backend/internal/application/identity"
	operationsapp "github.com/fleetops/backend/internal/application/operations"
	partnerapp "github.com/fleetops/backend/internal/application/partner"
	reportapp "github.com/fleetops/backend/internal/application/report"
	"github.com/fleetops/backend/internal/infrastructure/auth"
	"github.com/fleetops/backend/internal/infrastructure/cache"
	"github.com/fleetops/backend/internal/infrastructure/config"
	"github.com/fleetops/backend/internal/infrastructure/event"
	"github.com/fleetops/backend/internal/infrastructure/logger"
	"github.com/fleetops/backend/internal/infrastructure/notification"
	"github.com/fleetops/backend/internal/infrastructure/persistence"
	"github.com/fleetops/backend/internal/infrastructure/report"
	"github.com/fleetops/backend/internal/interfaces/http/handler"
	"github.com/fleetops/backend/internal/interfaces/http/middleware"
	"github.com/fleetops/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting FleetOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection. SQL statement logging only in debug.
	gormLevel := gormlogger.Silent
	if cfg.Log.Level == "debug" {
		gormLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis backs the token blacklist and the page cache. The server
	// still runs without it, with in-memory token revocation only.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisAvailable := true
	{
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
			redisAvailable = false
		}
		cancel()
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	var blacklist auth.TokenBlacklist
	if redisAvailable {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Initialize repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	editRequestRepo := persistence.NewGormEditRequestRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	truckRepo := persistence.NewGormTruckRepository(db.DB)
	driverRepo := persistence.NewGormDriverRepository(db.DB)
	tripRepo := persistence.NewGormTripRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	expenseCategoryRepo := persistence.NewGormExpenseCategoryRepository(db.DB)
	reportQueries := persistence.NewGormReportQueries(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbound notifications (workflow agent webhooks plus email)
	agentClient := notification.NewAgentClient(&cfg.Notification)
	emailSender := notification.NewLogEmailSender(cfg.Notification.EmailFrom, log)
	if cfg.Notification.Enabled {
		eventBus.Subscribe(notification.NewTripAssignedHandler(agentClient, log))
		eventBus.Subscribe(notification.NewInvoiceCreatedHandler(agentClient, emailSender, customerRepo, log))
		eventBus.Subscribe(notification.NewUserWelcomeHandler(emailSender, log))
		log.Info("Notification handlers registered", zap.String("agent", cfg.Notification.AgentBaseURL))
	}

	// Page cache invalidation listens to all domain events
	if cfg.Cache.Enabled && redisAvailable {
		pageCache := cache.NewRedisPageCache(redisClient, cfg.Cache, log)
		eventBus.Subscribe(cache.NewInvalidationHandler(pageCache, log))
		log.Info("Page cache invalidation enabled", zap.String("prefix", cfg.Cache.KeyPrefix))
	}

	// PDF renderer for reports. Reports degrade to JSON-only when the
	// headless browser cannot start.
	var pdfRenderer report.PDFRenderer
	renderer, err := report.NewChromedpRenderer(&cfg.Report, log)
	if err != nil {
		log.Warn("PDF renderer unavailable", zap.Error(err))
	} else {
		pdfRenderer = renderer
		defer renderer.Close()
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, authService, log)
	editRequestService := identityapp.NewEditRequestService(editRequestRepo, log)

	// Domain services
	customerService := partnerapp.NewCustomerService(customerRepo, tripRepo, invoiceRepo, log)
	truckService := fleetapp.NewTruckService(truckRepo, driverRepo, tripRepo, log)
	driverService := fleetapp.NewDriverService(driverRepo, truckRepo, tripRepo, db, log)
	tripService := operationsapp.NewTripService(tripRepo, truckRepo, driverRepo, customerRepo, invoiceRepo, expenseRepo, db, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, paymentRepo, customerRepo, tripRepo, db, log)
	paymentService := billingapp.NewPaymentService(paymentRepo, invoiceRepo, db, log)
	expenseService := billingapp.NewExpenseService(expenseRepo, expenseCategoryRepo, tripRepo, log)
	reportService := reportapp.NewReportService(reportQueries, orgRepo, pdfRenderer, log)

	// Wire domain event publishing
	userService.SetEventPublisher(eventBus)
	editRequestService.SetEventPublisher(eventBus)
	truckService.SetEventPublisher(eventBus)
	driverService.SetEventPublisher(eventBus)
	tripService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)
	invoiceService.SetReminderNotifier(notification.NewInvoiceReminderNotifier(agentClient, emailSender, customerRepo, log))

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	editRequestHandler := handler.NewEditRequestHandler(editRequestService)
	customerHandler := handler.NewCustomerHandler(customerService)
	truckHandler := handler.NewTruckHandler(truckService)
	driverHandler := handler.NewDriverHandler(driverService)
	tripHandler := handler.NewTripHandler(tripService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, paymentService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	reportHandler := handler.NewReportHandler(reportService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtAuth := middleware.JWTAuth(jwtService, blacklist, log)

	// Public authentication routes
	authRoutes := router.NewDomainGroup("/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", jwtAuth, authHandler.Logout)

	// Identity domain (users, edit requests)
	identityRoutes := router.NewDomainGroup("/identity").Use(jwtAuth)

	identityRoutes.POST("/users", middleware.RequireAdmin(), userHandler.Create)
	identityRoutes.GET("/users", userHandler.List)
	identityRoutes.GET("/users/:id", userHandler.Get)
	identityRoutes.PUT("/users/:id", middleware.RequireAdmin(), userHandler.Update)
	identityRoutes.PUT("/users/:id/role", middleware.RequireAdmin(), userHandler.ChangeRole)
	identityRoutes.PUT("/users/:id/password", userHandler.ChangePassword)
	identityRoutes.POST("/users/:id/activate", middleware.RequireAdmin(), userHandler.Activate)
	identityRoutes.POST("/users/:id/deactivate", middleware.RequireAdmin(), userHandler.Deactivate)

	identityRoutes.POST("/edit-requests", editRequestHandler.Create)
	identityRoutes.GET("/edit-requests", editRequestHandler.List)
	identityRoutes.GET("/edit-requests/:id", editRequestHandler.Get)
	identityRoutes.POST("/edit-requests/:id/approve", middleware.RequireManager(), editRequestHandler.Approve)
	identityRoutes.POST("/edit-requests/:id/reject", middleware.RequireManager(), editRequestHandler.Reject)

	// Partner domain (customers)
	partnerRoutes := router.NewDomainGroup("/partner").Use(jwtAuth)
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.Get)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)
	partnerRoutes.DELETE("/customers/:id", customerHandler.Delete)

	// Fleet domain (trucks, drivers)
	fleetRoutes := router.NewDomainGroup("/fleet").Use(jwtAuth)

	fleetRoutes.POST("/trucks", truckHandler.Create)
	fleetRoutes.GET("/trucks", truckHandler.List)
	fleetRoutes.GET("/trucks/:id", truckHandler.Get)
	fleetRoutes.PUT("/trucks/:id", truckHandler.Update)
	fleetRoutes.POST("/trucks/:id/maintenance", truckHandler.SendToMaintenance)
	fleetRoutes.POST("/trucks/:id/return-to-service", truckHandler.ReturnToService)
	fleetRoutes.POST("/trucks/:id/retire", truckHandler.Retire)
	fleetRoutes.DELETE("/trucks/:id", truckHandler.Delete)

	fleetRoutes.POST("/drivers", driverHandler.Create)
	fleetRoutes.GET("/drivers", driverHandler.List)
	fleetRoutes.GET("/drivers/:id", driverHandler.Get)
	fleetRoutes.PUT("/drivers/:id", driverHandler.Update)
	fleetRoutes.POST("/drivers/:id/assign-truck", driverHandler.AssignTruck)
	fleetRoutes.POST("/drivers/:id/unassign-truck", driverHandler.UnassignTruck)
	fleetRoutes.POST("/drivers/:id/leave", driverHandler.GoOnLeave)
	fleetRoutes.POST("/drivers/:id/return", driverHandler.ReturnFromLeave)
	fleetRoutes.POST("/drivers/:id/deactivate", driverHandler.Deactivate)
	fleetRoutes.DELETE("/drivers/:id", driverHandler.Delete)

	// Operations domain (trips)
	operationsRoutes := router.NewDomainGroup("/operations").Use(jwtAuth)
	operationsRoutes.POST("/trips", tripHandler.Create)
	operationsRoutes.GET("/trips", tripHandler.List)
	operationsRoutes.GET("/trips/:id", tripHandler.Get)
	operationsRoutes.PUT("/trips/:id", tripHandler.Update)
	operationsRoutes.POST("/trips/:id/start", tripHandler.Start)
	operationsRoutes.POST("/trips/:id/complete", tripHandler.Complete)
	operationsRoutes.POST("/trips/:id/cancel", tripHandler.Cancel)
	operationsRoutes.POST("/trips/:id/reschedule", tripHandler.Reschedule)
	operationsRoutes.DELETE("/trips/:id", tripHandler.Delete)

	// Billing domain (invoices, payments, expenses)
	billingRoutes := router.NewDomainGroup("/billing").Use(jwtAuth)

	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.Get)
	billingRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	billingRoutes.POST("/invoices/:id/send", invoiceHandler.MarkSent)
	billingRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	billingRoutes.POST("/invoices/:id/remind", invoiceHandler.SendReminder)
	billingRoutes.GET("/invoices/:id/payments", invoiceHandler.ListPayments)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)

	billingRoutes.POST("/payments", paymentHandler.Create)
	billingRoutes.GET("/payments", paymentHandler.List)
	billingRoutes.GET("/payments/:id", paymentHandler.Get)
	billingRoutes.PUT("/payments/:id", paymentHandler.Update)
	billingRoutes.DELETE("/payments/:id", paymentHandler.Delete)

	billingRoutes.POST("/expense-categories", expenseHandler.CreateCategory)
	billingRoutes.GET("/expense-categories", expenseHandler.ListCategories)
	billingRoutes.PUT("/expense-categories/:id", expenseHandler.UpdateCategory)
	billingRoutes.DELETE("/expense-categories/:id", expenseHandler.DeleteCategory)

	billingRoutes.POST("/expenses", expenseHandler.Create)
	billingRoutes.GET("/expenses", expenseHandler.List)
	billingRoutes.GET("/expenses/:id", expenseHandler.Get)
	billingRoutes.PUT("/expenses/:id", expenseHandler.Update)
	billingRoutes.DELETE("/expenses/:id", expenseHandler.Delete)

	// Report domain
	reportRoutes := router.NewDomainGroup("/reports").Use(jwtAuth)
	reportRoutes.GET("/summary", reportHandler.Summary)
	reportRoutes.GET("/summary.pdf", reportHandler.SummaryPDF)

	r.Register(authRoutes).
		Register(identityRoutes).
		Register(partnerRoutes).
		Register(fleetRoutes).
		Register(operationsRoutes).
		Register(billingRoutes).
		Register(reportRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
