package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/factoryerp/backend/internal/application/billing"
	partnerapp "github.com/factoryerp/backend/internal/application/partner"
	"github.com/factoryerp/backend/internal/infrastructure/auth"
	"github.com/factoryerp/backend/internal/infrastructure/config"
	"github.com/factoryerp/backend/internal/infrastructure/event"
	"github.com/factoryerp/backend/internal/infrastructure/logger"
	"github.com/factoryerp/backend/internal/infrastructure/persistence"
	"github.com/factoryerp/backend/internal/interfaces/http/handler"
	"github.com/factoryerp/backend/internal/interfaces/http/middleware"
	"github.com/factoryerp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			FactoryERP Billing API
//	@version		1.0
//	@description	Invoice payment ledger and reconciliation backend

//	@contact.name	API Support
//	@contact.url	https://github.com/factoryerp/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FactoryERP Billing Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// SQL logging goes through the same zap core as everything else.
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Every domain event lands in the audit trail.
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(eventSerializer, log))

	invoiceService := billingapp.NewInvoiceService(txScope, invoiceRepo, customerRepo, log)
	paymentService := billingapp.NewPaymentService(txScope, invoiceRepo, paymentRepo, log)
	chequeService := billingapp.NewChequeService(txScope, paymentRepo, log)
	historyService := billingapp.NewHistoryService(invoiceRepo, paymentRepo, customerRepo, log)
	customerService := partnerapp.NewCustomerService(customerRepo)

	invoiceService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)
	chequeService.SetEventPublisher(eventBus)
	customerService.SetEventPublisher(eventBus)

	// Alert on bounced cheques
	bounceHandler := billingapp.NewChequeBouncedHandler(log).
		WithNotifier(billingapp.NewLoggingChequeAlertNotifier(log))
	eventBus.Subscribe(bounceHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	billingHandler := handler.NewBillingHandler(invoiceService, paymentService, chequeService, historyService)
	customerHandler := handler.NewCustomerHandler(customerService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Request ID first so recovery and request logs can carry it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Liveness probe sits outside the versioned API.
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Everything under /api/v1 needs a token and a resolved tenant,
	// except the system probes.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	r.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Required: true,
		Logger:   log,
	}))

	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "billing service ready"})
	})

	billingRoutes.POST("/invoices", billingHandler.CreateInvoice)
	billingRoutes.GET("/invoices", billingHandler.ListInvoices)
	billingRoutes.GET("/invoices/:id", billingHandler.GetInvoice)
	billingRoutes.POST("/invoices/:id/cancel", billingHandler.CancelInvoice)
	billingRoutes.POST("/invoices/:id/recompute", billingHandler.RecomputeInvoice)

	billingRoutes.POST("/invoices/:id/payments", billingHandler.AddInvoicePayment)
	billingRoutes.GET("/invoices/:id/payments", billingHandler.GetPaymentHistory)
	billingRoutes.POST("/customers/:id/payments", billingHandler.AddCustomerPayment)
	billingRoutes.GET("/customers/:id/summary", billingHandler.GetCustomerSummary)

	billingRoutes.POST("/payments/:id/cheque-status", billingHandler.TransitionCheque)
	billingRoutes.GET("/cheques", billingHandler.ListCheques)

	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "partner service ready"})
	})
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.POST("/customers/:id/activate", customerHandler.Activate)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(billingRoutes).
		Register(partnerRoutes).
		Register(systemRoutes)

	r.Setup()

	// Bare ping for load balancers that only know /api/v1.
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness, including database reachability.
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
