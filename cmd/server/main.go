package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/analytics"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/audit"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/entitlement"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/handler"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/middleware"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/config"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/database"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/jwtutil"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("cafe-api")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting cafe API...", cfg.LogConfig()...)

	// Connect to the database and run migrations
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, model.All()...); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Stores and services
	users := store.NewUserStore(db)
	cafes := store.NewCafeStore(db)
	catalog := store.NewFeatureCatalog(db)
	if err := catalog.Seed(); err != nil {
		log.Fatal("Failed to seed feature catalog", zap.Error(err))
	}
	if count, err := cafes.CountActive(); err == nil {
		prometheus.SetActiveCafes(count)
	} else {
		log.Warn("Failed to count active cafes", zap.Error(err))
	}
	features := entitlement.NewFeatureService(cafes, catalog)
	recorder := audit.NewRecorder(db, log)
	jwtUtil := jwtutil.NewJWTUtil(&cfg.JWT)

	// Middleware
	authn := middleware.NewAuthenticator(jwtUtil, users)
	pipeline := middleware.NewPipeline(cafes, features)

	// Handlers
	authHandler := handler.NewAuthHandler(users, cafes, jwtUtil)
	adminHandler := handler.NewAdminHandler(cafes, users, catalog, features, recorder)
	impersonationHandler := handler.NewImpersonationHandler(cafes, jwtUtil, recorder)
	customerHandler := handler.NewCustomerHandler(db)
	menuHandler := handler.NewMenuHandler(db)
	inventoryHandler := handler.NewInventoryHandler(db)
	orderHandler := handler.NewOrderHandler(db)
	invoiceHandler := handler.NewInvoiceHandler(db)
	paymentHandler := handler.NewPaymentHandler(db)
	settingsHandler := handler.NewSettingsHandler(db, cafes)
	analyticsHandler := handler.NewAnalyticsHandler(db)
	onboardingHandler := handler.NewOnboardingHandler(cafes)
	uploadHandler, err := handler.NewUploadHandler(cfg.Upload.Dir)
	if err != nil {
		log.Fatal("Failed to prepare upload storage", zap.Error(err))
	}

	// Nightly metrics aggregation
	aggregator := analytics.NewAggregator(db, log)
	cronRunner, err := aggregator.Schedule(cfg.Analytics.CronSpec)
	if err != nil {
		log.Fatal("Failed to schedule metrics aggregation", zap.Error(err))
	}
	defer cronRunner.Stop()
	log.Info("Metrics aggregation scheduled", zap.String("cron", cfg.Analytics.CronSpec))

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.RateLimiter(middleware.GeneralLimiter))

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)
	e.Static("/uploads", cfg.Upload.Dir)

	api := e.Group("/api")
	api.GET("/server/time", handler.ServerTime)

	// Login carries its own tighter limiter
	auth := api.Group("/auth", middleware.RateLimiter(middleware.AuthLimiter))
	auth.POST("/login", authHandler.Login)

	// Impersonation teardown needs only a valid token
	api.POST("/impersonation/end", impersonationHandler.End, authn.Authenticate)

	// Customer self-service carries no staff token; the cafe is resolved
	// from the slug and every query is scoped to it
	selfService := api.Group("/cafes/:slug/customers",
		middleware.RateLimiter(middleware.APILimiter),
		pipeline.ResolveCafe,
	)
	selfService.POST("", customerHandler.Register)
	selfService.GET("/login/:phone", customerHandler.LoginByPhone)

	// Cafe-scoped routes: authenticate, resolve the tenant, then enforce
	// membership and subscription before any feature or permission check
	cafe := api.Group("/cafes/:slug",
		middleware.RateLimiter(middleware.APILimiter),
		authn.Authenticate,
		pipeline.ResolveCafe,
		pipeline.RequireMembership,
		pipeline.RequireActiveSubscription,
	)

	cafe.GET("/users", authHandler.ListUsers, pipeline.RequirePermission(model.PermManageUsers))
	cafe.POST("/users", authHandler.CreateUser, pipeline.RequirePermission(model.PermManageUsers))

	cafe.POST("/onboarding", onboardingHandler.Complete, pipeline.RequirePermission(model.PermManageSettings))

	cafe.POST("/uploads", uploadHandler.Upload,
		middleware.RateLimiter(middleware.UploadLimiter),
		pipeline.RequirePermission(model.PermManageMenu))

	customers := cafe.Group("/customers", pipeline.RequireFeature(model.FeatureCustomers))
	customers.GET("", customerHandler.List, pipeline.RequirePermission(model.PermViewCustomers))
	customers.GET("/:id", customerHandler.Get, pipeline.RequirePermission(model.PermViewCustomers))
	customers.PUT("/:id", customerHandler.Update, pipeline.RequirePermission(model.PermViewCustomers))
	customers.DELETE("/:id", customerHandler.Delete, pipeline.RequirePermission(model.PermViewCustomers))

	menu := cafe.Group("/menu", pipeline.RequireFeature(model.FeatureMenu))
	menu.GET("", menuHandler.List)
	menu.GET("/:id", menuHandler.Get)
	menu.POST("", menuHandler.Create, pipeline.RequirePermission(model.PermManageMenu))
	menu.PUT("/:id", menuHandler.Update, pipeline.RequirePermission(model.PermManageMenu))
	menu.DELETE("/:id", menuHandler.Delete, pipeline.RequirePermission(model.PermManageMenu))

	inventory := cafe.Group("/inventory", pipeline.RequireFeature(model.FeatureInventory))
	inventory.GET("", inventoryHandler.List)
	inventory.POST("", inventoryHandler.Create, pipeline.RequirePermission(model.PermManageInventory))
	inventory.PUT("/:id", inventoryHandler.Update, pipeline.RequirePermission(model.PermManageInventory))
	inventory.DELETE("/:id", inventoryHandler.Delete, pipeline.RequirePermission(model.PermManageInventory))

	orders := cafe.Group("/orders", pipeline.RequireFeature(model.FeatureOrders))
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("", orderHandler.Create, pipeline.RequirePermission(model.PermCreateOrders))
	orders.PUT("/:id/status", orderHandler.UpdateStatus, pipeline.RequirePermission(model.PermEditOrders))

	invoices := cafe.Group("/invoices", pipeline.RequireFeature(model.FeatureInvoices))
	invoices.GET("", invoiceHandler.List, pipeline.RequirePermission(model.PermViewPayments))
	invoices.GET("/:id", invoiceHandler.Get, pipeline.RequirePermission(model.PermViewPayments))
	invoices.POST("", invoiceHandler.Create, pipeline.RequirePermission(model.PermCreateOrders))

	payments := cafe.Group("/payment-methods", pipeline.RequireFeature(model.FeaturePaymentMethods))
	payments.GET("", paymentHandler.List)
	payments.POST("", paymentHandler.Create, pipeline.RequirePermission(model.PermManageSettings))
	payments.PUT("/reorder", paymentHandler.Reorder, pipeline.RequirePermission(model.PermManageSettings))
	payments.PUT("/:id", paymentHandler.Update, pipeline.RequirePermission(model.PermManageSettings))
	payments.DELETE("/:id", paymentHandler.Delete, pipeline.RequirePermission(model.PermManageSettings))

	settings := cafe.Group("/settings", pipeline.RequireFeature(model.FeatureSettings))
	settings.GET("", settingsHandler.Get)
	settings.GET("/role-policies", settingsHandler.RolePolicies)
	settings.PUT("", settingsHandler.Update, pipeline.RequirePermission(model.PermManageSettings))
	settings.GET("/history", settingsHandler.History, pipeline.RequirePermission(model.PermManageSettings))

	cafeAnalytics := cafe.Group("/analytics", pipeline.RequireFeature(model.FeatureAnalytics))
	cafeAnalytics.GET("/daily", analyticsHandler.Daily, pipeline.RequirePermission(model.PermViewReports))

	// Platform administration - super-admin only
	admin := api.Group("/admin", authn.Authenticate, pipeline.RequireSuperAdmin)
	admin.GET("/cafes", adminHandler.ListCafes)
	admin.POST("/cafes", adminHandler.CreateCafe)
	admin.GET("/cafes/:id", adminHandler.GetCafe)
	admin.PUT("/cafes/:id/subscription", adminHandler.UpdateSubscription)
	admin.GET("/features", adminHandler.ListFeatures)
	admin.GET("/cafes/:id/features", adminHandler.CafeFeatureResolution)
	admin.POST("/cafes/:id/features/:key", adminHandler.SetFeatureOverride)
	admin.DELETE("/cafes/:id/features/:key", adminHandler.ClearFeatureOverride)
	admin.GET("/audit/subscriptions", adminHandler.ListSubscriptionAudit)
	admin.GET("/audit/impersonations", adminHandler.ListImpersonationAudit)
	admin.POST("/impersonate/:slug", impersonationHandler.Start)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
