package main

import (
	"context"
	"net/http"

	"storefront-service/internal/handler"
	mid "storefront-service/internal/middleware"
	"storefront-service/internal/notify"
	"storefront-service/internal/store"
	"storefront-service/internal/syncer"
	"storefront-service/pkg/config"
	"storefront-service/pkg/contentstore"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/pkg/orderclient"
	"storefront-service/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Just log a warning, don't fail if .env file is not found
		// This allows the service to run in environments where env vars are set differently
		// such as production environments with proper environment configuration
		// The fallback values will be used in case env vars are not set
	}

	// Load configuration
	appConfig, err := config.Load("storefront")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storefront-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize JWT utility for the admin session
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      appConfig.JWT.SigningKey,
		ExpirationHours: appConfig.JWT.ExpirationHours,
	})

	// Initialize local data store
	dataStore := store.New(appConfig.Store.Dir, log)
	log.Info("Local data store ready", zap.String("dir", appConfig.Store.Dir))

	// Content store client for the shared document
	contentClient := contentstore.NewClient(
		appConfig.GitHub.Token,
		appConfig.GitHub.Owner,
		appConfig.GitHub.Repo,
		appConfig.GitHub.Branch,
		log,
	)
	if !contentClient.Configured() {
		log.Warn("Content store not configured; push and order intake will report errors")
	}

	// Sync engine: initial pull gates readiness, then periodic pulls
	engine := syncer.New(
		dataStore,
		contentClient,
		appConfig.Sync.DataURL,
		appConfig.GitHub.DataPath,
		appConfig.Sync.Interval,
		appConfig.Sync.PushAttempts,
		log,
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx)

	mailer := notify.NewMailer(appConfig.Email.APIKey, appConfig.Email.AdminEmail, log)
	orderClient := orderclient.NewClient(log)

	// Handlers
	catalogHandler := handler.NewCatalogHandler(dataStore)
	checkoutHandler := handler.NewCheckoutHandler(dataStore, orderClient)
	orderHandler := handler.NewOrderHandler(
		contentClient,
		mailer,
		appConfig.GitHub.DataPath,
		appConfig.Sync.PushAttempts,
		appConfig.DebugOrders,
	)
	adminHandler := handler.NewAdminHandler(dataStore, jwtUtil, engine)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Routes
	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Public catalog API
	catalogAPI := e.Group("/api/catalog")
	catalogAPI.GET("/products", catalogHandler.Products)
	catalogAPI.GET("/products/:id", catalogHandler.Product)
	catalogAPI.GET("/content", catalogHandler.Content)
	catalogAPI.GET("/design", catalogHandler.Design)
	catalogAPI.GET("/floating-contact", catalogHandler.FloatingContact)
	catalogAPI.GET("/sizes", catalogHandler.Sizes)

	// Checkout
	e.POST("/api/checkout", checkoutHandler.Submit)

	// Order intake - CORS-open so any storefront origin can POST
	ordersAPI := e.Group("/api/orders", middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Accept", "X-Requested-With"},
		MaxAge:       86400,
	}))
	ordersAPI.POST("", orderHandler.Create)
	ordersAPI.Match([]string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete}, "", orderHandler.MethodNotAllowed)

	// Admin API - login is open, everything else requires a session token
	e.POST("/api/admin/login", adminHandler.Login)
	adminAPI := e.Group("/api/admin", mid.AdminAuth(jwtUtil))
	adminAPI.PUT("/products", adminHandler.SaveProducts)
	adminAPI.PUT("/content", adminHandler.SaveContent)
	adminAPI.PUT("/design", adminHandler.SaveDesign)
	adminAPI.PUT("/floating-contact", adminHandler.SaveFloatingContact)
	adminAPI.PUT("/sizes", adminHandler.SaveSizes)
	adminAPI.POST("/sizes", adminHandler.AddSize)
	adminAPI.PUT("/settings", adminHandler.SaveSettings)
	adminAPI.GET("/orders", adminHandler.Orders)
	adminAPI.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
	adminAPI.POST("/sync", adminHandler.Sync)
	adminAPI.POST("/refresh", adminHandler.Refresh)
	adminAPI.POST("/map/parse", adminHandler.ParseMap)
	adminAPI.GET("/inventory", adminHandler.Inventory)

	// Wait for the initial pull before accepting traffic so the first
	// responses already reflect the published snapshot
	<-engine.Ready()
	log.Info("Initial sync attempt complete")

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
