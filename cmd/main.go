package main

import (
	"inventory-service/internal/handler"
	mid "inventory-service/internal/middleware"
	"inventory-service/internal/model"
	"inventory-service/internal/store"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/pkg/jwtutil"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (reads .env if present)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting inventory-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database, run migrations and seed the main branch and admin
	db, err := database.Initialize(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Build the store and handlers
	st := store.New(db)
	authHandler := handler.NewAuthHandler(st)
	categoryHandler := handler.NewCategoryHandler(st)
	productHandler := handler.NewProductHandler(st, appConfig.Storage.ImageDir)
	branchHandler := handler.NewBranchHandler(st)
	tagHandler := handler.NewTagHandler(st)
	transferHandler := handler.NewTransferHandler(st)
	saleHandler := handler.NewSaleHandler(st)
	reportHandler := handler.NewReportHandler(st)
	userHandler := handler.NewUserHandler(st)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health(st))

	// Public routes
	e.POST("/api/auth/login", authHandler.Login)

	// Category API routes
	categoryAPI := e.Group("/api/categories", mid.AuthMiddleware)
	categoryAPI.GET("", categoryHandler.ListCategories)
	categoryAPI.POST("", categoryHandler.CreateCategory, mid.RequirePermission(model.PermAdd))
	categoryAPI.DELETE("/:id", categoryHandler.DeleteCategory, mid.RequirePermission(model.PermDelete))

	// Product API routes
	productAPI := e.Group("/api/products", mid.AuthMiddleware)
	productAPI.GET("", productHandler.ListProducts)
	productAPI.GET("/:id", productHandler.GetProduct)
	productAPI.GET("/:id/image", productHandler.GetProductImage)
	productAPI.POST("", productHandler.CreateProduct, mid.RequirePermission(model.PermAdd))
	productAPI.PUT("/:id", productHandler.UpdateProduct, mid.RequirePermission(model.PermEdit))
	productAPI.DELETE("/:id", productHandler.DeleteProduct, mid.RequirePermission(model.PermDelete))

	// Branch API routes
	branchAPI := e.Group("/api/branches", mid.AuthMiddleware)
	branchAPI.GET("", branchHandler.ListBranches)
	branchAPI.GET("/:id", branchHandler.GetBranch)
	branchAPI.POST("", branchHandler.CreateBranch, mid.RequirePermission(model.PermAdd))
	branchAPI.PUT("/:id", branchHandler.UpdateBranch, mid.RequirePermission(model.PermEdit))
	branchAPI.DELETE("/:id", branchHandler.DeleteBranch, mid.RequirePermission(model.PermDelete))

	// Tag ledger API routes
	tagAPI := e.Group("/api/tags", mid.AuthMiddleware)
	tagAPI.GET("", tagHandler.ListTags)
	tagAPI.GET("/:id", tagHandler.GetTag)
	tagAPI.POST("", tagHandler.AssignTag, mid.RequirePermission(model.PermAdd))
	tagAPI.POST("/upload", tagHandler.UploadTags, mid.RequirePermission(model.PermAdd))
	tagAPI.POST("/assign", tagHandler.AssignTags, mid.RequirePermission(model.PermAdd))

	// Transfer API routes
	transferAPI := e.Group("/api/transfers", mid.AuthMiddleware)
	transferAPI.GET("", transferHandler.ListTransfers)
	transferAPI.POST("", transferHandler.Transfer, mid.RequirePermission(model.PermEdit))

	// Sales API routes
	saleAPI := e.Group("/api/sales", mid.AuthMiddleware)
	saleAPI.GET("", saleHandler.ListSales)
	saleAPI.POST("", saleHandler.RecordSale, mid.RequirePermission(model.PermAdd))
	saleAPI.POST("/upload", saleHandler.UploadSales, mid.RequirePermission(model.PermAdd))

	// Report API routes
	reportAPI := e.Group("/api/reports", mid.AuthMiddleware)
	reportAPI.GET("/summary", reportHandler.Summary)
	reportAPI.GET("/transactions", reportHandler.Transactions)
	reportAPI.GET("/sales", reportHandler.Sales)
	reportAPI.GET("/transfers", reportHandler.Transfers)
	reportAPI.GET("/export", reportHandler.Export)
	reportAPI.GET("/pdf", reportHandler.PDF)

	// User API routes - self-service first, management behind manage_users
	userAPI := e.Group("/api/users", mid.AuthMiddleware)
	userAPI.GET("/profile", userHandler.Profile)
	userAPI.PUT("/password", userHandler.ChangePassword)
	userAPI.GET("", userHandler.ListUsers, mid.RequirePermission(model.PermManageUsers))
	userAPI.POST("", userHandler.CreateUser, mid.RequirePermission(model.PermManageUsers))
	userAPI.PUT("/:username", userHandler.UpdateUser, mid.RequirePermission(model.PermManageUsers))
	userAPI.DELETE("/:username", userHandler.DeleteUser, mid.RequirePermission(model.PermManageUsers))

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
