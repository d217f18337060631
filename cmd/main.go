package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"gigpro/internal/caching"
	"gigpro/internal/handlers"
	"gigpro/internal/jobs"
	"gigpro/internal/middleware"
	"gigpro/internal/repositories"
	"gigpro/internal/services"
	"gigpro/pkg/database"
)

const version = "1.0.0"

const (
	accessTokenTTLSeconds  = 15 * 60
	refreshTokenTTLSeconds = 30 * 24 * 60 * 60
)

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; sessions will not survive restarts")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if db, err := strconv.Atoi(raw); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	invoiceBucket := os.Getenv("INVOICE_BUCKET")
	if invoiceBucket == "" {
		invoiceBucket = "gigpro-invoices"
	}
	logoBucket := os.Getenv("LOGO_BUCKET")
	if logoBucket == "" {
		logoBucket = "gigpro-logos"
	}

	storageSvc, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	for _, bucket := range []string{invoiceBucket, logoBucket} {
		if err := storageSvc.EnsureBucketExists(context.Background(), bucket); err != nil {
			log.Printf("WARNING: could not ensure bucket %s exists: %v", bucket, err)
		}
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	clientRepo := repositories.NewClientRepo(pool)
	gigRepo := repositories.NewGigRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	authSvc := services.NewAuthService(cacheSvc, jwtSecret, accessTokenTTLSeconds, refreshTokenTTLSeconds)
	clientSvc := services.NewClientService(clientRepo)
	gigSvc := services.NewGigService(gigRepo, clientRepo)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, clientRepo, gigRepo)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(userRepo, authSvc, cacheSvc)
	userHandlers := handlers.NewUserHandlers(userRepo, storageSvc, logoBucket)
	clientHandlers := handlers.NewClientHandlers(clientSvc, invoiceSvc)
	gigHandlers := handlers.NewGigHandlers(gigSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, clientSvc, gigSvc, userRepo, storageSvc, invoiceBucket)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Gig reminder scheduler
	reminderScheduler, err := jobs.NewReminderScheduler(gigRepo, cacheSvc)
	if err != nil {
		log.Fatalf("Failed to initialize reminder scheduler: %v", err)
	}
	reminderScheduler.Start()
	defer func() {
		if err := reminderScheduler.Stop(); err != nil {
			log.Printf("Failed to stop reminder scheduler: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	api := e.Group("/api")

	// Authentication routes (no JWT required for register/login/refresh)
	auth := api.Group("/auth")
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret))

	protected.GET("/auth/user", authHandlers.CurrentUser)

	// Profile routes
	protected.GET("/user", userHandlers.GetProfile)
	protected.PUT("/user", userHandlers.UpdateProfile)
	protected.POST("/user/logo", userHandlers.UploadLogo)

	// Client routes
	protected.GET("/clients", clientHandlers.ListClients)
	protected.POST("/clients", clientHandlers.CreateClient)
	protected.GET("/clients/:id", clientHandlers.GetClient)
	protected.PUT("/clients/:id", clientHandlers.UpdateClient)
	protected.DELETE("/clients/:id", clientHandlers.DeleteClient)
	protected.GET("/clients/:id/totals", clientHandlers.GetClientTotals)

	// Gig routes
	protected.GET("/gigs", gigHandlers.ListGigs)
	protected.POST("/gigs", gigHandlers.CreateGig)
	protected.GET("/gigs/upcoming", gigHandlers.ListUpcomingGigs)
	protected.GET("/gigs/month/:year/:month", gigHandlers.ListGigsByMonth)
	protected.GET("/gigs/:id", gigHandlers.GetGig)
	protected.PUT("/gigs/:id", gigHandlers.UpdateGig)
	protected.DELETE("/gigs/:id", gigHandlers.DeleteGig)

	// Invoice routes
	protected.GET("/invoices", invoiceHandlers.ListInvoices)
	protected.POST("/invoices", invoiceHandlers.CreateInvoice)
	protected.GET("/invoices/recent", invoiceHandlers.ListRecentInvoices)
	protected.GET("/invoices/totals", invoiceHandlers.GetInvoiceTotals)
	protected.GET("/invoices/status/:status", invoiceHandlers.ListInvoicesByStatus)
	protected.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	protected.PUT("/invoices/:id", invoiceHandlers.UpdateInvoice)
	protected.PUT("/invoices/:id/status", invoiceHandlers.UpdateInvoiceStatus)
	protected.DELETE("/invoices/:id", invoiceHandlers.DeleteInvoice)
	protected.POST("/invoices/:id/pdf", invoiceHandlers.GenerateInvoicePDF)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Printf("Shutting down")
		if err := e.Shutdown(context.Background()); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("GigPro server v%s starting on port %d", version, port)
	if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
