package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/securegate/visitor-pass-backend/internal/config"
	"github.com/securegate/visitor-pass-backend/internal/database"
	"github.com/securegate/visitor-pass-backend/internal/handlers"
	"github.com/securegate/visitor-pass-backend/internal/middleware"
	"github.com/securegate/visitor-pass-backend/internal/models"
	"github.com/securegate/visitor-pass-backend/internal/services"
	"github.com/securegate/visitor-pass-backend/pkg/jwt"
	"github.com/securegate/visitor-pass-backend/pkg/whatsapp"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SecureGate Visitor Pass Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	categoryRepository := database.NewCategoryRepository(db)
	sessionRepository := database.NewSessionRepository(db)

	// Type assertion needed: db is interface DB, but transaction-bound
	// repositories need *sqlx.DB
	sqlxDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}
	passRequestRepository := database.NewPassRequestRepository(sqlxDB.DB)
	visitorRepository := database.NewVisitorRepository(sqlxDB.DB)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	auditService := services.NewAuditService(db)

	// Initialize WhatsApp gateway
	var waGateway whatsapp.Gateway
	if cfg.WhatsApp.Mode == "production" {
		logger.Info("Initializing WhatsApp Cloud API gateway in production mode...")
		waGateway = whatsapp.NewCloudGateway(whatsapp.CloudConfig{
			APIURL:        cfg.WhatsApp.APIURL,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			AccessToken:   cfg.WhatsApp.AccessToken,
		})
	} else {
		logger.Info("WhatsApp gateway in development mode (no actual messages will be sent)")
		waGateway = whatsapp.NewConsoleGateway()
	}

	passService := services.NewPassService(passRequestRepository, visitorRepository, auditService, waGateway, logger)
	portalService := services.NewPortalService(passRequestRepository, categoryRepository, userRepository, logger)
	authService := services.NewAuthService(userRepository, jwtService, auditService, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	referenceHandler := handlers.NewReferenceHandler(categoryRepository, sessionRepository)
	userHandler := handlers.NewUserHandler(userRepository)
	passRequestHandler := handlers.NewPassRequestHandler(passService, passRequestRepository)
	visitorHandler := handlers.NewVisitorHandler(passService)
	portalHandler := handlers.NewPortalHandler(portalService)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.GET("/profile", authHandler.Profile)
			}
		}

		// Everything below requires a valid access token
		api := v1.Group("")
		api.Use(middleware.AuthMiddleware(jwtService))

		// Reference data (categories, pass types, sessions)
		api.GET("/categories", referenceHandler.GetCategories)
		api.GET("/categories/:id/sub-categories", referenceHandler.GetSubCategories)
		api.GET("/categories/:id/pass-types", referenceHandler.GetCategoryPassTypes)
		api.GET("/pass-types", referenceHandler.GetPassTypes)
		api.GET("/sessions", referenceHandler.GetSessions)

		// Approver directory for routing dropdowns
		api.GET("/users", userHandler.GetUsersByRole)

		// Pass request lifecycle
		passRequests := api.Group("/pass-requests")
		{
			passRequests.GET("", passRequestHandler.List)
			passRequests.GET("/:id", passRequestHandler.GetByRef)
			passRequests.POST("", passRequestHandler.Create)

			// Routing and issuing are restricted to the office roles
			issuing := passRequests.Group("")
			issuing.Use(middleware.RequireRole(string(models.RolePeshi), string(models.RoleAdmin)))
			{
				issuing.POST("/:id/route", passRequestHandler.Route)
				issuing.POST("/:id/generate-pass", passRequestHandler.GeneratePass)
				issuing.POST("/:id/visitors/:visitor_id/resend-whatsapp", passRequestHandler.ResendWhatsApp)
			}
		}

		// Per-visitor actions
		visitors := api.Group("/visitors")
		{
			visitors.POST("/:id/status", visitorHandler.UpdateStatus)

			suspension := visitors.Group("")
			suspension.Use(middleware.RequireRole(string(models.RolePeshi), string(models.RoleAdmin)))
			{
				suspension.POST("/:id/suspend", visitorHandler.Suspend)
				suspension.POST("/:id/activate", visitorHandler.Activate)
			}
		}

		// Admin portal visitor list
		api.GET("/portal/visitors", portalHandler.GetVisitors)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		// Add user context if available
		if user, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = user.UserID
			fields["role"] = user.Role
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
