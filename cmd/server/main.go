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
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/hotelhaven/booking-backend/internal/cache"
	"github.com/hotelhaven/booking-backend/internal/config"
	"github.com/hotelhaven/booking-backend/internal/database"
	"github.com/hotelhaven/booking-backend/internal/handlers"
	"github.com/hotelhaven/booking-backend/internal/metrics"
	"github.com/hotelhaven/booking-backend/internal/middleware"
	"github.com/hotelhaven/booking-backend/internal/models"
	"github.com/hotelhaven/booking-backend/internal/services"
	"github.com/hotelhaven/booking-backend/pkg/jwt"
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

	logger.Info("Starting HotelHaven Booking Backend")
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

	// Redis is optional: webhook dedup and listing caches degrade when absent
	redisClient := cache.NewClient(cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	eventDeduper := cache.NewEventDeduper(redisClient, cfg.Redis.DedupTTL)

	// Metrics registry
	m := metrics.New()

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	hotelRepository := database.NewHotelRepository(db)
	roomRepository := database.NewRoomRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	paymentEventRepository := database.NewPaymentEventRepository(db, logger)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	bookingService := services.NewBookingService(bookingRepository, roomRepository, m, logger)
	paymentService := services.NewPaymentService(&cfg.Payment, m, logger)
	reconciliationService := services.NewReconciliationService(
		bookingRepository,
		paymentEventRepository,
		eventDeduper,
		m,
		logger,
	)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepository, jwtService, cfg.Security.BcryptCost, logger)
	userHandler := handlers.NewUserHandler(userRepository)
	hotelHandler := handlers.NewHotelHandler(hotelRepository, roomRepository)
	roomHandler := handlers.NewRoomHandler(roomRepository)
	bookingHandler := handlers.NewBookingHandler(bookingService, paymentService)
	webhookHandler := handlers.NewWebhookHandler(paymentService, reconciliationService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

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

	// Health check and metrics endpoints
	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Payment gateway webhook. Mounted outside /api/v1 and unauthenticated:
	// the gateway authenticates itself through the signature header.
	router.POST("/webhook-checkout", webhookHandler.HandleCheckout)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// User routes (protected)
		user := v1.Group("/user")
		user.Use(middleware.AuthMiddleware(jwtService))
		{
			user.GET("/me", userHandler.Me)
			user.POST("/recent-search", userHandler.RecordRecentSearch)
		}

		// Hotel catalog routes (public, read-only, cached)
		hotels := v1.Group("/hotels")
		hotels.Use(middleware.ListingCache(redisClient, cfg.Redis.CacheTTL))
		{
			hotels.GET("", hotelHandler.List)
			hotels.GET("/:hotelId", hotelHandler.Get)
			hotels.GET("/:hotelId/rooms", hotelHandler.Rooms)
		}

		// Room catalog routes (public, read-only, cached)
		rooms := v1.Group("/rooms")
		rooms.Use(middleware.ListingCache(redisClient, cfg.Redis.CacheTTL))
		{
			rooms.GET("", roomHandler.List)
			rooms.GET("/:roomId", roomHandler.Get)
		}

		// Booking routes (all protected)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("", bookingHandler.CheckAvailability)
			bookings.POST("/bookroom", bookingHandler.CreateBooking)
			bookings.GET("/mybooking", bookingHandler.MyBookings)
			bookings.GET("/check_out_session/:id", bookingHandler.CheckoutSession)

			// Hotel owner endpoints
			owner := bookings.Group("")
			owner.Use(middleware.RequireRole(models.RoleHotelOwner))
			{
				owner.GET("/hotel/:hotelId", bookingHandler.HotelBookings)
				owner.PUT("/pay/:id", bookingHandler.MarkPaid)
			}
		}
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

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
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
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
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
