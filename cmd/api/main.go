package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/ravstays/rav-backend/internal/database"
	"github.com/ravstays/rav-backend/internal/handlers"
	"github.com/ravstays/rav-backend/internal/middleware"
	"github.com/ravstays/rav-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize the payment provider
	payments, err := services.NewStripeProvider()
	if err != nil {
		log.Fatalf("Failed to initialize payment provider: %v", err)
	}

	limiter := services.NewRateLimiter(services.NewRedisCounterStore(services.RedisClient))
	notifier := services.NewEmailNotifier()

	commission := services.NewCommissionResolver(
		&services.GormAgreementStore{DB: db},
		&services.GormMembershipStore{DB: db},
	)

	checkout := &services.CheckoutService{
		Listings:    &services.GormListingStore{DB: db},
		Bookings:    &services.GormBookingStore{DB: db},
		Commission:  commission,
		Payments:    payments,
		FrontendURL: os.Getenv("FRONTEND_URL"),
	}

	refunds := &services.RefundService{
		Bookings:      &services.GormBookingStore{DB: db},
		Listings:      &services.GormListingStore{DB: db},
		Cancellations: &services.GormCancellationStore{DB: db},
		Escrow:        &services.GormEscrowStore{DB: db},
		OwnerStats:    &services.GormOwnerStatsStore{DB: db},
		Payments:      payments,
		Notifier:      notifier,
	}

	disputes := &services.DisputeService{
		Disputes: &services.GormDisputeStore{DB: db},
		Bookings: &services.GormBookingStore{DB: db},
		Escrow:   &services.GormEscrowStore{DB: db},
		Payments: payments,
	}

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			protected.POST("/checkout", handlers.CreateCheckout(db, checkout, limiter))

			bookings := protected.Group("/bookings")
			{
				bookings.GET("", handlers.GetRenterBookings(db))
				bookings.GET("/owner", handlers.GetOwnerBookings(db))
				bookings.GET("/:id", handlers.GetBooking(db))
				bookings.GET("/:id/refund-preview", handlers.GetRefundPreview(db))
				bookings.POST("/:id/cancel", handlers.ProcessCancellation(refunds, limiter))
			}

			admin := protected.Group("/disputes")
			admin.Use(middleware.AdminOnly())
			{
				admin.POST("/:id/refund", handlers.ProcessDisputeRefund(disputes, limiter))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
