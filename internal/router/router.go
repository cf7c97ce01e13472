// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agrolink/agrolink-backend/internal/config"
	"github.com/agrolink/agrolink-backend/internal/handlers"
	"github.com/agrolink/agrolink-backend/internal/middleware"
	"github.com/agrolink/agrolink-backend/internal/services"
	"github.com/agrolink/agrolink-backend/internal/utils"
)

// Initialize wires services, handlers and routes. The MarketService is
// returned alongside the engine so main can run its snapshot scheduler
// for the lifetime of the process.
func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, *services.MarketService) {
	// Initialize services
	notificationService := services.NewNotificationService(db)
	forecastService := services.NewForecastService(cfg.Forecast)
	marketService := services.NewMarketService(db, forecastService)

	authService := services.NewAuthService(db, cfg)
	listingService := services.NewListingService(db)
	contractService := services.NewContractService(db, notificationService)
	dashboardService := services.NewDashboardService(db, marketService,
		time.Duration(cfg.Forecast.CacheTTLSec)*time.Second)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	listingHandler := handlers.NewListingHandler(listingService, contractService)
	contractHandler := handlers.NewContractHandler(contractService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, notificationService)
	marketHandler := handlers.NewMarketHandler(marketService, forecastService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Listing routes
		listings := v1.Group("/listings")
		listings.Use(middleware.AuthRequired())
		{
			listings.POST("", middleware.FarmerRequired(), listingHandler.CreateListing)
			listings.GET("", listingHandler.ListListings)
			listings.GET("/:id", listingHandler.GetListing)
			listings.GET("/:id/contracts", listingHandler.GetListingContracts)
		}

		// Contract routes
		contracts := v1.Group("/contracts")
		contracts.Use(middleware.AuthRequired())
		{
			contracts.POST("", contractHandler.ProposeContract)
			contracts.GET("", contractHandler.ListContracts)
			contracts.GET("/:id", contractHandler.GetContract)
			contracts.GET("/:id/actions", contractHandler.GetAllowedActions)
			contracts.POST("/:id/respond", contractHandler.RespondToContract)
			contracts.POST("/:id/cancel", contractHandler.CancelContract)
			contracts.POST("/:id/complete", contractHandler.CompleteContract)
		}

		// Dashboard routes
		dashboard := v1.Group("/dashboard")
		dashboard.Use(middleware.AuthRequired())
		{
			dashboard.GET("/summary", dashboardHandler.GetSummary)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", dashboardHandler.GetNotifications)
			notifications.POST("/:id/read", dashboardHandler.MarkNotificationRead)
		}

		// Market data routes
		market := v1.Group("/market")
		market.Use(middleware.AuthRequired())
		{
			market.GET("/prices", marketHandler.GetCurrentPrices)
			market.GET("/price-history", marketHandler.GetPriceHistory)
		}

		// Forecast routes
		forecasts := v1.Group("/forecasts")
		forecasts.Use(middleware.AuthRequired())
		{
			forecasts.GET("", marketHandler.GetForecast)
		}
	}

	return r, marketService
}
