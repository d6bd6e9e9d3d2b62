package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"zetchat-api/config"
	"zetchat-api/database"
	"zetchat-api/middleware"
	"zetchat-api/routes"
	"zetchat-api/services"
)

func main() {
	// Load .env if present (development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.DebugMode)
	}

	// Email service
	emailService := services.NewEmailService(cfg)

	// Create router
	router := gin.Default()

	// Setup CORS middleware
	router.Use(routes.SetupCORS(cfg.AllowedOrigins))

	// Security headers
	router.Use(middleware.SecurityHeaders())

	// Global rate limit
	router.Use(middleware.RateLimit(100, 20))

	// Setup routes
	routes.SetupRoutes(router, db, cfg, emailService)

	// Start server
	log.Printf("Starting ZetChat API server on port %s", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
