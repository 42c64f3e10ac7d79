package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"subsidy-crm-api/config"
	"subsidy-crm-api/controllers"
	"subsidy-crm-api/middleware"
	"subsidy-crm-api/routes"
	"subsidy-crm-api/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Initialize database
	config.InitDB()

	// Wire the engine over the gorm store
	store := services.NewGormStore(config.DB)
	notifier := services.NewNotificationService(store, config.NewMailerFromEnv())
	controllers.Init(&controllers.Services{
		Cases:         services.NewCaseService(store, notifier),
		Assignments:   services.NewAssignmentService(store, notifier),
		Documents:     services.NewDocumentService(store),
		Timeline:      services.NewTimelineService(store),
		Reports:       services.NewReportService(store),
		Notifications: notifier,
	})

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup routes
	routes.SetupRoutes(router)

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
