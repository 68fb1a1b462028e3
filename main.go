package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"makanloka-backend/config"
	"makanloka-backend/database"
	"makanloka-backend/discovery"
	"makanloka-backend/logger"
	"makanloka-backend/metrics"
	"makanloka-backend/routes"
	"makanloka-backend/searchindex"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal("Environment validation failed: ", err)
	}

	appLog := logger.NewStructured(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "json"))

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := database.SeedPriceRanges(db); err != nil {
		log.Printf("Warning: Could not seed price ranges: %v", err)
	}
	if err := database.SeedDefaultSettings(db); err != nil {
		log.Printf("Warning: Could not seed default settings: %v", err)
	}

	deps := routes.Deps{DB: db, Log: appLog}

	// Optional collaborators: the server runs without either.
	if redisClient, err := database.ConnectRedis(); err != nil {
		log.Printf("Warning: redis unavailable, weekly favorites disabled: %v", err)
	} else {
		deps.Favorites = discovery.NewRedisFavorites(redisClient)
	}

	if esClient, err := database.ConnectElasticsearch(); err != nil {
		log.Printf("Warning: elasticsearch unavailable, index search disabled: %v", err)
	} else {
		deps.Indexed = searchindex.NewIndexedStoreSearch(esClient, config.GetEnv("ELASTICSEARCH_INDEX", searchindex.DefaultIndex), appLog)
	}

	// Setup Gin router
	r := gin.Default()
	r.Use(metrics.Middleware())

	// CORS configuration - filter out empty strings from AllowOrigins
	origins := []string{os.Getenv("FRONTEND_URL"), os.Getenv("CONSUMER_APP_URL")}
	var filteredOrigins []string
	for _, o := range origins {
		if o != "" {
			filteredOrigins = append(filteredOrigins, o)
		}
	}
	if len(filteredOrigins) == 0 {
		filteredOrigins = []string{"http://localhost:3000"}
		log.Println("WARNING: No CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     filteredOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, deps)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed")
		}
	}

	log.Println("Server exited gracefully")
}
