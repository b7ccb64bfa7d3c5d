package main

import (
	"log"

	"github.com/blogspace/server/internal/router"
	"github.com/blogspace/server/pkg/config"
	"github.com/blogspace/server/pkg/storage"
	"github.com/blogspace/server/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Initialize object storage client for presigned upload URLs
	uploader, err := storage.NewUploader(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Mongo, cfg, uploader)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
