package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/first-pr/server/internal/config"
	"github.com/first-pr/server/internal/database"
	"github.com/first-pr/server/internal/github"
	"github.com/first-pr/server/internal/handler"
	"github.com/first-pr/server/internal/middleware"
	"github.com/first-pr/server/internal/repository"
	"github.com/first-pr/server/internal/service"
)

// main is the single entry-point for the REST API.
func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - Database: %s", cfg.DBName)
	log.Printf("  - Match mode: %s", cfg.MatchMode)

	if cfg.ProjectID == "" {
		log.Fatalf("env var GCP_PROJECT_ID is required")
	}

	// Connect to MongoDB
	client, db, err := database.Connect(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer database.Disconnect(client)
	log.Printf("Connected to MongoDB")

	// Initialize the issue store
	issueRepo, err := repository.NewIssueRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialize issue repository: %v", err)
	}

	// Initialize the Vertex AI embedder. A failure here is fatal: the
	// process must not serve ranking requests without a working model.
	embedder, err := service.NewVertexEmbedder(context.Background(), cfg.ProjectID, cfg.Location, cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to initialize Vertex AI embedder: %v", err)
	}
	defer embedder.Close()
	log.Printf("Embedding model initialized")

	// Initialize services
	ghClient := github.NewClient(cfg.GitHubToken)
	matchSvc := service.NewMatchService(issueRepo, ghClient, embedder)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Add middleware
	app.Use(middleware.Logging())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendOrigin,
		AllowCredentials: true,
	}))

	// Register routes
	handler.RegisterRoutes(app, matchSvc, cfg.MatchMode, client)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
