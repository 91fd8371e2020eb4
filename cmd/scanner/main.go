package main

import (
	"context"
	"log"

	"github.com/first-pr/server/internal/config"
	"github.com/first-pr/server/internal/database"
	"github.com/first-pr/server/internal/github"
	"github.com/first-pr/server/internal/repository"
	"github.com/first-pr/server/internal/service"
)

// main runs one ingestion pass over the configured repository list. Safe
// to re-run: already-ingested issues are left untouched.
func main() {
	cfg := config.Load()

	client, db, err := database.Connect(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer database.Disconnect(client)

	// NewIssueRepository ensures the unique index, so a fresh database is
	// ready after this call.
	issueRepo, err := repository.NewIssueRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialize issue repository: %v", err)
	}

	scanSvc := service.NewScanService(github.NewClient(cfg.GitHubToken), issueRepo)

	report, err := scanSvc.Run(context.Background(), cfg.ReposToScan)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	log.Printf("Scan finished: %d issues found, %d newly added", report.Found, report.Added)
}
