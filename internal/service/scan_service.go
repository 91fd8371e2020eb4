package service

import (
	"context"
	"log"

	"github.com/first-pr/server/internal/models"
)

// IssueWriter is the write side of the ingested-issue table.
type IssueWriter interface {
	// UpsertIfAbsent inserts the record unless its external id is already
	// stored, reporting whether an insert happened. Re-ingesting a known
	// issue never refreshes its fields (first write wins).
	UpsertIfAbsent(ctx context.Context, rec models.IssueRecord) (bool, error)
}

// ScanService runs the ingestion job: pull good-first-issues for each
// configured repository and persist the ones not seen before.
type ScanService interface {
	Run(ctx context.Context, repos []string) (models.ScanReport, error)
}

type scanService struct {
	source IssueSource
	store  IssueWriter
}

// NewScanService wires the issue source and the store.
func NewScanService(source IssueSource, store IssueWriter) ScanService {
	return &scanService{
		source: source,
		store:  store,
	}
}

// Run scans every repository in order. The job is at-least-once and
// idempotent: a second run against an unchanged upstream adds nothing.
// Per-repository search failures and per-record defects are logged and
// skipped; neither aborts the batch.
func (s *scanService) Run(ctx context.Context, repos []string) (models.ScanReport, error) {
	log.Printf("Starting scan for %d repositories...", len(repos))

	var report models.ScanReport
	for _, repo := range repos {
		log.Printf("Fetching issues for repo: %s", repo)

		raw, err := s.source.SearchGoodFirstIssues(repo)
		if err != nil {
			log.Printf("WARNING: fetching %s failed: %v", repo, err)
			continue
		}
		report.Found += len(raw)

		for _, ri := range raw {
			rec, ok := toRecord(repo, ri)
			if !ok {
				log.Printf("WARNING: skipping malformed issue %d from %s", ri.ID, repo)
				continue
			}

			inserted, err := s.store.UpsertIfAbsent(ctx, rec)
			if err != nil {
				log.Printf("WARNING: inserting issue %d failed: %v", rec.ExternalID, err)
				continue
			}
			if inserted {
				report.Added++
			}
		}
	}

	log.Printf("Database scan complete. Total issues found: %d, new issues added: %d",
		report.Found, report.Added)
	return report, nil
}

// toRecord converts one raw search result into a store record. Identity
// and title are the fields ingestion insists on; url falls back through
// the API URL to a placeholder, and a missing body stays empty.
func toRecord(repo string, ri models.RawIssue) (models.IssueRecord, bool) {
	if ri.ID == 0 || ri.Title == "" {
		return models.IssueRecord{}, false
	}
	return models.IssueRecord{
		ExternalID: ri.ID,
		Repository: repo,
		Title:      ri.Title,
		Body:       ri.Body,
		URL:        ri.WebURL(),
		Labels:     ri.LabelNames(),
	}, true
}
