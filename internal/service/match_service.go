package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/first-pr/server/internal/models"
)

// TopK is how many matches POST /matches returns at most. Ranking itself
// is never truncated; the cap is applied when shaping the response.
const TopK = 10

// maxBodyChars bounds how much of an issue body enters the embedded
// document. Bodies beyond it are cut and marked with an ellipsis.
const maxBodyChars = 500

// noTitlePlaceholder stands in for issues whose title never made it
// through ingestion.
const noTitlePlaceholder = "No title available"

// ErrNoIssues signals that the store holds no issues at all: the scanner
// has never run (or the table is gone). In store-backed mode this is a
// service-unavailable condition, distinct from a valid empty match list.
var ErrNoIssues = errors.New("no issues in the local database; run the scanner first")

// ---- Collaborator contracts -------------------------------------------------

// IssueStore is the read side of the ingested-issue table.
type IssueStore interface {
	ListAll(ctx context.Context) ([]models.IssueRecord, error)
}

// IssueSource searches one repository for open, unassigned
// good-first-issues. Used directly only in live-scan deployments.
type IssueSource interface {
	SearchGoodFirstIssues(repo string) ([]models.RawIssue, error)
}

// ---- Service interface + implementation ------------------------------------

// MatchService ranks stored or freshly scanned issues against a
// contributor's free-text skill profile.
type MatchService interface {
	// Rank scores every issue against the profile and returns all of them,
	// sorted by descending cosine similarity. Ties keep input order.
	Rank(ctx context.Context, profile string, issues []models.IssueRecord) ([]models.MatchedIssue, error)

	// MatchFromStore reads every ingested issue, ranks it, and shapes the
	// top-K response. Returns ErrNoIssues when the store is empty.
	MatchFromStore(ctx context.Context, profile string) (models.MatchResponse, error)

	// MatchLive scans the given repositories synchronously and ranks
	// whatever they yield. Zero issues found is a valid empty response,
	// not an error.
	MatchLive(ctx context.Context, profile string, repos []string) (models.MatchResponse, error)
}

type matchService struct {
	store    IssueStore
	source   IssueSource
	embedder EmbeddingClient
}

// NewMatchService wires the store, the issue source and the embedder.
func NewMatchService(store IssueStore, source IssueSource, embedder EmbeddingClient) MatchService {
	return &matchService{
		store:    store,
		source:   source,
		embedder: embedder,
	}
}

func (s *matchService) Rank(ctx context.Context, profile string, issues []models.IssueRecord) ([]models.MatchedIssue, error) {
	if len(issues) == 0 {
		return []models.MatchedIssue{}, nil
	}

	docs := make([]string, len(issues))
	for i, issue := range issues {
		docs[i] = buildIssueDoc(issue)
	}

	profileVec, err := s.embedder.Embed(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("embed profile: %w", err)
	}

	// One batched call for all candidates, regardless of how many there are.
	docVecs, err := s.embedder.EmbedBatch(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("embed issue documents: %w", err)
	}
	if len(docVecs) != len(issues) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(docVecs), len(issues))
	}

	results := make([]models.MatchedIssue, len(issues))
	for i, issue := range issues {
		title := issue.Title
		if title == "" {
			title = noTitlePlaceholder
		}
		url := issue.URL
		if url == "" {
			url = "#"
		}
		labels := issue.Labels
		if labels == nil {
			labels = []string{}
		}
		results[i] = models.MatchedIssue{
			Score:  cosine(profileVec, docVecs[i]),
			Title:  title,
			URL:    url,
			Labels: labels,
		}
	}

	// Stable: issues with identical scores keep their input order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

func (s *matchService) MatchFromStore(ctx context.Context, profile string) (models.MatchResponse, error) {
	issues, err := s.store.ListAll(ctx)
	if err != nil {
		return models.MatchResponse{}, fmt.Errorf("%w: %v", ErrNoIssues, err)
	}
	if len(issues) == 0 {
		return models.MatchResponse{}, ErrNoIssues
	}

	log.Printf("Total issues in DB: %d. Running AI matching...", len(issues))
	ranked, err := s.Rank(ctx, profile, issues)
	if err != nil {
		return models.MatchResponse{}, err
	}

	return shapeResponse(profile, ranked, len(issues)), nil
}

func (s *matchService) MatchLive(ctx context.Context, profile string, repos []string) (models.MatchResponse, error) {
	var issues []models.IssueRecord
	for _, repo := range repos {
		raw, err := s.source.SearchGoodFirstIssues(repo)
		if err != nil {
			// One unreachable repository must not sink the request.
			log.Printf("WARNING: scanning %s failed: %v", repo, err)
			continue
		}
		for _, ri := range raw {
			if ri.ID == 0 {
				log.Printf("WARNING: skipping issue without id from %s", repo)
				continue
			}
			issues = append(issues, models.IssueRecord{
				ExternalID: ri.ID,
				Repository: repo,
				Title:      ri.Title,
				Body:       ri.Body,
				URL:        ri.WebURL(),
				Labels:     ri.LabelNames(),
			})
		}
	}

	ranked, err := s.Rank(ctx, profile, issues)
	if err != nil {
		return models.MatchResponse{}, err
	}

	return shapeResponse(profile, ranked, len(issues)), nil
}

// buildIssueDoc renders the text that gets embedded for one issue. The
// body is cut at maxBodyChars characters (runes, not bytes, so multibyte
// text is never split) with a literal "..." marking the cut; a missing
// body embeds as the empty string rather than failing.
func buildIssueDoc(issue models.IssueRecord) string {
	title := issue.Title
	if title == "" {
		title = noTitlePlaceholder
	}

	body := issue.Body
	if runes := []rune(body); len(runes) > maxBodyChars {
		body = string(runes[:maxBodyChars]) + "..."
	}

	return fmt.Sprintf("Title: %s\n\nBody: %s", title, body)
}

// cosine computes cosine similarity between two vectors, accumulating in
// float64. Zero-norm input (empty text embeddings, dimension mismatch)
// scores 0 instead of dividing by zero.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// shapeResponse truncates the ranking to TopK and echoes the profile.
func shapeResponse(profile string, ranked []models.MatchedIssue, scanned int) models.MatchResponse {
	matches := ranked
	if len(matches) > TopK {
		matches = matches[:TopK]
	}
	return models.MatchResponse{
		Matches:        matches,
		IssuesScanned:  scanned,
		ProfileSummary: profile,
	}
}
