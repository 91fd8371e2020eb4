package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/first-pr/server/internal/config"
	"github.com/first-pr/server/internal/models"
	"github.com/first-pr/server/internal/service"
)

// fakeMatchSvc scripts the service layer underneath the handler.
type fakeMatchSvc struct {
	storeResp models.MatchResponse
	storeErr  error
	liveResp  models.MatchResponse
	liveErr   error

	storeCalls int
	liveCalls  int
	liveRepos  []string
}

func (f *fakeMatchSvc) Rank(_ context.Context, _ string, _ []models.IssueRecord) ([]models.MatchedIssue, error) {
	panic("not used by the handler")
}

func (f *fakeMatchSvc) MatchFromStore(_ context.Context, _ string) (models.MatchResponse, error) {
	f.storeCalls++
	return f.storeResp, f.storeErr
}

func (f *fakeMatchSvc) MatchLive(_ context.Context, _ string, repos []string) (models.MatchResponse, error) {
	f.liveCalls++
	f.liveRepos = repos
	return f.liveResp, f.liveErr
}

func newApp(mode string, svc service.MatchService) *fiber.App {
	app := fiber.New()
	NewMatchHandler(svc, mode).Register(app)
	NewHealthHandler(nil).Register(app)
	return app
}

func postMatches(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/matches", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestMatchesRequiresProfile(t *testing.T) {
	app := newApp(config.ModeStore, &fakeMatchSvc{})

	for _, body := range []string{`{}`, `{"user_profile":"   "}`} {
		resp := postMatches(t, app, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: status %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestMatchesStoreModeEmptyStoreIs503(t *testing.T) {
	svc := &fakeMatchSvc{storeErr: service.ErrNoIssues}
	app := newApp(config.ModeStore, svc)

	resp := postMatches(t, app, `{"user_profile":"python data science"}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", resp.StatusCode)
	}
	msg, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(msg), "run the scanner") {
		t.Errorf("error should tell the operator to run the scanner, got %q", msg)
	}
}

func TestMatchesStoreModeRejectsRepoList(t *testing.T) {
	svc := &fakeMatchSvc{}
	app := newApp(config.ModeStore, svc)

	resp := postMatches(t, app, `{"user_profile":"p","repos_to_scan":["o/r"]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	if svc.storeCalls != 0 || svc.liveCalls != 0 {
		t.Fatalf("service must not be invoked on a rejected request")
	}
}

func TestMatchesStoreModeHappyPath(t *testing.T) {
	svc := &fakeMatchSvc{storeResp: models.MatchResponse{
		Matches: []models.MatchedIssue{
			{Score: 0.9, Title: "best", URL: "u1", Labels: []string{"good first issue"}},
			{Score: 0.4, Title: "ok", URL: "u2", Labels: []string{}},
		},
		IssuesScanned:  2,
		ProfileSummary: "python data science",
	}}
	app := newApp(config.ModeStore, svc)

	resp := postMatches(t, app, `{"user_profile":"python data science"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}

	var got models.MatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Matches) != 2 || got.Matches[0].Title != "best" {
		t.Errorf("unexpected matches: %+v", got.Matches)
	}
	if got.IssuesScanned != 2 || got.ProfileSummary != "python data science" {
		t.Errorf("unexpected envelope: %+v", got)
	}
	if svc.storeCalls != 1 || svc.liveCalls != 0 {
		t.Errorf("expected exactly one store-mode call, got store=%d live=%d", svc.storeCalls, svc.liveCalls)
	}
}

func TestMatchesLiveMode(t *testing.T) {
	svc := &fakeMatchSvc{liveResp: models.MatchResponse{
		Matches: []models.MatchedIssue{
			{Score: 0.8, Title: "a", URL: "u1", Labels: []string{}},
			{Score: 0.5, Title: "b", URL: "u2", Labels: []string{}},
			{Score: 0.1, Title: "c", URL: "u3", Labels: []string{}},
		},
		IssuesScanned:  3,
		ProfileSummary: "python data science",
	}}
	app := newApp(config.ModeLive, svc)

	resp := postMatches(t, app, `{"user_profile":"python data science","repos_to_scan":["pandas-dev/pandas"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}

	var got models.MatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Matches) != 3 || got.IssuesScanned != 3 {
		t.Errorf("unexpected response: %+v", got)
	}
	if len(svc.liveRepos) != 1 || svc.liveRepos[0] != "pandas-dev/pandas" {
		t.Errorf("repos not forwarded, got %v", svc.liveRepos)
	}
}

func TestMatchesLiveModeRequiresRepos(t *testing.T) {
	app := newApp(config.ModeLive, &fakeMatchSvc{})

	resp := postMatches(t, app, `{"user_profile":"python"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	app := newApp(config.ModeStore, &fakeMatchSvc{})

	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d, want 200", path, resp.StatusCode)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if body["status"] != "ok" {
			t.Errorf("%s: status field = %v", path, body["status"])
		}
	}
}
