package github

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/first-pr/server/internal/models"
)

const defaultBaseURL = "https://api.github.com"

// Client is a minimal wrapper around GitHub's REST API v3.
// It is intentionally light—just the search endpoint our services require.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient returns a ready-to-use GitHub API client.
// token may be an empty string, but you will be subject to very low rate-limits.
func NewClient(token string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
		token:   token,
	}
}

// searchResponse is the envelope GitHub wraps search results in.
type searchResponse struct {
	TotalCount int               `json:"total_count"`
	Items      []models.RawIssue `json:"items"`
}

// SearchGoodFirstIssues fetches "truly available" issues for a single
// repository: open, not a pull request, labeled "good first issue", and
// with no assignee. A single page of up to 50 results is requested; deeper
// pagination is a known scale limit of the current design.
//
//	repo – repository full name (e.g. "pandas-dev/pandas")
//
// Transport or non-2xx failures are returned to the caller; the recovery
// policy (treat as zero issues and continue) belongs to the scan job, not
// this client.
func (c *Client) SearchGoodFirstIssues(repo string) ([]models.RawIssue, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/search/issues", nil)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`repo:%s state:open is:issue label:"good first issue" no:assignee`, repo)

	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", "50")
	req.URL.RawQuery = q.Encode()

	c.addHeaders(req)

	var out searchResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("search issues for %s: %w", repo, err)
	}
	return out.Items, nil
}

// addHeaders sets authentication and Accept headers.
func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", "first-pr-api")
}

// do executes the HTTP request and decodes JSON into v.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("github: unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
