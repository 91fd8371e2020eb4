package models

// MatchRequest is the payload for POST /matches.
type MatchRequest struct {
	// UserProfile is the contributor's skill profile as free text,
	// e.g. "I am a new Python developer. I have used pandas and scikit-learn."
	UserProfile string `json:"user_profile"`

	// ReposToScan is only honored in live-scan deployments: the listed
	// repositories are scanned synchronously instead of reading the store.
	ReposToScan []string `json:"repos_to_scan,omitempty"`
}

// MatchedIssue is one ranked result. Score is the cosine similarity
// between the profile and the issue document, in [-1, 1].
type MatchedIssue struct {
	Score  float64  `json:"score"`
	Title  string   `json:"title"`
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
}

// MatchResponse is the payload returned by POST /matches.
type MatchResponse struct {
	Matches        []MatchedIssue `json:"matches"`
	IssuesScanned  int            `json:"issues_scanned"` // candidates considered, before top-K truncation
	ProfileSummary string         `json:"profile_summary"`
}

// ScanReport summarises one ingestion run.
type ScanReport struct {
	Found int `json:"found"` // issues returned by the search API across all repos
	Added int `json:"added"` // issues newly inserted into the store
}
