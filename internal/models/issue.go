package models

// RawLabel is one entry of the labels array in GitHub's search response.
type RawLabel struct {
	Name string `json:"name"`
}

// RawIssue captures the minimal fields we care about from GitHub's
// search API. Body is nullable upstream; JSON null decodes to "".
type RawIssue struct {
	ID      int64      `json:"id"`
	Title   string     `json:"title"`
	Body    string     `json:"body"`
	HTMLURL string     `json:"html_url"`
	URL     string     `json:"url"`
	Labels  []RawLabel `json:"labels"`
}

// IssueRecord is one stored issue, keyed by the upstream issue id.
type IssueRecord struct {
	ExternalID int64    `bson:"external_id" json:"external_id"`
	Repository string   `bson:"repository"  json:"repository"` // "owner/name"
	Title      string   `bson:"title"       json:"title"`
	Body       string   `bson:"body"        json:"body"`
	URL        string   `bson:"url"         json:"url"`
	Labels     []string `bson:"labels"      json:"labels"`
}

// LabelNames flattens the label objects to their names, dropping
// entries without one.
func (r RawIssue) LabelNames() []string {
	names := make([]string, 0, len(r.Labels))
	for _, l := range r.Labels {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}
	return names
}

// WebURL picks the canonical link for the issue: the HTML URL when
// present, then the API URL, then a placeholder.
func (r RawIssue) WebURL() string {
	if r.HTMLURL != "" {
		return r.HTMLURL
	}
	if r.URL != "" {
		return r.URL
	}
	return "#"
}
