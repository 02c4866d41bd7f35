package models

// RepositorySummary is the subset of a GitHub repository listing the sync
// reads. Timestamps are RFC 3339 strings, empty when GitHub omitted them.
type RepositorySummary struct {
	Owner       string   `json:"owner"`
	Name        string   `json:"name"`
	HTMLURL     string   `json:"html_url"`
	Homepage    *string  `json:"homepage"`
	Description *string  `json:"description"`
	Topics      []string `json:"topics"`
	UpdatedAt   string   `json:"updated_at"`
	CreatedAt   string   `json:"created_at"`
}

// HasTopic reports whether topic is among the repository's topics.
func (r RepositorySummary) HasTopic(topic string) bool {
	for _, t := range r.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Enrichment holds the values resolved for one repository beyond its listing.
type Enrichment struct {
	DisplayName   string
	Screenshot    string
	SocialPreview string
}

// Project is the document written to the store, keyed by Name.
type Project struct {
	Name               string   `json:"name" firestore:"name"`
	DisplayName        string   `json:"displayName" firestore:"displayName"`
	GitHubURL          string   `json:"githubUrl" firestore:"githubUrl"`
	LiveURL            string   `json:"liveUrl" firestore:"liveUrl"`
	Description        string   `json:"description" firestore:"description"`
	Topics             []string `json:"topics" firestore:"topics"`
	UpdatedAt          string   `json:"updatedAt" firestore:"updatedAt"`
	UpdatedAtTimestamp float64  `json:"updatedAtTimestamp" firestore:"updatedAtTimestamp"`
	CreatedAt          string   `json:"createdAt" firestore:"createdAt"`
	CreatedAtTimestamp float64  `json:"createdAtTimestamp" firestore:"createdAtTimestamp"`
	Screenshot         string   `json:"screenshot" firestore:"screenshot"`
	SocialPreview      string   `json:"socialPreview" firestore:"socialPreview"`
}
