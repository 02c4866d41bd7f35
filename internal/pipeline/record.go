package pipeline

import (
	"math"
	"time"

	"github.com/kevinmichaelchen/portfolio-sync/internal/models"
)

// BuildProject assembles the stored document for one repository.
func BuildProject(repo models.RepositorySummary, e models.Enrichment) models.Project {
	p := models.Project{
		Name:               repo.Name,
		DisplayName:        e.DisplayName,
		GitHubURL:          repo.HTMLURL,
		Topics:             repo.Topics,
		UpdatedAt:          repo.UpdatedAt,
		UpdatedAtTimestamp: TimestampMillis(repo.UpdatedAt),
		CreatedAt:          repo.CreatedAt,
		CreatedAtTimestamp: TimestampMillis(repo.CreatedAt),
		Screenshot:         e.Screenshot,
		SocialPreview:      e.SocialPreview,
	}
	if p.DisplayName == "" {
		p.DisplayName = repo.Name
	}
	if repo.Homepage != nil {
		p.LiveURL = *repo.Homepage
	}
	if repo.Description != nil {
		p.Description = *repo.Description
	}
	if p.Topics == nil {
		p.Topics = []string{}
	}
	return p
}

// TimestampMillis converts an RFC 3339 timestamp to epoch milliseconds.
// Empty or unparseable input yields NaN so bad upstream data stays visible.
func TimestampMillis(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return math.NaN()
	}
	return float64(t.UnixMilli())
}
