package github

import "github.com/kevinmichaelchen/portfolio-sync/internal/models"

// FilterByTopic keeps the repositories tagged with topic, preserving order.
// Repositories without topics never match.
func FilterByTopic(repos []models.RepositorySummary, topic string) []models.RepositorySummary {
	var matched []models.RepositorySummary
	for _, r := range repos {
		if r.HasTopic(topic) {
			matched = append(matched, r)
		}
	}
	return matched
}
