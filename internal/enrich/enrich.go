package enrich

import (
	"context"

	"github.com/kevinmichaelchen/portfolio-sync/internal/models"
	"golang.org/x/sync/errgroup"
)

// Enricher resolves the derived fields of one repository. It never fails:
// lookups that go wrong degrade to their defaults.
type Enricher struct {
	screenshots *ScreenshotResolver
	names       *DisplayNameResolver
}

func NewEnricher(screenshots *ScreenshotResolver, names *DisplayNameResolver) *Enricher {
	return &Enricher{screenshots: screenshots, names: names}
}

// Enrich runs the screenshot and display name lookups concurrently.
func (e *Enricher) Enrich(ctx context.Context, repo models.RepositorySummary) models.Enrichment {
	out := models.Enrichment{
		SocialPreview: SocialPreviewURL(repo.Owner, repo.Name),
	}

	var g errgroup.Group
	g.Go(func() error {
		out.Screenshot = e.screenshots.Resolve(ctx, repo.Owner, repo.Name)
		return nil
	})
	g.Go(func() error {
		out.DisplayName = e.names.Resolve(ctx, repo.Owner, repo.Name)
		return nil
	})
	_ = g.Wait()

	return out
}
