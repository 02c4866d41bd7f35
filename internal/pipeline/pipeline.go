package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kevinmichaelchen/portfolio-sync/internal/config"
	"github.com/kevinmichaelchen/portfolio-sync/internal/enrich"
	"github.com/kevinmichaelchen/portfolio-sync/internal/github"
	"github.com/kevinmichaelchen/portfolio-sync/internal/models"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// DryRun builds the records but skips the commit.
	DryRun bool
}

type Lister interface {
	ListPortfolioRepositories(ctx context.Context, topic string) ([]models.RepositorySummary, error)
}

type Enricher interface {
	Enrich(ctx context.Context, repo models.RepositorySummary) models.Enrichment
}

// Store persists projects keyed by name. CommitProjects must be atomic:
// either every project is written or none is.
type Store interface {
	CommitProjects(ctx context.Context, projects []models.Project) error
	ListProjects(ctx context.Context) ([]models.Project, error)
	Close() error
}

// Syncer runs one list -> enrich -> build -> commit pass.
type Syncer struct {
	Lister      Lister
	Enricher    Enricher
	Store       Store
	Topic       string
	Concurrency int

	// CommitTimeout bounds the batch commit; zero means no limit.
	CommitTimeout time.Duration
}

// Sync returns the number of projects committed (or built, on a dry run).
func (s *Syncer) Sync(ctx context.Context, opts Options) (int, error) {
	repos, err := s.Lister.ListPortfolioRepositories(ctx, s.Topic)
	if err != nil {
		return 0, fmt.Errorf("listing repositories: %w", err)
	}
	if len(repos) == 0 {
		slog.Info("No portfolio repositories found, nothing to write", "topic", s.Topic)
		return 0, nil
	}

	projects := s.build(ctx, repos)
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("enrichment interrupted: %w", err)
	}

	if opts.DryRun {
		for _, p := range projects {
			slog.Info("Would write project",
				"name", p.Name,
				"displayName", p.DisplayName,
				"screenshot", p.Screenshot,
				"socialPreview", p.SocialPreview)
		}
		slog.Info("Dry run complete, nothing written", "count", len(projects))
		return len(projects), nil
	}

	commitCtx := ctx
	if s.CommitTimeout > 0 {
		var cancel context.CancelFunc
		commitCtx, cancel = context.WithTimeout(ctx, s.CommitTimeout)
		defer cancel()
	}
	if err := s.Store.CommitProjects(commitCtx, projects); err != nil {
		return 0, &CommitError{Count: len(projects), Err: err}
	}
	slog.Info("Projects synced", "count", len(projects))
	return len(projects), nil
}

// build enriches repositories with bounded concurrency. The result keeps
// listing order.
func (s *Syncer) build(ctx context.Context, repos []models.RepositorySummary) []models.Project {
	limit := s.Concurrency
	if limit < 1 {
		limit = 1
	}

	projects := make([]models.Project, len(repos))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, repo := range repos {
		g.Go(func() error {
			e := s.Enricher.Enrich(ctx, repo)
			projects[i] = BuildProject(repo, e)
			slog.Debug("Enriched repository",
				"repo", repo.Name,
				"displayName", projects[i].DisplayName,
				"screenshot", projects[i].Screenshot != "")
			return nil
		})
	}
	_ = g.Wait()

	return projects
}

// Run wires the production clients from cfg and syncs once.
func Run(ctx context.Context, cfg *config.Config, opts Options) (int, error) {
	gh, err := github.NewClient(cfg.GitHubToken, cfg.GitHubUsername, github.Options{
		BaseURL: cfg.GitHubAPIURL,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		return 0, err
	}

	syncer := &Syncer{
		Lister: gh,
		Enricher: enrich.NewEnricher(
			enrich.NewScreenshotResolver(cfg.RawContentURL, cfg.RequestTimeout),
			enrich.NewDisplayNameResolver(gh),
		),
		Topic:         cfg.PortfolioTopic,
		Concurrency:   cfg.EnrichConcurrency,
		CommitTimeout: cfg.RequestTimeout,
	}

	if !opts.DryRun {
		store, err := OpenStore(ctx, cfg)
		if err != nil {
			return 0, err
		}
		defer func() { _ = store.Close() }()
		syncer.Store = store
	}

	slog.Info("Syncing portfolio projects", "account", cfg.GitHubUsername, "topic", cfg.PortfolioTopic, "backend", cfg.StoreBackend)
	return syncer.Sync(ctx, opts)
}
