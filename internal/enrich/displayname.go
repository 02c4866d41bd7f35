package enrich

import (
	"context"
	"log/slog"
)

// ReadmeFetcher returns the decoded README text of a repository.
type ReadmeFetcher interface {
	FetchReadme(ctx context.Context, owner, repo string) (string, error)
}

// DisplayNameResolver reads the display name override from a README.
type DisplayNameResolver struct {
	readmes ReadmeFetcher
}

func NewDisplayNameResolver(readmes ReadmeFetcher) *DisplayNameResolver {
	return &DisplayNameResolver{readmes: readmes}
}

// Resolve returns the README override, or repo itself when the README is
// unavailable or carries no override.
func (r *DisplayNameResolver) Resolve(ctx context.Context, owner, repo string) string {
	text, err := r.readmes.FetchReadme(ctx, owner, repo)
	if err != nil {
		slog.Warn("README fetch failed, using repository name", "repo", owner+"/"+repo, "error", err)
		return repo
	}

	if name, ok := ParseDisplayName(text); ok {
		return name
	}
	return repo
}
