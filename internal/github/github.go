package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"github.com/kevinmichaelchen/portfolio-sync/internal/models"
	"golang.org/x/oauth2"
)

const (
	userAgent = "portfolio-sync-script"

	// Single page only; accounts with more repositories are truncated.
	perPage = 100
)

// Client is a thin wrapper around the GitHub REST API scoped to one account.
type Client struct {
	gh      *gh.Client
	account string
}

type Options struct {
	// BaseURL overrides https://api.github.com/.
	BaseURL string
	// Timeout bounds each request, including reading the body.
	Timeout time.Duration
}

func NewClient(token, account string, opts Options) (*Client, error) {
	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   &cacheBypassTransport{base: http.DefaultTransport},
		},
	}

	client := gh.NewClient(httpClient)
	client.UserAgent = userAgent

	if opts.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub base URL: %w", err)
		}
		client.BaseURL = u
	}

	return &Client{gh: client, account: account}, nil
}

// Account returns the login whose repositories are listed.
func (c *Client) Account() string {
	return c.account
}

// ListRepositories returns the first page (up to 100) of the account's
// repositories.
func (c *Client) ListRepositories(ctx context.Context) ([]models.RepositorySummary, error) {
	repos, resp, err := c.gh.Repositories.ListByUser(ctx, c.account, &gh.RepositoryListByUserOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, newUpstreamError("list repositories", resp, err)
	}

	out := make([]models.RepositorySummary, 0, len(repos))
	for _, r := range repos {
		out = append(out, c.toSummary(r))
	}
	return out, nil
}

// ListPortfolioRepositories lists the account's repositories and keeps the
// ones tagged with topic.
func (c *Client) ListPortfolioRepositories(ctx context.Context, topic string) ([]models.RepositorySummary, error) {
	repos, err := c.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}

	matched := FilterByTopic(repos, topic)
	slog.Info("Listed repositories", "account", c.account, "total", len(repos), "topic", topic, "matched", len(matched))
	return matched, nil
}

// FetchReadme returns the decoded README of owner/repo.
func (c *Client) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	content, resp, err := c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		return "", newUpstreamError("get readme "+owner+"/"+repo, resp, err)
	}

	text, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding readme for %s/%s: %w", owner, repo, err)
	}
	return text, nil
}

func (c *Client) toSummary(r *gh.Repository) models.RepositorySummary {
	s := models.RepositorySummary{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		HTMLURL:     r.GetHTMLURL(),
		Homepage:    r.Homepage,
		Description: r.Description,
		Topics:      r.Topics,
	}
	if s.Owner == "" {
		s.Owner = c.account
	}
	if r.UpdatedAt != nil {
		s.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if r.CreatedAt != nil {
		s.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return s
}

// cacheBypassTransport asks intermediaries for a fresh response on every
// request so a re-run sees topic edits immediately.
type cacheBypassTransport struct {
	base http.RoundTripper
}

func (t *cacheBypassTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Cache-Control", "no-cache")
	return t.base.RoundTrip(req)
}
