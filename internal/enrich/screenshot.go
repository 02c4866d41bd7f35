package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const screenshotPath = "assets/screenshot.png"

// Probed in order; the first existing asset wins.
var screenshotBranches = []string{"main", "master"}

// ScreenshotResolver finds a repository's screenshot on the raw-content host.
type ScreenshotResolver struct {
	baseURL    string
	httpClient *http.Client
}

func NewScreenshotResolver(baseURL string, timeout time.Duration) *ScreenshotResolver {
	return &ScreenshotResolver{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Candidates returns the screenshot URLs in probe order.
func (r *ScreenshotResolver) Candidates(owner, repo string) []string {
	urls := make([]string, 0, len(screenshotBranches))
	for _, branch := range screenshotBranches {
		urls = append(urls, fmt.Sprintf("%s/%s/%s/%s/%s", r.baseURL, owner, repo, branch, screenshotPath))
	}
	return urls
}

// Resolve returns the first candidate that exists, or "" when none does.
// Probe failures count as "does not exist".
func (r *ScreenshotResolver) Resolve(ctx context.Context, owner, repo string) string {
	for _, u := range r.Candidates(owner, repo) {
		ok, err := r.exists(ctx, u)
		if err != nil {
			slog.Warn("Screenshot probe failed", "repo", owner+"/"+repo, "url", u, "error", err)
			continue
		}
		if ok {
			return u
		}
	}
	return ""
}

func (r *ScreenshotResolver) exists(ctx context.Context, u string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "portfolio-sync-script")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
