package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kevinmichaelchen/portfolio-sync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClient("tok", "octocat", Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

const reposJSON = `[
  {
    "name": "site",
    "owner": {"login": "octocat"},
    "html_url": "https://github.com/octocat/site",
    "homepage": "https://octocat.dev",
    "description": "Personal site",
    "topics": ["portfolio-project", "astro"],
    "created_at": "2023-02-01T10:00:00Z",
    "updated_at": "2024-05-06T07:08:09Z"
  },
  {
    "name": "dotfiles",
    "owner": {"login": "octocat"},
    "html_url": "https://github.com/octocat/dotfiles",
    "homepage": null,
    "description": null,
    "topics": ["config"],
    "created_at": "2020-01-01T00:00:00Z",
    "updated_at": "2020-01-02T00:00:00Z"
  },
  {
    "name": "scratch",
    "owner": {"login": "octocat"},
    "html_url": "https://github.com/octocat/scratch"
  }
]`

func TestListPortfolioRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "portfolio-sync-script", r.Header.Get("User-Agent"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Contains(t, r.Header.Get("Accept"), "application/vnd.github")
		assert.NotEmpty(t, r.Header.Get("X-GitHub-Api-Version"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reposJSON))
	})
	c := newTestClient(t, mux)

	repos, err := c.ListPortfolioRepositories(context.Background(), "portfolio-project")
	require.NoError(t, err)
	require.Len(t, repos, 1)

	r := repos[0]
	assert.Equal(t, "octocat", r.Owner)
	assert.Equal(t, "site", r.Name)
	assert.Equal(t, "https://github.com/octocat/site", r.HTMLURL)
	require.NotNil(t, r.Homepage)
	assert.Equal(t, "https://octocat.dev", *r.Homepage)
	require.NotNil(t, r.Description)
	assert.Equal(t, "Personal site", *r.Description)
	assert.Equal(t, []string{"portfolio-project", "astro"}, r.Topics)
	assert.Equal(t, "2024-05-06T07:08:09Z", r.UpdatedAt)
	assert.Equal(t, "2023-02-01T10:00:00Z", r.CreatedAt)
}

func TestListRepositories_MissingFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name": "bare"}]`))
	})
	c := newTestClient(t, mux)

	repos, err := c.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 1)

	assert.Equal(t, "octocat", repos[0].Owner, "owner falls back to the configured account")
	assert.Nil(t, repos[0].Topics)
	assert.Empty(t, repos[0].UpdatedAt)
	assert.Empty(t, repos[0].CreatedAt)
}

func TestListPortfolioRepositories_Forbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Resource not accessible by personal access token"}`))
	})
	c := newTestClient(t, mux)

	repos, err := c.ListPortfolioRepositories(context.Background(), "portfolio-project")
	require.Error(t, err)
	assert.Nil(t, repos)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusForbidden, upErr.StatusCode)
	assert.Equal(t, "Forbidden", upErr.Status)
	assert.Contains(t, err.Error(), "list repositories")
}

func TestListRepositories_Timeout(t *testing.T) {
	block := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	c, err := NewClient("tok", "octocat", Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.ListRepositories(context.Background())
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Zero(t, upErr.StatusCode)
}

func TestFetchReadme(t *testing.T) {
	readme := "# Site\n<!-- portfolio-meta display_name: Foo Bar -->\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/site/readme", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":     "file",
			"name":     "README.md",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(readme)),
		})
	})
	c := newTestClient(t, mux)

	text, err := c.FetchReadme(context.Background(), "octocat", "site")
	require.NoError(t, err)
	assert.Equal(t, readme, text)
}

func TestFetchReadme_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/site/readme", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})
	c := newTestClient(t, mux)

	_, err := c.FetchReadme(context.Background(), "octocat", "site")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusNotFound, upErr.StatusCode)
}

func TestFilterByTopic(t *testing.T) {
	repos := []models.RepositorySummary{
		{Name: "a", Topics: []string{"portfolio-project"}},
		{Name: "b", Topics: nil},
		{Name: "c", Topics: []string{}},
		{Name: "d", Topics: []string{"go", "portfolio-project"}},
		{Name: "e", Topics: []string{"portfolio"}},
	}

	got := FilterByTopic(repos, "portfolio-project")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "d", got[1].Name)

	assert.Empty(t, FilterByTopic(nil, "portfolio-project"))
}
