package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevinmichaelchen/portfolio-sync/internal/config"
	"github.com/kevinmichaelchen/portfolio-sync/internal/models"
	sdk "github.com/surrealdb/surrealdb.go"
)

const table = "project"

type Client struct {
	db *sdk.DB
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	db, err := sdk.FromEndpointURLString(ctx, cfg.SurrealURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, sdk.Auth{
		Namespace: cfg.SurrealNS,
		Database:  cfg.SurrealDB,
		Username:  cfg.SurrealUser,
		Password:  cfg.SurrealPass,
	}); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("signing in: %w", err)
	}

	if err := db.Use(ctx, cfg.SurrealNS, cfg.SurrealDB); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("selecting ns/db: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}

const schema = `
DEFINE TABLE IF NOT EXISTS project SCHEMAFULL;

DEFINE FIELD IF NOT EXISTS name               ON TABLE project TYPE string;
DEFINE FIELD IF NOT EXISTS displayName        ON TABLE project TYPE string;
DEFINE FIELD IF NOT EXISTS githubUrl          ON TABLE project TYPE string;
DEFINE FIELD IF NOT EXISTS liveUrl            ON TABLE project TYPE string;
DEFINE FIELD IF NOT EXISTS description        ON TABLE project TYPE string;
DEFINE FIELD IF NOT EXISTS topics             ON TABLE project TYPE array<string>;
DEFINE FIELD IF NOT EXISTS updatedAt          ON TABLE project TYPE string;
DEFINE FIELD IF NOT EXISTS updatedAtTimestamp ON TABLE project TYPE float;
DEFINE FIELD IF NOT EXISTS createdAt          ON TABLE project TYPE string;
DEFINE FIELD IF NOT EXISTS createdAtTimestamp ON TABLE project TYPE float;
DEFINE FIELD IF NOT EXISTS screenshot         ON TABLE project TYPE string;
DEFINE FIELD IF NOT EXISTS socialPreview      ON TABLE project TYPE string;

DEFINE INDEX IF NOT EXISTS idx_name ON TABLE project FIELDS name UNIQUE;
`

func (c *Client) InitSchema(ctx context.Context) error {
	_, err := sdk.Query[any](ctx, c.db, schema, nil)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// CommitProjects replaces every project record inside one transaction.
func (c *Client) CommitProjects(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	query, vars := commitQuery(projects)
	results, err := sdk.Query[any](ctx, c.db, query, vars)
	if err != nil {
		return fmt.Errorf("committing %d projects: %w", len(projects), err)
	}
	for i, r := range *results {
		if r.Status != "OK" {
			return fmt.Errorf("committing %d projects: statement %d returned %s", len(projects), i, r.Status)
		}
	}
	return nil
}

// commitQuery builds a single transaction of UPSERT ... CONTENT statements.
// CONTENT replaces the whole record, so a re-run leaves no stale fields.
func commitQuery(projects []models.Project) (string, map[string]any) {
	var b strings.Builder
	vars := map[string]any{"tb": table}

	b.WriteString("BEGIN TRANSACTION;\n")
	for i, p := range projects {
		fmt.Fprintf(&b, "UPSERT type::thing($tb, $id%d) CONTENT $data%d;\n", i, i)
		vars[fmt.Sprintf("id%d", i)] = p.Name
		vars[fmt.Sprintf("data%d", i)] = projectData(p)
	}
	b.WriteString("COMMIT TRANSACTION;")

	return b.String(), vars
}

func projectData(p models.Project) map[string]any {
	topics := p.Topics
	if topics == nil {
		topics = []string{}
	}
	return map[string]any{
		"name":               p.Name,
		"displayName":        p.DisplayName,
		"githubUrl":          p.GitHubURL,
		"liveUrl":            p.LiveURL,
		"description":        p.Description,
		"topics":             topics,
		"updatedAt":          p.UpdatedAt,
		"updatedAtTimestamp": p.UpdatedAtTimestamp,
		"createdAt":          p.CreatedAt,
		"createdAtTimestamp": p.CreatedAtTimestamp,
		"screenshot":         p.Screenshot,
		"socialPreview":      p.SocialPreview,
	}
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	results, err := sdk.Query[[]models.Project](ctx, c.db,
		`SELECT * FROM project ORDER BY name`, nil)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	if len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}
