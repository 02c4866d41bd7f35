package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/kevinmichaelchen/portfolio-sync/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Firestore caps a transaction at 500 writes.
const maxTransactionWrites = 500

// Client writes projects into one Firestore collection.
type Client struct {
	fs         *firestore.Client
	collection string
}

// NewClient creates a Firestore client authenticated with a service account
// JSON payload. When FIRESTORE_EMULATOR_HOST is set the SDK talks to the
// emulator instead.
func NewClient(ctx context.Context, projectID string, credentialsJSON []byte, collection string) (*Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection must be provided to create a firestore client")
	}

	var opts []option.ClientOption
	if len(credentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}

	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &Client{fs: fs, collection: collection}, nil
}

func (c *Client) Close() error {
	return c.fs.Close()
}

// CommitProjects overwrites one document per project, keyed by name, inside a
// single transaction. Either every document is written or none is.
func (c *Client) CommitProjects(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	if err := validateBatch(projects); err != nil {
		return err
	}

	coll := c.fs.Collection(c.collection)
	err := c.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, p := range projects {
			if err := tx.Set(coll.Doc(p.Name), p); err != nil {
				return fmt.Errorf("staging %s: %w", p.Name, err)
			}
		}
		return nil
	}, firestore.MaxAttempts(1))
	if err != nil {
		return fmt.Errorf("firestore transaction on %s: %w", c.collection, err)
	}
	return nil
}

// ListProjects returns every document in the collection.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	it := c.fs.Collection(c.collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer it.Stop()

	var projects []models.Project
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", c.collection, err)
		}

		var p models.Project
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decoding %s/%s: %w", c.collection, doc.Ref.ID, err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// validateBatch rejects batches Firestore would refuse, before any write.
func validateBatch(projects []models.Project) error {
	if len(projects) > maxTransactionWrites {
		return fmt.Errorf("batch of %d projects exceeds the %d-write transaction limit", len(projects), maxTransactionWrites)
	}

	seen := make(map[string]bool, len(projects))
	for _, p := range projects {
		if p.Name == "" {
			return fmt.Errorf("project with empty name cannot be keyed")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate project %q in batch", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
