package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/kevinmichaelchen/portfolio-sync/internal/config"
	"github.com/kevinmichaelchen/portfolio-sync/internal/firestore"
	"github.com/kevinmichaelchen/portfolio-sync/internal/surrealdb"
)

// OpenStore connects to the backend selected by cfg.StoreBackend.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		fs, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseServiceAccount, cfg.FirestoreCollection)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.BackendSurrealDB:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
		db, err := surrealdb.NewClient(connectCtx, cfg)
		if err != nil {
			return nil, err
		}
		return &surrealStore{Client: db, timeout: cfg.RequestTimeout}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// surrealStore adapts the SurrealDB client, whose Close takes a context.
type surrealStore struct {
	*surrealdb.Client
	timeout time.Duration
}

func (s *surrealStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.Client.Close(ctx)
}
