package retrieval

import (
	"context"

	"github.com/kailas-cloud/sibyl/internal/db"
)

// Store is the vector store contract consumed by the retrieval service.
type Store interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, def *db.CollectionDefinition) error
	DropCollection(ctx context.Context, name string) error
	UpsertPoint(ctx context.Context, collection, id string, vector []float32, payload map[string]string) error
	SearchKNN(ctx context.Context, collection string, vector []float32, topK int) ([]db.Point, error)
}
