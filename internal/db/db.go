// Package db defines the retrieval backend facade: a network vector store
// holding named collections of points (id + embedding + payload).
package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Store is the vector store facade.
type Store interface {
	Pinger
	CollectionManager
	PointStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CollectionManager provides collection lifecycle operations.
type CollectionManager interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, def *CollectionDefinition) error
	DropCollection(ctx context.Context, name string) error
}

// PointStore provides point upsert and nearest-neighbor search.
type PointStore interface {
	UpsertPoint(ctx context.Context, collection, id string, vector []float32, payload map[string]string) error
	SearchKNN(ctx context.Context, collection string, vector []float32, topK int) ([]Point, error)
}

// Distance is the similarity metric of a collection.
type Distance string

const (
	DistanceCosine Distance = "COSINE"
	DistanceL2     Distance = "L2"
	DistanceIP     Distance = "IP"
)

// CollectionDefinition describes a collection to create.
type CollectionDefinition struct {
	Name       string
	Dimensions int
	Distance   Distance
}

// Point is one stored entry returned from a search, with its similarity
// score (higher = more similar).
type Point struct {
	ID      string
	Score   float32
	Payload map[string]string
}

var (
	// ErrCollectionExists signals a duplicate collection creation.
	ErrCollectionExists = errors.New("collection already exists")
	// ErrCollectionNotFound signals a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")
)

// Op identifies a store operation for error reporting.
type Op string

const (
	OpPing             Op = "ping"
	OpCreateCollection Op = "create_collection"
	OpDropCollection   Op = "drop_collection"
	OpCollectionInfo   Op = "collection_info"
	OpUpsert           Op = "upsert"
	OpSearch           Op = "search"
)

// Error wraps a backend failure with the operation that caused it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("db %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
