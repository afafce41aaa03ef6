package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/kailas-cloud/sibyl/internal/db"
)

// vectorField is the reserved hash field holding the embedding bytes.
const vectorField = "vector"

// CreateCollection creates an FT index over hashes prefixed with the
// collection name. The schema is a single FLAT FLOAT32 vector field with the
// requested distance metric.
func (s *Store) CreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrCollectionExists
		}
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}
	return nil
}

// DropCollection removes the FT index and all its points (DD).
func (s *Store) DropCollection(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name, "DD").Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return db.ErrCollectionNotFound
		}
		return &db.Error{Op: db.OpDropCollection, Err: err}
	}
	return nil
}

// CollectionExists probes via FT.INFO; "unknown index name" means absent.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpCollectionInfo, Err: err}
	}
	return true, nil
}

func buildCreateArgs(def *db.CollectionDefinition) ([]string, error) {
	if def.Name == "" {
		return nil, errors.New("collection name is required")
	}
	if def.Dimensions <= 0 {
		return nil, errors.New("vector dimensions must be positive")
	}

	distance := def.Distance
	if distance == "" {
		distance = db.DistanceCosine
	}

	args := []string{
		def.Name,
		"ON", "HASH",
		"PREFIX", "1", pointKeyPrefix(def.Name),
		"SCHEMA",
		vectorField, "VECTOR", "FLAT", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(def.Dimensions),
		"DISTANCE_METRIC", string(distance),
	}
	return args, nil
}

func pointKeyPrefix(collection string) string {
	return collection + ":"
}

func pointKey(collection, id string) string {
	return pointKeyPrefix(collection) + id
}
