package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/sibyl/internal/db"
)

// scoreField is the implicit distance field RediSearch attaches to KNN hits.
const scoreField = "__" + vectorField + "_score"

// SearchKNN runs a KNN vector similarity search via FT.SEARCH. Results are
// ordered by ascending cosine distance, i.e. descending similarity.
func (s *Store) SearchKNN(
	ctx context.Context, collection string, vector []float32, topK int,
) ([]db.Point, error) {
	if collection == "" {
		return nil, errors.New("collection is required")
	}
	if len(vector) == 0 {
		return nil, errors.New("vector is required")
	}
	if topK <= 0 {
		return nil, errors.New("topK must be positive")
	}

	queryStr := fmt.Sprintf("*=>[KNN %d @%s $BLOB]", topK, vectorField)

	args := []string{
		collection, queryStr,
		"SORTBY", scoreField, "ASC",
		"LIMIT", "0", strconv.Itoa(topK),
		"PARAMS", "2", "BLOB", vectorToBytes(vector),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index name") {
			return nil, db.ErrCollectionNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNResult(collection, raw)
}

// parseKNNResult decodes the RESP2 FT.SEARCH reply:
// [total, key1, fields1, key2, fields2, ...].
func parseKNNResult(collection string, raw []rueidis.RedisMessage) ([]db.Point, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	points := make([]db.Point, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		point := db.Point{
			ID:      strings.TrimPrefix(key, pointKeyPrefix(collection)),
			Payload: parseFieldPairs(fields),
		}

		if scoreStr, ok := point.Payload[scoreField]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				// cosine distance -> cosine similarity
				point.Score = float32(1.0 - d)
			}
			delete(point.Payload, scoreField)
		}
		delete(point.Payload, vectorField)

		points = append(points, point)
	}

	return points, nil
}

// parseFieldPairs decodes an alternating [name, value, ...] array.
func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		name, err := fields[i].ToString()
		if err != nil {
			continue
		}
		value, err := fields[i+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
