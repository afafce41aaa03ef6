package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/sibyl/internal/db"
)

// UpsertPoint stores a point hash under <collection>:<id>. The key is
// deleted first so a re-used identifier fully overwrites the prior entry
// instead of merging stale payload fields.
func (s *Store) UpsertPoint(
	ctx context.Context, collection, id string, vector []float32, payload map[string]string,
) error {
	if id == "" {
		return &db.Error{Op: db.OpUpsert, Err: errors.New("point id is required")}
	}
	if len(vector) == 0 {
		return &db.Error{Op: db.OpUpsert, Err: errors.New("vector is required")}
	}

	key := pointKey(collection, id)

	hset := s.b().Hset().Key(key).FieldValue().FieldValue(vectorField, vectorToBytes(vector))
	for k, v := range payload {
		if k == vectorField {
			continue // reserved field
		}
		hset = hset.FieldValue(k, v)
	}

	cmds := []rueidis.Completed{
		s.b().Del().Key(key).Build(),
		hset.Build(),
	}

	for _, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("key %s: %w", key, err)}
		}
	}
	return nil
}

// vectorToBytes encodes float32s as little-endian bytes for the FT BLOB param.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return rueidis.BinaryString(buf)
}
