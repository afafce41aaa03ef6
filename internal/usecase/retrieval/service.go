// Package retrieval implements the embedding-backed nearest-neighbor index:
// collection bootstrap, upsert, semantic search, and destructive clear.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/sibyl/internal/db"
	"github.com/kailas-cloud/sibyl/internal/domain"
	"github.com/kailas-cloud/sibyl/internal/metrics"
)

// textField is the payload field always carrying the original text.
const textField = "text"

// Service is the retrieval index over a shared vector store and embedding
// capability. Both handles are safe for concurrent use; collection bootstrap
// is guarded so concurrent first-use creates the collection at most once.
type Service struct {
	store      Store
	embedder   domain.Embedder
	collection string
	dimensions int
	topK       int
	logger     *zap.Logger

	bootstrap singleflight.Group
	ready     atomic.Bool
}

// New creates a retrieval service. The collection is bootstrapped lazily on
// first use, not at construction.
func New(store Store, embedder domain.Embedder, collection string, dimensions int, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		embedder:   embedder,
		collection: collection,
		dimensions: dimensions,
		topK:       3,
		logger:     logger,
	}
}

// WithTopK overrides the default search result count.
func (s *Service) WithTopK(topK int) *Service {
	if topK > 0 {
		s.topK = topK
	}
	return s
}

// ensureCollection verifies the collection exists, creating it if absent.
// Single-flighted: concurrent first calls collapse into one bootstrap. The
// existence check runs fresh immediately before creation, and a concurrent
// "already exists" from the backend counts as success.
func (s *Service) ensureCollection(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}

	_, err, _ := s.bootstrap.Do("bootstrap", func() (any, error) {
		exists, err := s.store.CollectionExists(ctx, s.collection)
		if err != nil {
			return nil, fmt.Errorf("check collection: %w", err)
		}
		if !exists {
			def := &db.CollectionDefinition{
				Name:       s.collection,
				Dimensions: s.dimensions,
				Distance:   db.DistanceCosine,
			}
			if err := s.store.CreateCollection(ctx, def); err != nil && !errors.Is(err, db.ErrCollectionExists) {
				return nil, fmt.Errorf("create collection: %w", err)
			}
			s.logger.Info("collection created",
				zap.String("collection", s.collection),
				zap.Int("dimensions", s.dimensions),
			)
		}
		s.ready.Store(true)
		return nil, nil
	})
	return err
}

// Embed vectorizes text. Returns nil (not an error) when the input is empty
// or the embedding capability is unavailable; callers treat nil as "no
// vector", never as a fatal fault.
func (s *Service) Embed(ctx context.Context, text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("embedding unavailable", zap.Error(err))
		return nil
	}
	return vec
}

// Upsert embeds text and stores it with its metadata under the given id.
// Re-using an id overwrites the prior entry.
func (s *Service) Upsert(ctx context.Context, id, text string, metadata map[string]string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyInput
	}
	if err := s.ensureCollection(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	vec := s.Embed(ctx, text)
	if vec == nil {
		return fmt.Errorf("vectorize document %s: %w", id, domain.ErrEmbeddingProviderError)
	}

	payload := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		payload[k] = v
	}
	payload[textField] = text

	if err := s.store.UpsertPoint(ctx, s.collection, id, vec, payload); err != nil {
		return fmt.Errorf("upsert point %s: %w", id, err)
	}

	s.logger.Info("document stored", zap.String("id", id))
	return nil
}

// Search embeds the query and returns up to topK passages ordered by
// descending similarity. Retrieval is advisory: any failure (embedding,
// backend, missing collection) yields an empty sequence, never an error.
func (s *Service) Search(ctx context.Context, query string, topK int) []domain.Passage {
	if topK <= 0 {
		topK = s.topK
	}

	if err := s.ensureCollection(ctx); err != nil {
		s.logger.Warn("retrieval backend unavailable", zap.Error(err))
		metrics.StageDegradationsTotal.WithLabelValues("retrieval").Inc()
		return nil
	}

	vec := s.Embed(ctx, query)
	if vec == nil {
		metrics.StageDegradationsTotal.WithLabelValues("retrieval").Inc()
		return nil
	}

	points, err := s.store.SearchKNN(ctx, s.collection, vec, topK)
	if err != nil {
		s.logger.Warn("vector search failed", zap.Error(err))
		metrics.StageDegradationsTotal.WithLabelValues("retrieval").Inc()
		return nil
	}

	passages := make([]domain.Passage, 0, len(points))
	for _, p := range points {
		text, ok := p.Payload[textField]
		if !ok || text == "" {
			continue
		}
		passages = append(passages, domain.Passage{
			Text:   text,
			Score:  p.Score,
			Source: p.ID,
		})
	}

	s.logger.Debug("passages retrieved", zap.Int("count", len(passages)))
	return passages
}

// Clear drops the whole collection and its points. Administrative operation,
// never called from the query path. The next index use re-bootstraps.
func (s *Service) Clear(ctx context.Context) error {
	err := s.store.DropCollection(ctx, s.collection)
	if err != nil && !errors.Is(err, db.ErrCollectionNotFound) {
		return fmt.Errorf("drop collection: %w", err)
	}
	s.ready.Store(false)
	s.logger.Warn("collection cleared", zap.String("collection", s.collection))
	return nil
}
