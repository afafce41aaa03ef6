// Package query orchestrates the full answering pipeline: policy gate,
// intent classification, retrieval, prompt assembly, and generation.
package query

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sibyl/internal/domain"
	"github.com/kailas-cloud/sibyl/internal/metrics"
)

// User-safe degraded replies. Generation failures never surface raw provider
// errors to the caller.
const (
	degradedReply   = "i'm having trouble answering right now. please try again shortly."
	overloadedReply = "the service is experiencing high demand. please try again in a moment."
)

const defaultFillerReply = "let me reflect on that more deeply..."

// Service is the query orchestrator. A verdict denial short-circuits the
// pipeline before any capability call; every later stage degrades gracefully
// instead of failing the request.
type Service struct {
	gate      Gatekeeper
	classify  Classifier
	retriever Retriever
	builder   PromptBuilder
	generator domain.Generator

	topK      int
	maxTokens int
	filler    string
	logger    *zap.Logger
}

// New creates the orchestrator with its collaborators.
func New(gate Gatekeeper, classifier Classifier, retriever Retriever, builder PromptBuilder, generator domain.Generator, logger *zap.Logger) *Service {
	return &Service{
		gate:      gate,
		classify:  classifier,
		retriever: retriever,
		builder:   builder,
		generator: generator,
		topK:      3,
		maxTokens: 150,
		filler:    defaultFillerReply,
		logger:    logger,
	}
}

// WithTopK overrides how many passages contextual answering retrieves.
func (s *Service) WithTopK(topK int) *Service {
	if topK > 0 {
		s.topK = topK
	}
	return s
}

// WithMaxTokens overrides the generation token cap.
func (s *Service) WithMaxTokens(maxTokens int) *Service {
	if maxTokens > 0 {
		s.maxTokens = maxTokens
	}
	return s
}

// WithFillerReply overrides the stand-in reply for blank generator output.
func (s *Service) WithFillerReply(filler string) *Service {
	if filler != "" {
		s.filler = filler
	}
	return s
}

// Answer handles a query without retrieval: gate, classify, generate from the
// raw query. context_used is always false on this path.
func (s *Service) Answer(ctx context.Context, query string, userAge int) domain.Result {
	return s.answer(ctx, query, userAge, false)
}

// AnswerWithContext handles a query with retrieval: gate, classify, search,
// assemble, generate. Retrieval failures degrade to the direct path.
func (s *Service) AnswerWithContext(ctx context.Context, query string, userAge int) domain.Result {
	return s.answer(ctx, query, userAge, true)
}

func (s *Service) answer(ctx context.Context, query string, userAge int, contextual bool) domain.Result {
	mode := "direct"
	if contextual {
		mode = "contextual"
	}

	if strings.TrimSpace(query) == "" {
		metrics.QueriesTotal.WithLabelValues(mode, string(domain.StatusInvalid)).Inc()
		return domain.Result{
			Status:   domain.StatusInvalid,
			Query:    query,
			Response: "empty input.",
		}
	}

	verdict := s.gate.Evaluate(query, userAge)
	metrics.PolicyVerdictsTotal.WithLabelValues(string(verdict.Outcome)).Inc()
	if verdict.Denied() {
		s.logger.Info("query denied",
			zap.String("severity", string(verdict.Severity)),
			zap.Int("user_age", userAge),
		)
		metrics.QueriesTotal.WithLabelValues(mode, string(domain.StatusDenied)).Inc()
		return domain.Result{
			Status:   domain.StatusDenied,
			Query:    query,
			Response: verdict.Message,
		}
	}

	intent := s.classify.Classify(query)
	metrics.IntentsTotal.WithLabelValues(intent.Label).Inc()

	prompt := query
	contextUsed := false
	if contextual {
		passages := s.retriever.Search(ctx, query, s.topK)
		texts := make([]string, 0, len(passages))
		for _, p := range passages {
			texts = append(texts, p.Text)
		}
		var used int
		prompt, used = s.builder.Build(query, texts)
		contextUsed = used > 0
	}

	response := s.generate(ctx, prompt)

	metrics.QueriesTotal.WithLabelValues(mode, string(domain.StatusOK)).Inc()
	s.logger.Info("query answered",
		zap.String("mode", mode),
		zap.String("intent", intent.Label),
		zap.Bool("context_used", contextUsed),
	)

	return domain.Result{
		Status:      domain.StatusOK,
		Query:       query,
		Intent:      intent,
		Response:    response,
		ContextUsed: contextUsed,
	}
}

// generate calls the generation capability and degrades any failure to a
// fixed user-safe reply. Blank output gets the filler reply. All output runs
// through tone moderation.
func (s *Service) generate(ctx context.Context, prompt string) string {
	out, err := s.generator.Generate(ctx, prompt, s.maxTokens)
	if err != nil {
		s.logger.Warn("generation degraded", zap.Error(err))
		metrics.StageDegradationsTotal.WithLabelValues("generation").Inc()
		if errors.Is(err, domain.ErrResourceExhausted) {
			return overloadedReply
		}
		return degradedReply
	}
	if strings.TrimSpace(out) == "" {
		return s.filler
	}
	return s.gate.ModerateTone(out)
}

// Classify exposes intent detection standalone, without the rest of the
// pipeline. No policy gate applies: classification is read-only.
func (s *Service) Classify(query string) domain.Intent {
	intent := s.classify.Classify(query)
	metrics.IntentsTotal.WithLabelValues(intent.Label).Inc()
	return intent
}

// Domains lists the labels the classifier can produce.
func (s *Service) Domains() []string {
	return s.classify.Domains()
}
