package query

import (
	"context"

	"github.com/kailas-cloud/sibyl/internal/domain"
)

// Gatekeeper is the safety-policy contract consumed by the orchestrator.
type Gatekeeper interface {
	Evaluate(text string, userAge int) domain.Verdict
	ModerateTone(text string) string
}

// Classifier detects the topical domain of a query.
type Classifier interface {
	Classify(text string) domain.Intent
	Domains() []string
}

// Retriever finds relevant passages for a query. Advisory: failures yield an
// empty sequence, never an error.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) []domain.Passage
}

// PromptBuilder assembles the generation prompt from query and passages,
// reporting how many passages were used.
type PromptBuilder interface {
	Build(query string, passages []string) (string, int)
}
