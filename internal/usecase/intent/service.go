// Package intent implements keyword-driven topic detection with priority
// tie-breaking.
package intent

import (
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sibyl/internal/domain"
)

// Domain is one topical category with its trigger keywords.
type Domain struct {
	Name     string
	Keywords []string
}

// Config holds the keyword catalogue and priority order. Domains is an
// ordered list: its order decides the fallback among multiple matches.
type Config struct {
	Domains  []Domain
	Priority []string
}

// Service classifies queries into topical domains. Classification is pure:
// the same input always yields the same label and confidence.
type Service struct {
	domains  []Domain
	priority []string
	logger   *zap.Logger
}

// New creates an intent classifier over the given catalogue.
func New(cfg Config, logger *zap.Logger) *Service {
	return &Service{
		domains:  cfg.Domains,
		priority: cfg.Priority,
		logger:   logger,
	}
}

// Classify assigns the most likely domain to the query. A domain matches
// when any of its keywords appears as a substring of the normalized text;
// the priority list breaks ties, then catalogue order; no match yields the
// fallback label with low confidence.
func (s *Service) Classify(text string) domain.Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return domain.NewIntent(domain.FallbackIntent)
	}

	matched := make(map[string]struct{})
	var first string
	for _, d := range s.domains {
		for _, kw := range d.Keywords {
			if strings.Contains(normalized, kw) {
				matched[d.Name] = struct{}{}
				if first == "" {
					first = d.Name
				}
				break // one keyword per domain suffices
			}
		}
	}

	if len(matched) == 0 {
		return domain.NewIntent(domain.FallbackIntent)
	}

	for _, p := range s.priority {
		if _, ok := matched[p]; ok {
			s.logger.Debug("intent detected", zap.String("label", p))
			return domain.NewIntent(p)
		}
	}

	s.logger.Debug("intent detected", zap.String("label", first))
	return domain.NewIntent(first)
}

// Domains lists the supported domain names in catalogue order, with the
// fallback label last.
func (s *Service) Domains() []string {
	names := make([]string, 0, len(s.domains)+1)
	for _, d := range s.domains {
		names = append(names, d.Name)
	}
	return append(names, domain.FallbackIntent)
}
