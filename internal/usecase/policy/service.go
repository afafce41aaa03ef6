// Package policy implements the safety gate: age restriction, restricted-term
// scanning, sensitive-topic flagging, and output tone moderation.
package policy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sibyl/internal/domain"
)

// Messages returned inside verdicts.
const (
	msgEmptyInput    = "empty input."
	msgRestricted    = "query violates safety policies."
	msgSensitive     = "query touches sensitive or complex topics."
	msgCompliant     = "content complies with all policies."
	msgInternalError = "internal policy validation error occurred."
)

// Config holds the policy tables.
type Config struct {
	MinAge            int
	RestrictedTerms   []string
	SensitiveTopics   []string
	ToneSubstitutions map[string]string
}

// restrictedTerm pairs a term with its whole-word matcher.
type restrictedTerm struct {
	term    string
	pattern *regexp.Regexp
}

// toneRule rewrites one aggressive word to a neutral one.
type toneRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Service evaluates queries against the safety policy. It is stateless per
// query: verdicts are produced fresh and never cached.
type Service struct {
	minAge     int
	restricted []restrictedTerm
	redactAll  *regexp.Regexp
	sensitive  []string
	tone       []toneRule
	logger     *zap.Logger
}

// New compiles the policy tables into a service. Restricted terms are
// matched whole-word and case-insensitive; sensitive topics as plain
// substrings (advisory only).
func New(cfg Config, logger *zap.Logger) (*Service, error) {
	s := &Service{
		minAge: cfg.MinAge,
		logger: logger,
	}

	seen := make(map[string]struct{}, len(cfg.RestrictedTerms))
	quoted := make([]string, 0, len(cfg.RestrictedTerms))
	for _, raw := range cfg.RestrictedTerms {
		term := strings.ToLower(strings.TrimSpace(raw))
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}

		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compile restricted term %q: %w", term, err)
		}
		s.restricted = append(s.restricted, restrictedTerm{term: term, pattern: pattern})
		quoted = append(quoted, regexp.QuoteMeta(term))
	}

	if len(quoted) > 0 {
		redact, err := regexp.Compile(`(?i)(` + strings.Join(quoted, "|") + `)`)
		if err != nil {
			return nil, fmt.Errorf("compile redaction pattern: %w", err)
		}
		s.redactAll = redact
	}

	for _, raw := range cfg.SensitiveTopics {
		topic := strings.ToLower(strings.TrimSpace(raw))
		if topic != "" {
			s.sensitive = append(s.sensitive, topic)
		}
	}

	// Sorted for deterministic substitution order.
	words := make([]string, 0, len(cfg.ToneSubstitutions))
	for w := range cfg.ToneSubstitutions {
		words = append(words, w)
	}
	sort.Strings(words)
	for _, w := range words {
		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compile tone word %q: %w", w, err)
		}
		s.tone = append(s.tone, toneRule{pattern: pattern, replacement: cfg.ToneSubstitutions[w]})
	}

	return s, nil
}

// Evaluate runs the moderation gateway: empty check, age gate, restricted
// scan, sensitive scan. A panic anywhere degrades to a denial, never to an
// allow (fail closed).
func (s *Service) Evaluate(text string, userAge int) (verdict domain.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("policy evaluation panicked", zap.Any("panic", r))
			verdict = domain.Verdict{
				Outcome:  domain.OutcomeDenied,
				Severity: domain.SeverityHigh,
				Message:  msgInternalError,
			}
		}
	}()

	clean := strings.ToLower(strings.TrimSpace(text))
	if clean == "" {
		return domain.Verdict{
			Outcome:  domain.OutcomeDenied,
			Severity: domain.SeverityNone,
			Message:  msgEmptyInput,
		}
	}

	if userAge < s.minAge {
		return domain.Verdict{
			Outcome:  domain.OutcomeDenied,
			Severity: domain.SeverityHigh,
			Message:  fmt.Sprintf("access denied: minimum age requirement (%d+) not met.", s.minAge),
		}
	}

	if terms := s.scanRestricted(clean); len(terms) > 0 {
		s.logger.Warn("restricted content detected", zap.Strings("terms", terms))
		return domain.Verdict{
			Outcome:         domain.OutcomeDenied,
			Severity:        domain.SeverityHigh,
			Message:         msgRestricted,
			RestrictedTerms: terms,
		}
	}

	if topics := s.scanSensitive(clean); len(topics) > 0 {
		s.logger.Info("sensitive topic flagged", zap.Strings("topics", topics))
		return domain.Verdict{
			Outcome:         domain.OutcomeWarned,
			Severity:        domain.SeverityMedium,
			Message:         msgSensitive,
			SensitiveTopics: topics,
		}
	}

	return domain.Verdict{
		Outcome:  domain.OutcomeAllowed,
		Severity: domain.SeverityNone,
		Message:  msgCompliant,
	}
}

// scanRestricted returns restricted terms appearing as whole words.
func (s *Service) scanRestricted(text string) []string {
	var matched []string
	for _, rt := range s.restricted {
		if rt.pattern.MatchString(text) {
			matched = append(matched, rt.term)
		}
	}
	return matched
}

// scanSensitive returns sensitive topics appearing as substrings.
func (s *Service) scanSensitive(text string) []string {
	var matched []string
	for _, topic := range s.sensitive {
		if strings.Contains(text, topic) {
			matched = append(matched, topic)
		}
	}
	return matched
}

// ModerateTone applies the word-for-word softening table. Used on generated
// output, independently of the verdict.
func (s *Service) ModerateTone(text string) string {
	out := text
	for _, rule := range s.tone {
		out = rule.pattern.ReplaceAllString(out, rule.replacement)
	}
	return strings.TrimSpace(out)
}

// Sanitize replaces every restricted term occurrence with a redaction
// marker. Used when partial output must still be surfaced.
func (s *Service) Sanitize(text string) string {
	if text == "" || s.redactAll == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(s.redactAll.ReplaceAllString(text, "[redacted]"))
}

// MinAge reports the configured minimum age threshold.
func (s *Service) MinAge() int {
	return s.minAge
}
