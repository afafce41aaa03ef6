// Package prompt assembles retrieved passages and the user query into a
// bounded generation prompt.
package prompt

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sibyl/internal/metrics"
)

const answerDirective = "respond precisely using only the context above. if the context is missing or insufficient, say 'insufficient context'."

// Config holds the assembly settings. MaxContextChars bounds the joined
// passage block; MaxPromptChars bounds the final prompt and must be larger.
type Config struct {
	Separator          string
	MaxContextChars    int
	MaxPromptChars     int
	SystemInstructions string
}

// Builder turns passages and a query into a generation prompt. Stateless and
// safe for concurrent use.
type Builder struct {
	separator       string
	maxContextChars int
	maxPromptChars  int
	system          string
	logger          *zap.Logger
}

// New creates a prompt builder.
func New(cfg Config, logger *zap.Logger) *Builder {
	return &Builder{
		separator:       cfg.Separator,
		maxContextChars: cfg.MaxContextChars,
		maxPromptChars:  cfg.MaxPromptChars,
		system:          strings.ToLower(strings.TrimSpace(cfg.SystemInstructions)),
		logger:          logger,
	}
}

// Build assembles the final prompt from the query and its passages, and
// reports how many passages survived sanitization and deduplication. The
// query is sanitized the same way the passages are before templating. Any
// panic during assembly degrades to a minimal instructions-plus-query prompt
// rather than failing the pipeline.
func (b *Builder) Build(query string, passages []string) (prompt string, used int) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("prompt assembly panicked", zap.Any("panic", r))
			metrics.StageDegradationsTotal.WithLabelValues("assembly").Inc()
			prompt = fmt.Sprintf("<<system>> %s\n<<question>> %s\n<<answer>>",
				b.system, strings.ToLower(sanitize(query)))
			used = 0
		}
	}()

	cleaned := make([]string, 0, len(passages))
	seen := make(map[string]struct{}, len(passages))
	for _, p := range passages {
		c := sanitize(p)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		cleaned = append(cleaned, c)
	}

	context := truncate(strings.Join(cleaned, b.separator), b.maxContextChars)

	contextBlock := ""
	if context != "" {
		contextBlock = context + "\n"
	}
	prompt = fmt.Sprintf("<<system>> %s\n<<context>>\n%s<<question>> %s\n<<answer>> %s",
		b.system,
		contextBlock,
		strings.ToLower(sanitize(query)),
		answerDirective,
	)

	return truncate(prompt, b.maxPromptChars), len(cleaned)
}

// zero-width characters stripped before whitespace normalization.
var zeroWidth = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

// sanitize removes zero-width characters and collapses all runs of
// whitespace to single spaces.
func sanitize(text string) string {
	return strings.Join(strings.Fields(zeroWidth.Replace(text)), " ")
}

// truncate caps text at limit runes, marking the cut with an ellipsis.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	if limit <= 3 {
		return strings.Repeat(".", limit)
	}
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}
