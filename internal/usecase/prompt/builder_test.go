package prompt

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sibyl/internal/metrics"
)

func testBuilder(maxContext, maxPrompt int) *Builder {
	return New(Config{
		Separator:          "\n---\n",
		MaxContextChars:    maxContext,
		MaxPromptChars:     maxPrompt,
		SystemInstructions: "You are a careful assistant.",
	}, zap.NewNop())
}

func TestBuild_Template(t *testing.T) {
	b := testBuilder(3000, 6000)

	prompt, used := b.Build("What is Go?", []string{"Go is a language.", "Go compiles fast."})
	if used != 2 {
		t.Fatalf("used: got %d, want 2", used)
	}

	for _, marker := range []string{"<<system>>", "<<context>>", "<<question>>", "<<answer>>"} {
		if !strings.Contains(prompt, marker) {
			t.Errorf("prompt missing %s section", marker)
		}
	}
	if !strings.Contains(prompt, "you are a careful assistant.") {
		t.Error("system instructions should be lowercased into the prompt")
	}
	if !strings.Contains(prompt, "what is go?") {
		t.Error("query should be lowercased into the prompt")
	}
	if !strings.Contains(prompt, "Go is a language.\n---\nGo compiles fast.") {
		t.Error("passages should be joined with the separator")
	}
	if !strings.Contains(prompt, "insufficient context") {
		t.Error("prompt should carry the insufficient-context directive")
	}
}

func TestBuild_NoPassages(t *testing.T) {
	b := testBuilder(3000, 6000)

	prompt, used := b.Build("anything", nil)
	if used != 0 {
		t.Fatalf("used: got %d, want 0", used)
	}
	if !strings.Contains(prompt, "<<context>>") {
		t.Error("context section stays present even when empty")
	}
	if !strings.Contains(prompt, "<<question>> anything") {
		t.Error("prompt should still carry the question")
	}
}

func TestBuild_Dedup(t *testing.T) {
	b := testBuilder(3000, 6000)

	// Whitespace variants of the same text collapse to one passage.
	_, used := b.Build("q", []string{"alpha  beta", "alpha beta", " alpha\tbeta ", "gamma"})
	if used != 2 {
		t.Fatalf("used: got %d, want 2", used)
	}
}

func TestBuild_DedupKeepsFirst(t *testing.T) {
	b := testBuilder(3000, 6000)

	prompt, _ := b.Build("q", []string{"first passage", "second passage", "first passage"})
	if strings.Count(prompt, "first passage") != 1 {
		t.Error("duplicate passage should appear once")
	}
	if strings.Index(prompt, "first passage") > strings.Index(prompt, "second passage") {
		t.Error("first occurrence order should be preserved")
	}
}

func TestBuild_DropsBlankPassages(t *testing.T) {
	b := testBuilder(3000, 6000)

	_, used := b.Build("q", []string{"", "   ", "\u200b\u200c", "real"})
	if used != 1 {
		t.Fatalf("used: got %d, want 1", used)
	}
}

func TestBuild_StripsZeroWidth(t *testing.T) {
	b := testBuilder(3000, 6000)

	prompt, used := b.Build("q", []string{"he\u200bllo\ufeff world"})
	if used != 1 {
		t.Fatalf("used: got %d, want 1", used)
	}
	if !strings.Contains(prompt, "hello world") {
		t.Errorf("zero-width characters should be removed, got %q", prompt)
	}
}

func TestBuild_SanitizesQuery(t *testing.T) {
	b := testBuilder(3000, 6000)

	prompt, _ := b.Build("what\u200b is\ngo?", nil)
	if !strings.Contains(prompt, "<<question>> what is go?\n") {
		t.Errorf("query should be sanitized before templating, got %q", prompt)
	}
	if strings.ContainsRune(prompt, '\u200b') {
		t.Error("zero-width characters must not survive in the query")
	}
}

func TestBuild_ContextTruncated(t *testing.T) {
	b := testBuilder(50, 6000)

	long := strings.Repeat("x", 200)
	prompt, used := b.Build("q", []string{long})
	if used != 1 {
		t.Fatalf("used: got %d, want 1", used)
	}
	if strings.Contains(prompt, long) {
		t.Error("context should have been truncated")
	}
	if !strings.Contains(prompt, "...") {
		t.Error("truncation should be marked with an ellipsis")
	}
}

func TestBuild_PromptBudgetCeiling(t *testing.T) {
	b := testBuilder(3000, 500)

	passages := []string{
		strings.Repeat("a", 1000),
		strings.Repeat("b", 1000),
	}
	prompt, _ := b.Build(strings.Repeat("why? ", 200), passages)
	if n := len([]rune(prompt)); n > 500 {
		t.Fatalf("prompt length %d exceeds the 500 char budget", n)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	b := testBuilder(3000, 6000)

	passages := []string{"one", "two"}
	first, usedFirst := b.Build("q", passages)
	second, usedSecond := b.Build("q", passages)
	if first != second || usedFirst != usedSecond {
		t.Error("building twice from the same inputs must agree")
	}
}

func TestBuild_NormalPathNotDegraded(t *testing.T) {
	b := testBuilder(3000, 6000)
	counter := metrics.StageDegradationsTotal.WithLabelValues("assembly")
	before := testutil.ToFloat64(counter)

	b.Build("q", []string{"one", "two"})

	if after := testutil.ToFloat64(counter); after != before {
		t.Errorf("assembly degradations: got %f, want unchanged %f", after, before)
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	// Multibyte text must not be cut mid-rune.
	got := truncate(strings.Repeat("é", 100), 10)
	if n := len([]rune(got)); n > 10 {
		t.Fatalf("rune length %d exceeds limit 10", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("got %q, want ellipsis suffix", got)
	}
}

func TestTruncate_NoopUnderLimit(t *testing.T) {
	if got := truncate("short", 100); got != "short" {
		t.Errorf("got %q, want unchanged", got)
	}
}
