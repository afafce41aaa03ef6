package openai

import (
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/sibyl/internal/domain"
)

func TestParseAPIError_RateLimit(t *testing.T) {
	err := parseAPIError(&openai.APIError{
		HTTPStatusCode: 429,
		Message:        "rate limit exceeded",
	}, domain.ErrEmbeddingProviderError)

	if !errors.Is(err, domain.ErrResourceExhausted) {
		t.Fatalf("429 should map to ErrResourceExhausted, got %v", err)
	}
}

func TestParseAPIError_InsufficientQuota(t *testing.T) {
	err := parseAPIError(&openai.APIError{
		HTTPStatusCode: 403,
		Type:           "insufficient_quota",
		Message:        "quota exhausted",
	}, domain.ErrGenerationProviderError)

	if !errors.Is(err, domain.ErrResourceExhausted) {
		t.Fatalf("insufficient_quota should map to ErrResourceExhausted, got %v", err)
	}
}

func TestParseAPIError_ServerError(t *testing.T) {
	err := parseAPIError(&openai.APIError{
		HTTPStatusCode: 500,
		Message:        "internal error",
	}, domain.ErrGenerationProviderError)

	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Fatalf("500 should keep the wrap sentinel, got %v", err)
	}
	if errors.Is(err, domain.ErrResourceExhausted) {
		t.Error("500 must not map to ErrResourceExhausted")
	}
}

func TestParseAPIError_RequestErrorDetail(t *testing.T) {
	err := parseAPIError(&openai.RequestError{
		HTTPStatusCode: 502,
		Body:           []byte(`{"detail": "upstream timeout"}`),
	}, domain.ErrEmbeddingProviderError)

	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("got %v, want ErrEmbeddingProviderError", err)
	}
	if got := err.Error(); !strings.Contains(got, "upstream timeout") {
		t.Errorf("error should carry the detail field, got %q", got)
	}
}

func TestParseAPIError_Opaque(t *testing.T) {
	err := parseAPIError(errors.New("dial tcp: connection refused"), domain.ErrEmbeddingProviderError)

	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("got %v, want ErrEmbeddingProviderError", err)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail": "bad input"}`)); got != "bad input" {
		t.Errorf("got %q, want %q", got, "bad input")
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
