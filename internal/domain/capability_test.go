package domain

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	vec := Normalize([]float32{3, 4})

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("L2 norm squared: got %v, want 1.0", sum)
	}
	if math.Abs(float64(vec[0])-0.6) > 1e-6 || math.Abs(float64(vec[1])-0.8) > 1e-6 {
		t.Errorf("got %v, want [0.6 0.8]", vec)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	vec := Normalize([]float32{0, 0, 0})
	for i, v := range vec {
		if v != 0 {
			t.Errorf("index %d: got %v, want 0", i, v)
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(float64(got)-1.0) > 1e-6 {
		t.Errorf("identical vectors: got %v, want 1.0", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(float64(got)) > 1e-6 {
		t.Errorf("orthogonal vectors: got %v, want 0", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{-1, 0}); math.Abs(float64(got)+1.0) > 1e-6 {
		t.Errorf("opposite vectors: got %v, want -1.0", got)
	}
}

func TestCosineSimilarity_Mismatched(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 2}, []float32{1}); got != 0 {
		t.Errorf("mismatched lengths: got %v, want 0", got)
	}
	if got := CosineSimilarity(nil, nil); got != 0 {
		t.Errorf("empty vectors: got %v, want 0", got)
	}
}

type fnEmbedder func(ctx context.Context, text string) ([]float32, error)

func (f fnEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

func TestBatchEmbedFallback(t *testing.T) {
	var calls int
	e := fnEmbedder(func(_ context.Context, text string) ([]float32, error) {
		calls++
		return []float32{float32(len(text))}, nil
	})

	vectors, err := BatchEmbedFallback(context.Background(), e, []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
	if len(vectors) != 3 || vectors[2][0] != 3 {
		t.Errorf("vectors: got %v", vectors)
	}
}

func TestBatchEmbedFallback_Error(t *testing.T) {
	wantErr := errors.New("provider down")
	e := fnEmbedder(func(_ context.Context, _ string) ([]float32, error) {
		return nil, wantErr
	})

	if _, err := BatchEmbedFallback(context.Background(), e, []string{"a"}); !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want wrapped provider error", err)
	}
}

func TestNewIntent(t *testing.T) {
	if i := NewIntent("code"); i.Confidence != ConfidenceHigh {
		t.Errorf("known label: got %s, want high", i.Confidence)
	}
	if i := NewIntent(FallbackIntent); i.Confidence != ConfidenceLow {
		t.Errorf("fallback label: got %s, want low", i.Confidence)
	}
}

func TestVerdictDenied(t *testing.T) {
	cases := []struct {
		outcome Outcome
		want    bool
	}{
		{OutcomeAllowed, false},
		{OutcomeWarned, false},
		{OutcomeDenied, true},
	}
	for _, tc := range cases {
		v := Verdict{Outcome: tc.outcome}
		if v.Denied() != tc.want {
			t.Errorf("outcome %s: Denied()=%v, want %v", tc.outcome, v.Denied(), tc.want)
		}
	}
}
