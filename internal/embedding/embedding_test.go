package embedding

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
)

// stubProvider embeds every text as [len(text), 1] and records calls.
type stubProvider struct {
	mu    sync.Mutex
	calls [][]string
}

func (s *stubProvider) Dimension() int { return 2 }

func (s *stubProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	s.calls = append(s.calls, append([]string(nil), texts...))
	s.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func TestNormalizeL2(t *testing.T) {
	vec := []float32{3, 4}
	NormalizeL2(vec)

	norm := math.Sqrt(float64(vec[0]*vec[0] + vec[1]*vec[1]))
	if math.Abs(norm-1) > 1e-6 {
		t.Fatalf("expected unit norm, got %v", norm)
	}
}

func TestNormalizeL2ZeroVector(t *testing.T) {
	vec := []float32{0, 0, 0}
	NormalizeL2(vec)
	for _, v := range vec {
		if v != 0 {
			t.Fatalf("zero vector must stay zero, got %v", vec)
		}
	}
}

func TestCachedProviderAvoidsRecomputation(t *testing.T) {
	stub := &stubProvider{}
	cached := Cached(stub)

	first, err := cached.Embed(context.Background(), []string{"go", "python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := cached.Embed(context.Background(), []string{"python", "go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.calls) != 1 {
		t.Fatalf("expected a single upstream call, got %d", len(stub.calls))
	}
	if second[0][0] != first[1][0] || second[1][0] != first[0][0] {
		t.Fatalf("cache returned vectors out of order")
	}
}

func TestCachedProviderPartialHit(t *testing.T) {
	stub := &stubProvider{}
	cached := Cached(stub)

	if _, err := cached.Embed(context.Background(), []string{"go"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := cached.Embed(context.Background(), []string{"rust", "go", "zig"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.calls) != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", len(stub.calls))
	}
	if got := stub.calls[1]; len(got) != 2 || got[0] != "rust" || got[1] != "zig" {
		t.Fatalf("expected only misses upstream, got %v", got)
	}
	if out[0][0] != 4 || out[1][0] != 2 || out[2][0] != 3 {
		t.Fatalf("results out of order: %v", out)
	}
}

func TestBatchedProviderPreservesOrder(t *testing.T) {
	stub := &stubProvider{}
	batched := Batched(stub, 3, 2, nil)

	texts := make([]string, 10)
	for i := range texts {
		// Distinct lengths so positions are distinguishable in the output.
		texts[i] = fmt.Sprintf("%0*d", i+1, 0)
	}

	out, err := batched.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(out))
	}
	for i, vec := range out {
		if int(vec[0]) != i+1 {
			t.Fatalf("vector %d out of place: %v", i, vec)
		}
	}
}

func TestBatchedProviderEmptyInput(t *testing.T) {
	stub := &stubProvider{}
	batched := Batched(stub, 3, 2, nil)

	out, err := batched.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil output, got %v", out)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected no upstream calls, got %d", len(stub.calls))
	}
}
