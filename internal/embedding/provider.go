// Package embedding defines the vector provider boundary and the cache and
// batching wrappers layered around concrete providers.
package embedding

import (
	"context"
	"math"
)

// Provider maps texts to fixed-dimension dense vectors. Implementations must
// be deterministic for identical input text, and batch boundaries must not
// change the embedding of any individual text. Vectors are unit-normalized
// so inner product equals cosine similarity.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// NormalizeL2 scales vec in place to unit L2 norm. The zero vector is left
// untouched.
func NormalizeL2(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}
