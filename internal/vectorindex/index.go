// Package vectorindex provides exact inner-product nearest-neighbor search
// over an in-memory set of vectors. At the scale of one search cycle
// (hundreds to low thousands of chunks) a flat scan beats any approximate
// structure.
package vectorindex

import (
	"errors"
	"fmt"
	"sort"
)

// Hit is one search result: the inner-product score and the position of the
// matched vector in the order it was indexed.
type Hit struct {
	Score    float32
	Position int
}

// Index holds a fixed set of vectors built once per query.
type Index struct {
	vectors [][]float32
	dim     int
}

// Build constructs an index over the provided vectors. Building over zero
// vectors is invalid; callers must special-case empty chunk sets.
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, errors.New("vector index requires at least one vector")
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("vector index requires non-empty vectors")
	}
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(vec), dim)
		}
	}

	return &Index{vectors: vectors, dim: dim}, nil
}

func (ix *Index) Len() int {
	return len(ix.vectors)
}

func (ix *Index) Dimension() int {
	return ix.dim
}

// Search returns up to k hits sorted by descending inner product. Since all
// indexed vectors are unit-normalized, the score is cosine similarity. k is
// clamped to the number of indexed vectors; ties keep index order. A query
// of the wrong dimension yields no hits.
func (ix *Index) Search(query []float32, k int) []Hit {
	if len(query) != ix.dim || k <= 0 {
		return nil
	}

	hits := make([]Hit, len(ix.vectors))
	for i, vec := range ix.vectors {
		var dot float32
		for j, v := range vec {
			dot += v * query[j]
		}
		hits[i] = Hit{Score: dot, Position: i}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}
