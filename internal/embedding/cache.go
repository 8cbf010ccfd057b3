package embedding

import (
	"context"
	"sync"
)

type cachedProvider struct {
	inner Provider

	mu      sync.RWMutex
	vectors map[string][]float32
}

// Cached wraps a provider with a process-wide cache keyed by exact input
// text. The cache is an optimization only: misses are embedded in a single
// batch and results are returned in input order.
func Cached(inner Provider) Provider {
	return &cachedProvider{
		inner:   inner,
		vectors: make(map[string][]float32),
	}
}

func (c *cachedProvider) Dimension() int {
	return c.inner.Dimension()
}

func (c *cachedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int

	c.mu.RLock()
	for i, text := range texts {
		if vec, ok := c.vectors[text]; ok {
			out[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for j, vec := range vecs {
		c.vectors[missing[j]] = vec
		out[missingIdx[j]] = vec
	}
	c.mu.Unlock()

	return out, nil
}
