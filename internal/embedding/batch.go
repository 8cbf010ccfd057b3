package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultBatchSize = 64
	defaultParallel  = 4
)

type batchedProvider struct {
	inner     Provider
	batchSize int
	parallel  int
	limiter   *rate.Limiter
}

// Batched splits large inputs into batches of batchSize and embeds up to
// parallel batches concurrently, optionally gated by a rate limiter.
// Reassembly is positional, so batching never reorders results. A nil
// limiter disables rate limiting.
func Batched(inner Provider, batchSize, parallel int, limiter *rate.Limiter) Provider {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if parallel <= 0 {
		parallel = defaultParallel
	}
	return &batchedProvider{
		inner:     inner,
		batchSize: batchSize,
		parallel:  parallel,
		limiter:   limiter,
	}
}

func (b *batchedProvider) Dimension() int {
	return b.inner.Dimension()
}

func (b *batchedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallel)

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		g.Go(func() error {
			if b.limiter != nil {
				if err := b.limiter.Wait(ctx); err != nil {
					return err
				}
			}

			vecs, err := b.inner.Embed(ctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
			}
			if len(vecs) != end-start {
				return fmt.Errorf("embed batch [%d:%d]: got %d vectors", start, end, len(vecs))
			}

			copy(out[start:end], vecs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
