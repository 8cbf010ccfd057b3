package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/getjobscout/jobscout/internal/jobs"
	"github.com/getjobscout/jobscout/internal/seenstore"
)

type seenFilter struct {
	seen     seenstore.Set
	disabled bool
	reason   string
	logger   *zap.Logger
}

// NewSeen creates a filter that drops postings whose fingerprint is already
// in the provided set, and collapses duplicate fingerprints within the
// current batch to their first occurrence. The caller owns loading and
// persisting the set.
func NewSeen(seen seenstore.Set, log *zap.Logger) Filter {
	return &seenFilter{seen: seen, logger: log}
}

func (f *seenFilter) Name() string { return "seen" }

func (f *seenFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *seenFilter) IsEnabled() bool { return !f.disabled }

func (f *seenFilter) Validate() error { return nil }

func (f *seenFilter) Apply(_ context.Context, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()

	inBatch := make(map[string]bool, p.Len())
	dropped := p.Keep(func(posting *jobs.Posting) bool {
		if posting.Fingerprint == "" {
			posting.Fingerprint = posting.ComputeFingerprint()
		}
		if f.seen.Has(posting.Fingerprint) || inBatch[posting.Fingerprint] {
			return false
		}
		inBatch[posting.Fingerprint] = true
		return true
	})

	if f.logger != nil && len(dropped) > 0 {
		f.logger.Debug("excluding previously seen postings",
			zap.Int("seen_set_size", f.seen.Len()),
			zap.Strings("excluded_urls", dropped),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(dropped), Left: p.Len()}, nil
}
