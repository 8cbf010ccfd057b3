package filtering

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/getjobscout/jobscout/internal/jobs"
)

// DefaultMaxAgeDays is the freshness threshold when the config does not
// override it.
const DefaultMaxAgeDays = 3

var daysRe = regexp.MustCompile(`(\d+)\s*days?\b`)

// InferPostedDays extracts "days since posted" from free text. "today" and
// "just posted" mean 0; otherwise the first integer preceding "day"/"days"
// wins. The second return is false when the text carries no signal.
func InferPostedDays(text string) (int, bool) {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return 0, false
	}

	if strings.Contains(t, "today") || strings.Contains(t, "just posted") {
		return 0, true
	}

	if m := daysRe.FindStringSubmatch(t); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			return days, true
		}
	}

	return 0, false
}

type freshnessFilter struct {
	maxAgeDays int
	logger     *zap.Logger
}

// NewFreshness creates a filter that drops postings older than maxAgeDays.
// A posting without any recency signal passes: freshness cannot be
// disproved, so it gets the benefit of the doubt.
func NewFreshness(maxAgeDays int, log *zap.Logger) Filter {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultMaxAgeDays
	}
	return &freshnessFilter{maxAgeDays: maxAgeDays, logger: log}
}

func (f *freshnessFilter) Name() string { return "freshness" }

func (f *freshnessFilter) Disable(string) {}

func (f *freshnessFilter) IsEnabled() bool { return true }

func (f *freshnessFilter) Validate() error {
	if f.maxAgeDays < 1 {
		return fmt.Errorf("max age must be at least one day, got %d", f.maxAgeDays)
	}
	return nil
}

func (f *freshnessFilter) Apply(_ context.Context, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()

	dropped := p.Keep(func(posting *jobs.Posting) bool {
		days, ok := InferPostedDays(posting.PostedHint)
		if !ok {
			days, ok = InferPostedDays(posting.Description)
		}
		if !ok {
			return true
		}
		posting.PostedDays = &days
		return days <= f.maxAgeDays
	})

	if f.logger != nil && len(dropped) > 0 {
		f.logger.Debug("excluding stale postings",
			zap.Int("max_age_days", f.maxAgeDays),
			zap.Strings("excluded_urls", dropped),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(dropped), Left: p.Len()}, nil
}
