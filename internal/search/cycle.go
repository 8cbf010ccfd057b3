// Package search orchestrates one full search cycle: fetch postings from
// the aggregator, run the filtering chain, rank survivors against the
// resume and persist the fingerprints that were surfaced.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/getjobscout/jobscout/internal/filtering"
	"github.com/getjobscout/jobscout/internal/jobs"
	"github.com/getjobscout/jobscout/internal/rank"
	"github.com/getjobscout/jobscout/internal/seenstore"
	"github.com/getjobscout/jobscout/internal/source"
)

// Request describes one cycle.
type Request struct {
	Query      source.Query
	ResumeText string
	Level      filtering.Level
	MaxAgeDays int
	// IgnoreSeen disables cross-run dedup for this cycle. Surfaced
	// fingerprints are still persisted.
	IgnoreSeen bool
}

// Result is what a cycle produced. RankErr and PersistErr are degradations,
// not failures: Postings is always usable when the cycle returns nil error.
type Result struct {
	CycleID  string
	Postings *jobs.Postings
	Fetched  int
	Surfaced int

	RankErr    error
	PersistErr error
}

// Cycle runs searches. Safe for concurrent use: the seen-set
// read-union-write window is serialized.
type Cycle struct {
	Source source.Fetcher
	Ranker *rank.Ranker
	Store  seenstore.Store
	Logger *zap.Logger

	ExperienceKeywords map[filtering.Level][]string

	mu sync.Mutex
}

// Run executes one search cycle.
func (c *Cycle) Run(ctx context.Context, req Request) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	result := &Result{CycleID: uuid.NewString()}
	log = log.With(zap.String("cycle_id", result.CycleID))

	postings, err := c.Source.Fetch(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("fetching postings: %w", err)
	}
	result.Fetched = postings.Len()
	log.Info("fetched postings",
		zap.String("source", c.Source.Name()),
		zap.Int("count", result.Fetched),
	)

	seen, err := c.Store.Load(ctx)
	if err != nil {
		// Fail open: a broken store must not hide fresh postings.
		log.Warn("loading seen set failed, continuing with an empty set", zap.Error(err))
		seen = seenstore.NewSet()
	}

	seenFilter := filtering.NewSeen(seen, log)
	if req.IgnoreSeen {
		seenFilter.Disable("requested for this cycle")
	}

	filters := filtering.New([]filtering.Filter{
		filtering.NewExperience(req.Level, c.ExperienceKeywords, log),
		seenFilter,
		filtering.NewFreshness(req.MaxAgeDays, log),
	}, log)

	postings, err = filters.Run(ctx, postings)
	if err != nil {
		return nil, fmt.Errorf("filtering postings: %w", err)
	}
	result.Surfaced = postings.Len()

	if c.Ranker != nil && postings.Len() > 0 {
		ranked, err := c.Ranker.Rank(ctx, req.ResumeText, postings.Items)
		if err != nil {
			log.Warn("ranking failed, keeping unranked order", zap.Error(err))
			result.RankErr = err
		}
		postings.Items = ranked
	}
	result.Postings = postings

	// Surfaced postings count as seen even when ranking degraded: the user
	// gets to see them this cycle either way.
	seen.Union(seenstore.NewSet(postings.Fingerprints()...))
	if err := c.Store.Save(ctx, seen); err != nil {
		log.Warn("persisting seen set failed", zap.Error(err))
		result.PersistErr = err
	}

	log.Info("cycle finished",
		zap.Int("fetched", result.Fetched),
		zap.Int("surfaced", result.Surfaced),
	)

	return result, nil
}
