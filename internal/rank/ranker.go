// Package rank scores postings against a resume by embedding retrieval: the
// resume is the query, posting chunks are the corpus, and a posting's score
// is its single best-matching chunk.
package rank

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/getjobscout/jobscout/internal/embedding"
	"github.com/getjobscout/jobscout/internal/jobs"
	"github.com/getjobscout/jobscout/internal/textproc"
	"github.com/getjobscout/jobscout/internal/vectorindex"
)

// Options tunes the retrieval step. The weights are heuristics, not
// contracts: title terms are a stronger relevance signal than body terms, so
// title chunks get a boost.
type Options struct {
	ChunkWindow int
	TopK        int
	TitleWeight float64
	BodyWeight  float64
}

func DefaultOptions() Options {
	return Options{
		ChunkWindow: textproc.DefaultChunkWindow,
		TopK:        20,
		TitleWeight: 1.5,
		BodyWeight:  1.0,
	}
}

type Ranker struct {
	provider embedding.Provider
	logger   *zap.Logger
	opts     Options
}

func New(provider embedding.Provider, log *zap.Logger, opts Options) *Ranker {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.ChunkWindow < 1 {
		opts.ChunkWindow = textproc.DefaultChunkWindow
	}
	if opts.TopK < 1 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.TitleWeight <= 0 {
		opts.TitleWeight = DefaultOptions().TitleWeight
	}
	if opts.BodyWeight <= 0 {
		opts.BodyWeight = DefaultOptions().BodyWeight
	}

	return &Ranker{provider: provider, logger: log, opts: opts}
}

// chunkRef resolves an indexed chunk back to its owning posting.
type chunkRef struct {
	posting int
	weight  float64
}

// Rank populates MatchScore on every posting and sorts descending by score,
// ties broken by input order. Degenerate inputs (no resume, no postings, no
// chunks) are not errors: scores are zeroed and the input order is kept.
// When embedding or index construction fails, the same zero-scored postings
// are returned together with the error so filtering results survive a
// ranking outage.
func (r *Ranker) Rank(ctx context.Context, resumeText string, postings []*jobs.Posting) ([]*jobs.Posting, error) {
	for _, p := range postings {
		p.MatchScore = 0
		p.MatchReason = ""
	}

	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" || len(postings) == 0 {
		return postings, nil
	}

	var chunks []string
	var refs []chunkRef

	for i, p := range postings {
		if p.CleanDescription == "" {
			p.CleanDescription = textproc.Normalize(p.Description)
		}
		for _, chunk := range textproc.Chunk(p.CleanDescription, r.opts.ChunkWindow) {
			chunks = append(chunks, chunk)
			refs = append(refs, chunkRef{posting: i, weight: r.opts.BodyWeight})
		}
		if title := textproc.Normalize(p.Title); title != "" {
			chunks = append(chunks, title)
			refs = append(refs, chunkRef{posting: i, weight: r.opts.TitleWeight})
		}
	}

	if len(chunks) == 0 {
		return postings, nil
	}

	r.logger.Debug("ranking postings",
		zap.Int("postings", len(postings)),
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_window", r.opts.ChunkWindow),
	)

	vectors, err := r.provider.Embed(ctx, chunks)
	if err != nil {
		return postings, fmt.Errorf("embed posting chunks: %w", err)
	}

	index, err := vectorindex.Build(vectors)
	if err != nil {
		return postings, fmt.Errorf("build vector index: %w", err)
	}

	queryVecs, err := r.provider.Embed(ctx, []string{resumeText})
	if err != nil {
		return postings, fmt.Errorf("embed resume: %w", err)
	}
	if len(queryVecs) != 1 {
		return postings, fmt.Errorf("embed resume: got %d vectors", len(queryVecs))
	}

	k := r.opts.TopK
	if k > len(chunks) {
		k = len(chunks)
	}

	best := make(map[int]float64)
	for _, hit := range index.Search(queryVecs[0], k) {
		ref := refs[hit.Position]
		score := float64(hit.Score) * ref.weight
		if score > best[ref.posting] {
			best[ref.posting] = score
		}
	}

	resumeTokens := reasonTokens(resumeText)
	for i, p := range postings {
		score := best[i] * 100
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		p.MatchScore = math.Round(score*100) / 100
		p.MatchReason = matchReason(resumeTokens, p.CleanDescription)
	}

	sort.SliceStable(postings, func(a, b int) bool {
		return postings[a].MatchScore > postings[b].MatchScore
	})

	return postings, nil
}

const (
	// Only the leading resume tokens feed the reason: the opening of a
	// resume names the skills, the tail is employment history boilerplate.
	reasonResumeTokens = 50
	reasonMaxKeywords  = 5

	fallbackReason = "Semantically relevant based on overall profile similarity"
)

// reasonTokens returns the first reasonResumeTokens lower-cased words of the
// resume, deduplicated, in order of first appearance.
func reasonTokens(resumeText string) []string {
	fields := strings.Fields(strings.ToLower(resumeText))
	if len(fields) > reasonResumeTokens {
		fields = fields[:reasonResumeTokens]
	}

	seen := make(map[string]bool, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// matchReason names up to reasonMaxKeywords resume terms that literally
// appear in the posting text. Postings matched purely by embedding proximity
// get the fallback wording.
func matchReason(resumeTokens []string, description string) string {
	if len(resumeTokens) == 0 {
		return ""
	}

	descTokens := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(description)) {
		descTokens[f] = true
	}

	var overlap []string
	for _, token := range resumeTokens {
		if !descTokens[token] {
			continue
		}
		overlap = append(overlap, token)
		if len(overlap) == reasonMaxKeywords {
			break
		}
	}

	if len(overlap) == 0 {
		return fallbackReason
	}
	return "Matches skills like: " + strings.Join(overlap, ", ")
}
