package jobs

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Known posting sources. Aggregator boards report their own name; postings
// pulled straight from an ATS carry the provider name instead.
const (
	SourceIndeed       = "indeed"
	SourceLinkedIn     = "linkedin"
	SourceZipRecruiter = "zip_recruiter"
	SourceGlassdoor    = "glassdoor"
)

// Posting is one job listing as delivered by the acquisition service, plus
// the fields the pipeline computes for it. A Posting lives for exactly one
// search cycle; only its fingerprint survives across cycles.
type Posting struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"job_url,omitempty"`
	Source      string `json:"site,omitempty"`
	PostedHint  string `json:"date_posted,omitempty"`

	// Computed by the pipeline.
	CleanDescription string  `json:"-"`
	MatchScore       float64 `json:"match_score"`
	MatchReason      string  `json:"match_reason,omitempty"`
	PostedDays       *int    `json:"posted_days,omitempty"`
	Fingerprint      string  `json:"-"`
}

// ComputeFingerprint returns a stable 128-bit digest of the posting's
// identifying fields. Title, company and location are lower-cased and
// trimmed before hashing; concatenation order is fixed, so swapping field
// values produces a different fingerprint.
func (p *Posting) ComputeFingerprint() string {
	key := normalizeKey(p.Title) + normalizeKey(p.Company) + normalizeKey(p.Location)
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
