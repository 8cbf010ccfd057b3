// Package seenstore persists the set of posting fingerprints already
// surfaced in past search cycles. The set is the only state with cross-cycle
// lifetime; everything else dies with its cycle.
package seenstore

import "context"

// Set holds fingerprints. Load returns one snapshot per cycle; the cycle
// unions the fingerprints it surfaces and saves the result back.
type Set map[string]struct{}

func NewSet(fingerprints ...string) Set {
	s := make(Set, len(fingerprints))
	for _, fp := range fingerprints {
		s.Add(fp)
	}
	return s
}

func (s Set) Has(fingerprint string) bool {
	_, ok := s[fingerprint]
	return ok
}

func (s Set) Add(fingerprint string) {
	if fingerprint == "" {
		return
	}
	s[fingerprint] = struct{}{}
}

func (s Set) Union(other Set) {
	for fp := range other {
		s[fp] = struct{}{}
	}
}

func (s Set) Len() int {
	return len(s)
}

// Store is the durable backend behind the seen set. Read-then-union-then-
// overwrite each cycle; callers serialize concurrent cycles sharing one
// store. A failed Load is treated as an empty set by callers (fail open); a
// failed Save is reported but never invalidates cycle results.
type Store interface {
	Load(ctx context.Context) (Set, error)
	Save(ctx context.Context, s Set) error
	Close() error
}
