package jobs

import (
	"encoding/json"
	"os"
)

// Postings is an ordered collection of postings. Every operation preserves
// relative order: ranking ties are broken by input position, so a reordering
// helper here would silently break the sort contract downstream.
type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	return len(p.Items)
}

// Keep retains the postings the predicate accepts and returns the URLs of
// the dropped ones for logging.
func (p *Postings) Keep(pred func(*Posting) bool) []string {
	var dropped []string
	kept := p.Items[:0]
	for _, posting := range p.Items {
		if pred(posting) {
			kept = append(kept, posting)
			continue
		}
		dropped = append(dropped, posting.URL)
	}
	p.Items = kept
	return dropped
}

// Fingerprints returns the fingerprint of every posting, computing and
// caching missing ones.
func (p *Postings) Fingerprints() []string {
	fps := make([]string, 0, len(p.Items))
	for _, posting := range p.Items {
		if posting.Fingerprint == "" {
			posting.Fingerprint = posting.ComputeFingerprint()
		}
		fps = append(fps, posting.Fingerprint)
	}
	return fps
}

func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}
