package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/getjobscout/jobscout/internal/jobs"
	"github.com/getjobscout/jobscout/internal/textproc"
)

// Level is a seniority tier inferred from posting text.
type Level string

const (
	LevelAll        Level = "all"
	LevelInternship Level = "internship"
	LevelEntry      Level = "entry"
	LevelMid        Level = "mid"
	LevelSenior     Level = "senior"
)

// Default tier keyword sets. Recall-oriented on purpose: a posting is kept
// when its title or description contains any keyword of the chosen tier.
// Config may override any list.
var defaultKeywords = map[Level][]string{
	LevelInternship: {"intern", "internship", "trainee", "student"},
	LevelEntry:      {"entry", "junior", "associate", "graduate", "fresher"},
	LevelMid:        {"mid", "intermediate", "2+", "3+"},
	LevelSenior:     {"senior", "lead", "principal", "staff", "architect"},
}

// ParseLevel maps a config string to a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelAll:
		return LevelAll, nil
	case LevelInternship:
		return LevelInternship, nil
	case LevelEntry:
		return LevelEntry, nil
	case LevelMid:
		return LevelMid, nil
	case LevelSenior:
		return LevelSenior, nil
	default:
		return "", fmt.Errorf("unknown experience level %q", s)
	}
}

type experienceFilter struct {
	level    Level
	keywords []string
	logger   *zap.Logger
}

// NewExperience creates the experience-tier filter. LevelAll is the identity
// transform. Overrides replace the default keyword list of their tier.
func NewExperience(level Level, overrides map[Level][]string, log *zap.Logger) Filter {
	keywords := defaultKeywords[level]
	if custom, ok := overrides[level]; ok && len(custom) > 0 {
		keywords = custom
	}

	return &experienceFilter{
		level:    level,
		keywords: keywords,
		logger:   log,
	}
}

func (f *experienceFilter) Name() string { return "experience" }

func (f *experienceFilter) Disable(string) {}

func (f *experienceFilter) IsEnabled() bool { return true }

func (f *experienceFilter) Validate() error {
	if f.level == LevelAll {
		return nil
	}
	if len(f.keywords) == 0 {
		return fmt.Errorf("no keywords configured for level %q", f.level)
	}
	return nil
}

func (f *experienceFilter) Apply(_ context.Context, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	if f.level == LevelAll {
		return p, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	dropped := p.Keep(func(posting *jobs.Posting) bool {
		// Match against normalized text only: raw descriptions carry markup,
		// and tag names or attribute values must not count as keywords.
		if posting.CleanDescription == "" {
			posting.CleanDescription = textproc.Normalize(posting.Description)
		}
		text := strings.ToLower(textproc.Normalize(posting.Title) + " " + posting.CleanDescription)
		for _, keyword := range f.keywords {
			k := strings.ToLower(strings.TrimSpace(keyword))
			if k == "" {
				continue
			}
			if strings.Contains(text, k) {
				return true
			}
		}
		return false
	})

	if f.logger != nil && len(dropped) > 0 {
		f.logger.Debug("excluding postings by experience level",
			zap.String("level", string(f.level)),
			zap.Strings("excluded_urls", dropped),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(dropped), Left: p.Len()}, nil
}
