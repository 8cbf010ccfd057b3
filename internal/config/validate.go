package config

import (
	"fmt"
	"strings"

	"github.com/getjobscout/jobscout/internal/filtering"
	"github.com/getjobscout/jobscout/internal/rank"
	"github.com/getjobscout/jobscout/internal/textproc"
)

// Validation collects problems found in a config. Errors are fatal,
// warnings are reported and execution continues.
type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills in defaults for missing values and checks the
// config for mistakes. It returns a normalized copy.
func NormalizeAndValidate(cfg *Config) (*Config, Validation) {
	var res Validation

	if cfg == nil {
		res.addErr("config is required")
		return nil, res
	}

	out := *cfg

	if out.Source == nil {
		out.Source = &SourceConfig{}
	}
	if strings.TrimSpace(out.Source.Endpoint) == "" {
		out.Source.Endpoint = defaultEndpoint
	}
	if out.Source.Timeout <= 0 {
		out.Source.Timeout = defaultTimeout
	}
	if out.Source.RequestsPerMin < 0 {
		res.addErr("source.requests-per-minute must not be negative")
	}

	if out.Search == nil {
		res.addErr("search section is required")
	} else {
		if strings.TrimSpace(out.Search.Role) == "" {
			res.addErr("search.role is required")
		}
		if out.Search.Results <= 0 {
			out.Search.Results = defaultResults
		}
		if out.Search.HoursOld <= 0 {
			out.Search.HoursOld = defaultHoursOld
		}
		if _, err := filtering.ParseLevel(out.Search.Experience); err != nil {
			res.addErr("search.experience: %v", err)
		}
	}

	if out.Ranking == nil {
		out.Ranking = &RankingConfig{}
	}
	defaults := rank.DefaultOptions()
	if out.Ranking.ChunkWindow == 0 {
		out.Ranking.ChunkWindow = textproc.DefaultChunkWindow
	}
	if out.Ranking.ChunkWindow < 1 {
		res.addErr("ranking.chunk-window must be at least 1, got %d", out.Ranking.ChunkWindow)
	}
	if out.Ranking.TopK <= 0 {
		out.Ranking.TopK = defaults.TopK
	}
	if out.Ranking.TitleWeight <= 0 {
		out.Ranking.TitleWeight = defaults.TitleWeight
	}
	if out.Ranking.BodyWeight <= 0 {
		out.Ranking.BodyWeight = defaults.BodyWeight
	}

	if out.Embedding == nil {
		out.Embedding = &EmbeddingConfig{}
	}
	if strings.TrimSpace(out.Embedding.Model) == "" {
		out.Embedding.Model = defaultModel
	}
	if out.Embedding.Dimension <= 0 {
		out.Embedding.Dimension = defaultDimension
	}
	if out.Embedding.BatchSize <= 0 {
		out.Embedding.BatchSize = defaultBatchSize
	}
	if out.Embedding.Parallel <= 0 {
		out.Embedding.Parallel = defaultParallel
	}
	if out.Embedding.MaxRetries < 0 {
		out.Embedding.MaxRetries = defaultMaxRetries
	}
	if strings.TrimSpace(out.Embedding.APIKeyFile) == "" {
		res.addWarn("embedding.api-key-file is not set; falling back to the GEMINI_API_KEY_FILE environment variable")
	}

	if out.Filters == nil {
		out.Filters = &FiltersConfig{}
	}
	if out.Filters.MaxAgeDays == 0 {
		out.Filters.MaxAgeDays = filtering.DefaultMaxAgeDays
	}
	if out.Filters.MaxAgeDays < 0 {
		res.addErr("filters.max-age-days must be positive, got %d", out.Filters.MaxAgeDays)
	}
	for tier := range out.Filters.ExperienceKeywords {
		if _, err := filtering.ParseLevel(tier); err != nil {
			res.addErr("filters.experience-keywords: %v", err)
		}
	}

	if out.Seen == nil {
		out.Seen = &SeenConfig{}
	}
	switch strings.ToLower(strings.TrimSpace(out.Seen.Backend)) {
	case "":
		out.Seen.Backend = SeenBackendSQLite
	case SeenBackendSQLite, SeenBackendFile:
		out.Seen.Backend = strings.ToLower(strings.TrimSpace(out.Seen.Backend))
	default:
		res.addErr("seen.backend must be %q or %q, got %q", SeenBackendSQLite, SeenBackendFile, out.Seen.Backend)
	}
	if strings.TrimSpace(out.Seen.Path) == "" {
		out.Seen.Path = defaultSeenPath
	}
	// Zero retention means keep fingerprints forever.
	if out.Seen.RetentionDays < 0 {
		res.addErr("seen.retention-days must not be negative, got %d", out.Seen.RetentionDays)
	}

	if out.Email != nil && out.Email.Enabled {
		if strings.TrimSpace(out.Email.Host) == "" {
			res.addErr("email.host is required when email.enabled is true")
		}
		if out.Email.Port == 0 {
			res.addErr("email.port is required when email.enabled is true")
		}
		if strings.TrimSpace(out.Email.From) == "" {
			res.addErr("email.from is required when email.enabled is true")
		}
		if len(out.Email.To) == 0 {
			res.addErr("email.to needs at least one recipient when email.enabled is true")
		}
		if strings.TrimSpace(out.Email.PasswordFile) == "" {
			res.addWarn("email.password-file is not set; sending will fail unless the server accepts unauthenticated mail")
		}
	}

	return &out, res
}

// ExperienceOverrides converts the string-keyed config map into typed
// filtering levels. Call after validation: unknown tiers are skipped here.
func (f *FiltersConfig) ExperienceOverrides() map[filtering.Level][]string {
	if f == nil || len(f.ExperienceKeywords) == 0 {
		return nil
	}
	out := make(map[filtering.Level][]string, len(f.ExperienceKeywords))
	for tier, keywords := range f.ExperienceKeywords {
		level, err := filtering.ParseLevel(tier)
		if err != nil {
			continue
		}
		out[level] = keywords
	}
	return out
}
