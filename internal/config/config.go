// Package config holds the runtime configuration of jobscout. The structs
// mirror the yaml layout and are populated through viper's mapstructure
// decoding.
package config

import (
	"time"
)

// Config is the top-level configuration.
type Config struct {
	Source    *SourceConfig    `mapstructure:"source"`
	Search    *SearchConfig    `mapstructure:"search"`
	Ranking   *RankingConfig   `mapstructure:"ranking"`
	Embedding *EmbeddingConfig `mapstructure:"embedding"`
	Filters   *FiltersConfig   `mapstructure:"filters"`
	Seen      *SeenConfig      `mapstructure:"seen"`
	Email     *EmailConfig     `mapstructure:"email"`
}

// SourceConfig describes the job board aggregator endpoint.
type SourceConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RequestsPerMin int           `mapstructure:"requests-per-minute"`
}

// SearchConfig describes what to search for.
type SearchConfig struct {
	Role       string `mapstructure:"role"`
	Location   string `mapstructure:"location"`
	Results    int    `mapstructure:"results"`
	HoursOld   int    `mapstructure:"hours-old"`
	Country    string `mapstructure:"country"`
	Experience string `mapstructure:"experience"`
}

// RankingConfig tunes the resume relevance scoring.
type RankingConfig struct {
	ChunkWindow int     `mapstructure:"chunk-window"`
	TopK        int     `mapstructure:"top-k"`
	TitleWeight float64 `mapstructure:"title-weight"`
	BodyWeight  float64 `mapstructure:"body-weight"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Model          string `mapstructure:"model"`
	Dimension      int    `mapstructure:"dimension"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	BatchSize      int    `mapstructure:"batch-size"`
	Parallel       int    `mapstructure:"parallel"`
	MaxRetries     int    `mapstructure:"max-retries"`
	RequestsPerMin int    `mapstructure:"requests-per-minute"`
}

// FiltersConfig tunes the filtering chain.
type FiltersConfig struct {
	MaxAgeDays int `mapstructure:"max-age-days"`
	// Experience keyword overrides per tier, e.g. senior: [lead, principal].
	ExperienceKeywords map[string][]string `mapstructure:"experience-keywords"`
}

// SeenConfig configures the persistent fingerprint store.
type SeenConfig struct {
	Backend       string `mapstructure:"backend"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention-days"`
}

// EmailConfig configures the optional digest email.
type EmailConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	From         string   `mapstructure:"from"`
	To           []string `mapstructure:"to"`
	PasswordFile string   `mapstructure:"password-file"`
}

const (
	SeenBackendSQLite = "sqlite"
	SeenBackendFile   = "file"

	defaultEndpoint   = "http://localhost:8000/search"
	defaultTimeout    = 30 * time.Second
	defaultResults    = 50
	defaultHoursOld   = 72
	defaultModel      = "gemini-embedding-001"
	defaultDimension  = 768
	defaultBatchSize  = 64
	defaultParallel   = 4
	defaultMaxRetries = 3
	defaultSeenPath   = "jobscout-seen.db"
)
