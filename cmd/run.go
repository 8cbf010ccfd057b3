package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/getjobscout/jobscout/internal/config"
	"github.com/getjobscout/jobscout/internal/embedding"
	"github.com/getjobscout/jobscout/internal/embedding/gemini"
	"github.com/getjobscout/jobscout/internal/export"
	"github.com/getjobscout/jobscout/internal/filtering"
	"github.com/getjobscout/jobscout/internal/jobs"
	"github.com/getjobscout/jobscout/internal/logger"
	"github.com/getjobscout/jobscout/internal/notify"
	"github.com/getjobscout/jobscout/internal/rank"
	"github.com/getjobscout/jobscout/internal/search"
	"github.com/getjobscout/jobscout/internal/secrets"
	"github.com/getjobscout/jobscout/internal/seenstore"
	"github.com/getjobscout/jobscout/internal/source"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	PromptExportCSV      = "Export postings to csv"
	PromptSendEmail      = "Send email digest"
	PromptPostingsToFile = "Dump postings to file"
	PromptQuit           = "Quit"
	defaultCSVOutput     = "postings.csv"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptExportCSV, PromptSendEmail, PromptPostingsToFile, PromptQuit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search cycle and rank the results",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "path to a plain-text resume used for ranking")
	runCmd.Flags().BoolP("ignore-seen", "f", false, "do not drop postings surfaced in previous runs")
	runCmd.Flags().StringP("output", "o", defaultCSVOutput, "csv file for the export action")
	runCmd.Flags().BoolP("no-prompt", "y", false, "print the results and exit without the action prompt")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobscout", zap.String("version", version))

	cfg, validation := config.NormalizeAndValidate(cfg)
	for _, warning := range validation.Warnings {
		logger.Warn(warning)
	}
	if !validation.OK() {
		for _, e := range validation.Errors {
			logger.Error(e)
		}
		logger.Fatal("config is invalid")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(cfg, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resumeText, err := loadResume(cmd)
	if err != nil {
		logger.Fatal("loading resume",
			zap.Error(err),
			zap.String("hint", "pass a plain-text resume via --resume to rank postings"),
		)
	}
	if resumeText == "" {
		logger.Warn("no resume provided, postings will not be ranked")
	}

	level, err := filtering.ParseLevel(cfg.Search.Experience)
	if err != nil {
		logger.Fatal("parsing experience level", zap.Error(err))
	}

	var ranker *rank.Ranker
	if resumeText != "" {
		ranker, err = newRanker(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("building the ranker", zap.Error(err))
		}
	}

	store, err := newSeenStore(cfg.Seen)
	if err != nil {
		logger.Fatal("opening the seen store", zap.Error(err))
	}
	defer store.Close()

	cycle := &search.Cycle{
		Source:             source.NewClient(cfg.Source.Endpoint, cfg.Source.Timeout, cfg.Source.RequestsPerMin, logger),
		Ranker:             ranker,
		Store:              store,
		Logger:             logger,
		ExperienceKeywords: cfg.Filters.ExperienceOverrides(),
	}

	result, err := cycle.Run(ctx, search.Request{
		Query: source.Query{
			Role:     cfg.Search.Role,
			Location: cfg.Search.Location,
			Results:  cfg.Search.Results,
			HoursOld: cfg.Search.HoursOld,
			Country:  cfg.Search.Country,
		},
		ResumeText: resumeText,
		Level:      level,
		MaxAgeDays: cfg.Filters.MaxAgeDays,
		IgnoreSeen: cmd.Flag("ignore-seen").Value.String() == "true",
	})
	if err != nil {
		logger.Fatal("search cycle failed", zap.Error(err))
	}

	if result.Postings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	printPostings(result.Postings)

	if cmd.Flag("no-prompt").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, cmd, cfg, logger, result.Postings); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, postings *jobs.Postings) error {
	switch action {
	case PromptExportCSV:
		path := cmd.Flag("output").Value.String()
		if err := export.WriteCSVFile(path, postings); err != nil {
			return fmt.Errorf("export to csv: %w", err)
		}
		logger.Info("exported postings", zap.String("filename", path), zap.Int("count", postings.Len()))
		return nil
	case PromptSendEmail:
		return sendDigest(cfg.Email, logger, postings)
	case PromptPostingsToFile:
		filename, err := postings.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func loadResume(cmd *cobra.Command) (string, error) {
	path := strings.TrimSpace(cmd.Flag("resume").Value.String())
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

func newRanker(ctx context.Context, cfg *config.Config, log *zap.Logger) (*rank.Ranker, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Embedding.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set embedding.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	embedLogger := logger.WithCommonFields(log, "gemini", cfg.Embedding.Model)

	embedder, err := gemini.NewEmbedder(ctx, apiKey, cfg.Embedding.Model, cfg.Embedding.Dimension, cfg.Embedding.MaxRetries, embedLogger)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.Embedding.RequestsPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.Embedding.RequestsPerMin)/60.0), 1)
	}

	provider := embedding.Cached(embedding.Batched(embedder, cfg.Embedding.BatchSize, cfg.Embedding.Parallel, limiter))

	return rank.New(provider, log, rank.Options{
		ChunkWindow: cfg.Ranking.ChunkWindow,
		TopK:        cfg.Ranking.TopK,
		TitleWeight: cfg.Ranking.TitleWeight,
		BodyWeight:  cfg.Ranking.BodyWeight,
	}), nil
}

func newSeenStore(cfg *config.SeenConfig) (seenstore.Store, error) {
	switch cfg.Backend {
	case config.SeenBackendSQLite:
		return seenstore.OpenSQLite(cfg.Path, cfg.RetentionDays)
	case config.SeenBackendFile:
		return seenstore.OpenFile(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported seen backend: %s", cfg.Backend)
	}
}

func sendDigest(cfg *config.EmailConfig, logger *zap.Logger, postings *jobs.Postings) error {
	if cfg == nil || !cfg.Enabled {
		return errors.New("email is not enabled in the config")
	}

	password := ""
	if strings.TrimSpace(cfg.PasswordFile) != "" {
		var err error
		password, err = secrets.Load(secrets.Source{
			Name: "smtp password",
			File: cfg.PasswordFile,
		})
		if err != nil {
			return err
		}
	}

	mailer := notify.NewMailer(cfg.Host, cfg.Port, cfg.From, password, logger)

	return mailer.SendDigest(cfg.To, postings)
}

func printPostings(postings *jobs.Postings) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tTITLE\tCOMPANY\tLOCATION\tWHY\tURL")
	for _, p := range postings.Items {
		fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\t%s\t%s\n", p.MatchScore, p.Title, p.Company, p.Location, p.MatchReason, p.URL)
	}
	w.Flush()
}
