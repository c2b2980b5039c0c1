package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvoronova/skillscan/internal/aggregate"
	"github.com/mvoronova/skillscan/internal/config"
	"github.com/mvoronova/skillscan/internal/export"
	"github.com/mvoronova/skillscan/internal/fetch"
	"github.com/mvoronova/skillscan/internal/model"
	"github.com/mvoronova/skillscan/internal/normalize"
	"github.com/mvoronova/skillscan/internal/pipeline"
	"github.com/mvoronova/skillscan/internal/skills"
	"github.com/mvoronova/skillscan/internal/store"
)

var fromCache bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and export the tables",
	Long:  "Fetch postings (or reuse the local cache), normalize, extract skills, classify experience, aggregate, and write the CSV outputs.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&fromCache, "from-cache", false, "skip fetching and process the cached raw pages")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dict, err := skills.Load(cfg.SkillsFile)
	if err != nil {
		logger.Error("failed to load skill dictionary", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"queries", len(cfg.Queries),
		"page_limit", cfg.Fetch.PageLimit,
		"skills", dict.Len(),
		"dedup", cfg.Dedup,
	)

	cache, err := store.NewSQLiteStore(cfg.CachePath)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats := &model.RunStats{}

	var raw []model.RawPosting
	if fromCache {
		raw, err = cache.LoadAll()
		if err != nil {
			logger.Error("failed to load cached pages", "error", err)
			os.Exit(1)
		}
		stats.RawRecords = len(raw)
		logger.Info("loaded raw records from cache", "records", len(raw))
	} else {
		// A fresh fetch replaces the previous cache contents.
		if err := cache.Clear(); err != nil {
			logger.Error("failed to clear cache", "error", err)
			os.Exit(1)
		}
		runner := fetch.NewRunner(buildFetcher(cfg, logger), cache, cfg.Fetch.PageLimit, logger)
		raw, err = runner.FetchAll(ctx, cfg.Queries, stats)
		if err != nil {
			logger.Error("fetch aborted", "error", err)
			os.Exit(1)
		}
	}

	postings := normalize.Normalize(raw, normalize.TieBreak(cfg.Dedup), stats)
	annotated := pipeline.Annotate(postings, dict)
	report := aggregate.Build(annotated, dict)

	exporter := export.NewExporter(cfg.OutputDir, logger)
	if err := exporter.WriteAll(annotated, report, dict, stats); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}

	stats.LogSummary(logger)
	logger.Info("run complete",
		"postings", report.TotalPostings,
		"avg_skills_per_posting", report.AvgSkillsPerPosting,
		"output_dir", cfg.OutputDir,
	)
	return nil
}

// loadRawForReport loads the cached raw records for the report command.
func loadRawForReport(cfg *config.Config) ([]model.RawPosting, error) {
	cache, err := store.NewSQLiteStore(cfg.CachePath)
	if err != nil {
		return nil, err
	}
	defer cache.Close()
	return cache.LoadAll()
}
