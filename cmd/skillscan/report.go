package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mvoronova/skillscan/internal/aggregate"
	"github.com/mvoronova/skillscan/internal/model"
	"github.com/mvoronova/skillscan/internal/normalize"
	"github.com/mvoronova/skillscan/internal/pipeline"
	"github.com/mvoronova/skillscan/internal/report"
	"github.com/mvoronova/skillscan/internal/skills"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Browse the aggregate report interactively",
	Long:  "Run the pipeline over the cached raw pages and open an interactive skill browser. Requires a prior fetch (or run).",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
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

	raw, err := loadRawForReport(cfg)
	if err != nil {
		logger.Error("failed to load cached pages", "error", err)
		os.Exit(1)
	}
	if len(raw) == 0 {
		logger.Error("cache is empty, run `skillscan fetch` first", "cache", cfg.CachePath)
		os.Exit(1)
	}

	stats := &model.RunStats{RawRecords: len(raw)}
	postings := normalize.Normalize(raw, normalize.TieBreak(cfg.Dedup), stats)
	annotated := pipeline.Annotate(postings, dict)
	r := aggregate.Build(annotated, dict)

	return report.Run(r)
}
