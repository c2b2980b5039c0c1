package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvoronova/skillscan/internal/fetch"
	"github.com/mvoronova/skillscan/internal/model"
	"github.com/mvoronova/skillscan/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch raw postings into the local cache",
	Long:  "Page through the upstream API for every configured query and store the raw pages in the SQLite cache, without running the pipeline.",
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	cache, err := store.NewSQLiteStore(cfg.CachePath)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	if err := cache.Clear(); err != nil {
		logger.Error("failed to clear cache", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats := &model.RunStats{}
	runner := fetch.NewRunner(buildFetcher(cfg, logger), cache, cfg.Fetch.PageLimit, logger)
	raw, err := runner.FetchAll(ctx, cfg.Queries, stats)
	if err != nil {
		logger.Error("fetch aborted", "error", err)
		os.Exit(1)
	}

	logger.Info("fetch complete",
		"records", len(raw),
		"pages_fetched", stats.PagesFetched,
		"pages_skipped", stats.PagesSkipped,
		"cache", cfg.CachePath,
	)
	return nil
}
