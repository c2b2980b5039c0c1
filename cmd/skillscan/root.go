package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvoronova/skillscan/internal/adapter"
	"github.com/mvoronova/skillscan/internal/config"
	"github.com/mvoronova/skillscan/internal/model"
	"github.com/mvoronova/skillscan/internal/ratelimit"
	"github.com/mvoronova/skillscan/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "skillscan",
	Short: "Job-posting skill analysis pipeline",
	Long:  "Skillscan fetches job postings, extracts skill mentions from descriptions, and exports aggregate tables for the dashboard.",
	// Default to `run` so that `skillscan` with no args runs the full pipeline.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: SKILLSCAN_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > SKILLSCAN_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("SKILLSCAN_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// buildFetcher assembles the decorator chain around the JSearch adapter:
// adapter → retry → rate limit.
func buildFetcher(cfg *config.Config, logger *slog.Logger) model.PageFetcher {
	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}

	var fetcher model.PageFetcher = adapter.NewJSearchAdapter(
		cfg.API.BaseURL, cfg.API.Key, cfg.API.Host, httpClient,
	)
	fetcher = retry.NewRetryFetcher(fetcher, cfg.Fetch.MaxRetries, cfg.Fetch.RetryBaseDelay, logger)

	limiter := ratelimit.NewHostRateLimiter(cfg.Fetch.MinDelay)
	fetcher = ratelimit.NewRateLimitedFetcher(fetcher, limiter, cfg.API.Host)

	return fetcher
}
