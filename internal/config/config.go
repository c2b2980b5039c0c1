package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mvoronova/skillscan/internal/model"
)

// Config is the root configuration for a skillscan run.
type Config struct {
	API       APIConfig
	Queries   []model.Query
	Fetch     FetchConfig
	Dedup     string // "first_seen" or "most_recent"
	CachePath string // SQLite raw-page cache
	SkillsFile string // empty = embedded default dictionary
	OutputDir string
}

// APIConfig holds the upstream search API endpoint and credentials.
type APIConfig struct {
	BaseURL string
	Key     string // expanded from env var by Load
	Host    string
}

// FetchConfig controls pagination, pacing and the retry budget.
type FetchConfig struct {
	PageLimit      int           // max pages per query
	MinDelay       time.Duration // minimum gap between requests
	Timeout        time.Duration // per-request timeout
	MaxRetries     int           // additional attempts after the first failure
	RetryBaseDelay time.Duration // delay before the first retry, doubled after
}

const (
	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	defaultHost    = "jsearch.p.rapidapi.com"

	DedupFirstSeen  = "first_seen"
	DedupMostRecent = "most_recent"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Key     string `yaml:"key"`
		Host    string `yaml:"host"`
	} `yaml:"api"`
	Queries []struct {
		Role    string `yaml:"role"`
		Country string `yaml:"country"`
	} `yaml:"queries"`
	Fetch struct {
		PageLimit      int    `yaml:"page_limit"`
		MinDelay       string `yaml:"min_delay"`
		Timeout        string `yaml:"timeout"`
		MaxRetries     *int   `yaml:"max_retries"`
		RetryBaseDelay string `yaml:"retry_base_delay"`
	} `yaml:"fetch"`
	Dedup      string `yaml:"dedup"`
	CachePath  string `yaml:"cache_path"`
	SkillsFile string `yaml:"skills_file"`
	OutputDir  string `yaml:"output_dir"`
}

// Load reads and parses the YAML config file at path, expands environment
// variables (so the API key can live in the environment), validates it, and
// returns Config. Any error here is fatal at startup: no network call happens
// on a bad config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	minDelay := 2 * time.Second
	if raw.Fetch.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.Fetch.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.min_delay %q: %w", raw.Fetch.MinDelay, err)
		}
	}

	timeout := 30 * time.Second
	if raw.Fetch.Timeout != "" {
		timeout, err = time.ParseDuration(raw.Fetch.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.timeout %q: %w", raw.Fetch.Timeout, err)
		}
	}

	retryBase := 5 * time.Second
	if raw.Fetch.RetryBaseDelay != "" {
		retryBase, err = time.ParseDuration(raw.Fetch.RetryBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.retry_base_delay %q: %w", raw.Fetch.RetryBaseDelay, err)
		}
	}

	maxRetries := 2
	if raw.Fetch.MaxRetries != nil {
		maxRetries = *raw.Fetch.MaxRetries
	}

	pageLimit := raw.Fetch.PageLimit
	if pageLimit == 0 {
		pageLimit = 10
	}

	baseURL := raw.API.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := raw.API.Host
	if host == "" {
		host = defaultHost
	}

	dedup := raw.Dedup
	if dedup == "" {
		dedup = DedupFirstSeen
	}

	cachePath := raw.CachePath
	if cachePath == "" {
		cachePath = "skillscan.db"
	}
	outputDir := raw.OutputDir
	if outputDir == "" {
		outputDir = "outputs"
	}

	queries := make([]model.Query, 0, len(raw.Queries))
	for _, q := range raw.Queries {
		queries = append(queries, model.Query{Role: q.Role, Country: q.Country})
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: baseURL,
			Key:     raw.API.Key,
			Host:    host,
		},
		Queries: queries,
		Fetch: FetchConfig{
			PageLimit:      pageLimit,
			MinDelay:       minDelay,
			Timeout:        timeout,
			MaxRetries:     maxRetries,
			RetryBaseDelay: retryBase,
		},
		Dedup:      dedup,
		CachePath:  cachePath,
		SkillsFile: raw.SkillsFile,
		OutputDir:  outputDir,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.API.Key == "" {
		return fmt.Errorf("api.key is required (set it to ${RAPIDAPI_KEY} and export the variable)")
	}
	if len(cfg.Queries) == 0 {
		return fmt.Errorf("at least one query must be configured")
	}
	for i, q := range cfg.Queries {
		if q.Role == "" {
			return fmt.Errorf("queries[%d].role must not be empty", i)
		}
		if q.Country == "" {
			return fmt.Errorf("queries[%d].country must not be empty", i)
		}
	}
	if cfg.Fetch.PageLimit < 1 {
		return fmt.Errorf("fetch.page_limit must be positive, got %d", cfg.Fetch.PageLimit)
	}
	if cfg.Fetch.MinDelay < 0 {
		return fmt.Errorf("fetch.min_delay must not be negative, got %v", cfg.Fetch.MinDelay)
	}
	if cfg.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must not be negative, got %d", cfg.Fetch.MaxRetries)
	}
	if cfg.Dedup != DedupFirstSeen && cfg.Dedup != DedupMostRecent {
		return fmt.Errorf("dedup must be %q or %q, got %q", DedupFirstSeen, DedupMostRecent, cfg.Dedup)
	}
	return nil
}
