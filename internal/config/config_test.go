package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
api:
  key: test-key
queries:
  - role: data analyst
    country: us
  - role: data analyst
    country: gb
fetch:
  page_limit: 5
  min_delay: 1s
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Key != "test-key" {
		t.Errorf("expected api key test-key, got %q", cfg.API.Key)
	}
	if cfg.API.BaseURL != defaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.API.BaseURL)
	}
	if len(cfg.Queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(cfg.Queries))
	}
	if cfg.Queries[1].Country != "gb" {
		t.Errorf("expected second query country gb, got %q", cfg.Queries[1].Country)
	}
	if cfg.Fetch.PageLimit != 5 {
		t.Errorf("expected page_limit 5, got %d", cfg.Fetch.PageLimit)
	}
	if cfg.Fetch.MinDelay != time.Second {
		t.Errorf("expected min_delay 1s, got %v", cfg.Fetch.MinDelay)
	}
	if cfg.Dedup != DedupFirstSeen {
		t.Errorf("expected default dedup first_seen, got %q", cfg.Dedup)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("SKILLSCAN_TEST_KEY", "secret-from-env")
	cfg, err := Load(writeConfig(t, `
api:
  key: ${SKILLSCAN_TEST_KEY}
queries:
  - role: data analyst
    country: us
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Key != "secret-from-env" {
		t.Errorf("expected key from env, got %q", cfg.API.Key)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing api key",
			content: `
queries:
  - role: data analyst
    country: us
`,
			wantErr: "api.key is required",
		},
		{
			name: "no queries",
			content: `
api:
  key: k
`,
			wantErr: "at least one query",
		},
		{
			name: "empty role",
			content: `
api:
  key: k
queries:
  - role: ""
    country: us
`,
			wantErr: "role must not be empty",
		},
		{
			name: "bad dedup mode",
			content: `
api:
  key: k
queries:
  - role: data analyst
    country: us
dedup: newest
`,
			wantErr: "dedup must be",
		},
		{
			name: "bad min_delay",
			content: `
api:
  key: k
queries:
  - role: data analyst
    country: us
fetch:
  min_delay: fast
`,
			wantErr: "parse fetch.min_delay",
		},
		{
			name: "negative page_limit",
			content: `
api:
  key: k
queries:
  - role: data analyst
    country: us
fetch:
  page_limit: -1
`,
			wantErr: "page_limit must be positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
