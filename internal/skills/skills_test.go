package skills

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvoronova/skillscan/internal/textclean"
)

func loadDefault(t *testing.T) *Dictionary {
	t.Helper()
	d, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded dictionary: %v", err)
	}
	return d
}

func TestLoad_EmbeddedDefault(t *testing.T) {
	d := loadDefault(t)
	if d.Len() != 43 {
		t.Errorf("expected 43 skills, got %d", d.Len())
	}

	seen := make(map[string]bool)
	for _, name := range d.Names() {
		if seen[name] {
			t.Errorf("duplicate skill name %q", name)
		}
		seen[name] = true
	}

	cats := d.Categories()
	if len(cats) != 6 {
		t.Errorf("expected 6 categories, got %d: %v", len(cats), cats)
	}

	total := 0
	for _, c := range cats {
		total += len(d.Members(c))
	}
	if total != d.Len() {
		t.Errorf("every skill must belong to exactly one category: %d != %d", total, d.Len())
	}
}

func TestLoad_InvalidDictionaries(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty",
			content: "skills: []",
			wantErr: "empty",
		},
		{
			name: "duplicate name",
			content: `
skills:
  - {name: sql, category: Programming, pattern: '\bsql\b'}
  - {name: sql, category: Programming, pattern: '\bsql\b'}
`,
			wantErr: "duplicate name",
		},
		{
			name: "unknown category",
			content: `
skills:
  - {name: sql, category: Quantum, pattern: '\bsql\b'}
`,
			wantErr: "unknown category",
		},
		{
			name: "bad pattern",
			content: `
skills:
  - {name: sql, category: Programming, pattern: '\b(sql'}
`,
			wantErr: "compile pattern",
		},
		{
			name: "missing name",
			content: `
skills:
  - {category: Programming, pattern: '\bsql\b'}
`,
			wantErr: "name must not be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "skills.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func present(t *testing.T, d *Dictionary, text, skill string) bool {
	t.Helper()
	got := d.Extract(text)
	for i, name := range d.Names() {
		if name == skill {
			return got[i]
		}
	}
	t.Fatalf("skill %q not in dictionary", skill)
	return false
}

func TestExtract_WordBoundaries(t *testing.T) {
	d := loadDefault(t)

	tests := []struct {
		name  string
		text  string
		skill string
		want  bool
	}{
		{"sql as a word", "proficient in sql and excel", "sql", true},
		{"sql inside mysql does not count as sql_server", "we use mysql", "sql_server", false},
		{"mysql matches mysql", "we use mysql daily", "mysql", true},
		{"r as standalone language", "experience with r, python and sql", "r", true},
		{"r inside a word does not match", "strong writer with drive", "r", false},
		{"excel not matched in excellent", "excellent communication skills", "excel", false},
		{"excel as a word", "advanced excel modelling", "excel", true},
		{"power bi with space", "reports in power bi", "power_bi", true},
		{"powerbi glued", "reports in powerbi", "power_bi", true},
		{"postgres short form", "postgres experience", "postgresql", true},
		{"a/b testing", "run a/b tests at scale", "a_b_testing", true},
		{"etl keyword", "build etl processes", "etl", true},
		{"data pipelines plural", "own our data pipelines", "data_pipeline", true},
		{"statistics adjective form", "statistical analysis background", "statistics", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := present(t, d, tt.text, tt.skill); got != tt.want {
				t.Errorf("Extract(%q)[%s] = %v, want %v", tt.text, tt.skill, got, tt.want)
			}
		})
	}
}

func TestExtract_EmptyDescription(t *testing.T) {
	d := loadDefault(t)
	got := d.Extract("")
	for i, p := range got {
		if p {
			t.Errorf("expected all skills absent for empty text, %s present", d.Names()[i])
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	d := loadDefault(t)
	text := textclean.Clean("<p>SQL, Python, Power BI, Tableau and a/b testing.</p>")

	first := d.Extract(text)
	for run := 0; run < 10; run++ {
		again := d.Extract(text)
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("extraction not deterministic for skill %s", d.Names()[i])
			}
		}
	}
}
