package pipeline

import (
	"reflect"
	"testing"

	"github.com/mvoronova/skillscan/internal/aggregate"
	"github.com/mvoronova/skillscan/internal/model"
	"github.com/mvoronova/skillscan/internal/normalize"
	"github.com/mvoronova/skillscan/internal/skills"
)

func loadDict(t *testing.T) *skills.Dictionary {
	t.Helper()
	d, err := skills.Load("")
	if err != nil {
		t.Fatalf("loading dictionary: %v", err)
	}
	return d
}

func skillIndex(t *testing.T, d *skills.Dictionary, name string) int {
	t.Helper()
	for i, n := range d.Names() {
		if n == name {
			return i
		}
	}
	t.Fatalf("skill %q not in dictionary", name)
	return -1
}

func TestAnnotate_CleansAndClassifies(t *testing.T) {
	d := loadDict(t)
	postings := []model.Posting{
		{
			Title:       "Junior Data Analyst",
			Description: "<p>Experience   with SQL</p>",
		},
		{
			Title:       "Data Analyst",
			Description: "",
		},
	}

	annotated := Annotate(postings, d)
	if len(annotated) != 2 {
		t.Fatalf("expected 2 annotated postings, got %d", len(annotated))
	}

	if annotated[0].Description != "experience with sql" {
		t.Errorf("expected cleaned description, got %q", annotated[0].Description)
	}
	if annotated[0].Experience != model.ExperienceJunior {
		t.Errorf("expected junior, got %s", annotated[0].Experience)
	}
	if !annotated[0].Skills[skillIndex(t, d, "sql")] {
		t.Error("expected sql present")
	}
	if annotated[0].SkillsCount != 1 {
		t.Errorf("expected 1 skill, got %d", annotated[0].SkillsCount)
	}

	// Empty description: all skills absent, not an error.
	if annotated[1].SkillsCount != 0 {
		t.Errorf("expected 0 skills for empty description, got %d", annotated[1].SkillsCount)
	}
	if annotated[1].Experience != model.ExperienceMidPlus {
		t.Errorf("expected mid_plus default, got %s", annotated[1].Experience)
	}
}

// The full pipeline scenario: three raw records where the third duplicates the
// first with a different posting date. The cleaned dataset must have two rows,
// SQL prevalence 0.5 and exactly one junior posting.
func TestPipeline_EndToEnd(t *testing.T) {
	d := loadDict(t)
	raw := []model.RawPosting{
		{
			Title:       "Data Analyst",
			Company:     "Acme",
			City:        "New York",
			Country:     "US",
			Description: "Proficient in SQL and Excel",
			PostedAt:    "2026-08-01T12:00:00Z",
		},
		{
			Title:       "Junior Data Analyst",
			Company:     "Beta",
			City:        "London",
			Country:     "GB",
			Description: "Power BI, Python",
			PostedAt:    "2026-08-02T09:00:00Z",
		},
		{
			// Duplicate of the first posting, different posting date.
			Title:       "Data Analyst",
			Company:     "Acme",
			City:        "New York",
			Country:     "US",
			Description: "Proficient in SQL and Excel",
			PostedAt:    "2026-08-10T12:00:00Z",
		},
	}

	stats := &model.RunStats{}
	postings := normalize.Normalize(raw, normalize.TieBreakFirstSeen, stats)
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings after dedup, got %d", len(postings))
	}
	if stats.DroppedDuplicate != 1 {
		t.Errorf("expected 1 duplicate dropped, got %d", stats.DroppedDuplicate)
	}

	annotated := Annotate(postings, d)
	report := aggregate.Build(annotated, d)

	if report.TotalPostings != 2 {
		t.Fatalf("expected 2 total postings, got %d", report.TotalPostings)
	}

	for _, s := range report.TopSkills {
		if s.Skill == "sql" && s.Share != 0.5 {
			t.Errorf("expected sql prevalence 0.5, got %v", s.Share)
		}
	}

	for _, e := range report.Experience {
		if e.Group == model.ExperienceJunior && e.Count != 1 {
			t.Errorf("expected junior count 1, got %d", e.Count)
		}
	}
}

// Two independent runs over identical raw input and the same dictionary must
// produce identical annotated datasets and reports.
func TestPipeline_Determinism(t *testing.T) {
	d := loadDict(t)
	raw := []model.RawPosting{
		{Title: "Data Analyst", Company: "A", Country: "US", Description: "SQL, Tableau", PostedAt: "2026-08-01T12:00:00Z"},
		{Title: "Junior Analyst", Company: "B", Country: "GB", Description: "Python and Excel", PostedAt: "2026-08-02T12:00:00Z"},
		{Title: "Analytics Engineer", Company: "C", Country: "CA", Description: "dbt, Airflow, SQL", PostedAt: "2026-08-03T12:00:00Z"},
	}

	run := func() ([]model.AnnotatedPosting, *aggregate.Report) {
		stats := &model.RunStats{}
		postings := normalize.Normalize(raw, normalize.TieBreakFirstSeen, stats)
		annotated := Annotate(postings, d)
		return annotated, aggregate.Build(annotated, d)
	}

	a1, r1 := run()
	a2, r2 := run()

	if !reflect.DeepEqual(a1, a2) {
		t.Error("annotated datasets differ between identical runs")
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Error("reports differ between identical runs")
	}
}
