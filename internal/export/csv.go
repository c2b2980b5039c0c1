// Package export persists the annotated dataset and the aggregate tables as
// CSV files for the downstream dashboard. File names and column order are a
// stable contract and must not change between runs.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mvoronova/skillscan/internal/aggregate"
	"github.com/mvoronova/skillscan/internal/model"
	"github.com/mvoronova/skillscan/internal/skills"
)

// Exporter writes all output artifacts into one directory.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

// NewExporter creates an exporter that writes into dir, creating it if needed.
func NewExporter(dir string, logger *slog.Logger) *Exporter {
	return &Exporter{dir: dir, logger: logger}
}

// WriteAll writes the fact table, every aggregate table and the run summary.
// Each file is written to a temp file and renamed into place, so a crash or
// error never leaves a partial file visible.
func (e *Exporter) WriteAll(annotated []model.AnnotatedPosting, report *aggregate.Report, dict *skills.Dictionary, stats *model.RunStats) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	writers := []struct {
		name string
		fn   func() ([]string, [][]string)
	}{
		{"fact_job_postings.csv", func() ([]string, [][]string) { return factTable(annotated, dict) }},
		{"agg_country.csv", func() ([]string, [][]string) { return countryTable(report) }},
		{"agg_experience.csv", func() ([]string, [][]string) { return experienceTable(report) }},
		{"agg_remote.csv", func() ([]string, [][]string) { return remoteTable(report) }},
		{"agg_top_skills.csv", func() ([]string, [][]string) { return topSkillsTable(report) }},
		{"agg_skills_by_country.csv", func() ([]string, [][]string) { return skillsByCountryTable(report) }},
		{"agg_skills_by_experience.csv", func() ([]string, [][]string) { return skillsByExperienceTable(report) }},
		{"agg_skills_gap.csv", func() ([]string, [][]string) { return skillsGapTable(report) }},
		{"agg_skill_categories.csv", func() ([]string, [][]string) { return categoriesTable(report) }},
		{"agg_skill_categories_by_experience.csv", func() ([]string, [][]string) { return categoriesByExperienceTable(report) }},
		{"agg_skills_count_dist.csv", func() ([]string, [][]string) { return skillsCountDistTable(report) }},
		{"agg_skills_count_by_experience.csv", func() ([]string, [][]string) { return skillsCountByExpTable(report) }},
		{"run_summary.csv", func() ([]string, [][]string) { return summaryTable(report, stats) }},
	}

	for _, w := range writers {
		header, rows := w.fn()
		if err := e.writeCSV(w.name, header, rows); err != nil {
			return err
		}
		e.logger.Info("wrote output", "file", w.name, "rows", len(rows))
	}
	return nil
}

// writeCSV writes one table atomically: temp file in the same directory, then
// rename over the final name.
func (e *Exporter) writeCSV(name string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(e.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s header: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s rows: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(e.dir, name)); err != nil {
		return fmt.Errorf("renaming %s into place: %w", name, err)
	}
	return nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

func itoa(v int) string { return strconv.Itoa(v) }

func btoa(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func factTable(annotated []model.AnnotatedPosting, dict *skills.Dictionary) ([]string, [][]string) {
	header := []string{
		"id", "title", "company", "location", "country", "experience_group",
		"is_remote", "is_full_time", "is_part_time", "is_contractor", "is_internship",
	}
	for _, name := range dict.Names() {
		header = append(header, "skill_"+name)
	}
	header = append(header, "skills_count", "posted_at")

	rows := make([][]string, 0, len(annotated))
	for _, a := range annotated {
		row := []string{
			a.ID, a.Title, a.Company, a.Location, string(a.Country), string(a.Experience),
			btoa(a.IsRemote), btoa(a.FullTime), btoa(a.PartTime), btoa(a.Contractor), btoa(a.Internship),
		}
		for _, present := range a.Skills {
			row = append(row, btoa(present))
		}
		row = append(row, itoa(a.SkillsCount), a.PostedAt.UTC().Format(time.RFC3339))
		rows = append(rows, row)
	}
	return header, rows
}

func countryTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"country", "count", "share"}
	var rows [][]string
	for _, c := range r.Countries {
		rows = append(rows, []string{string(c.Country), itoa(c.Count), ftoa(c.Share)})
	}
	return header, rows
}

func experienceTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"experience_group", "count", "share"}
	var rows [][]string
	for _, e := range r.Experience {
		rows = append(rows, []string{string(e.Group), itoa(e.Count), ftoa(e.Share)})
	}
	return header, rows
}

func remoteTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"is_remote", "count", "share"}
	var rows [][]string
	for _, rm := range r.Remote {
		rows = append(rows, []string{btoa(rm.IsRemote), itoa(rm.Count), ftoa(rm.Share)})
	}
	return header, rows
}

func topSkillsTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"skill", "category", "count", "share"}
	var rows [][]string
	for _, s := range r.TopSkills {
		rows = append(rows, []string{s.Skill, string(s.Category), itoa(s.Count), ftoa(s.Share)})
	}
	return header, rows
}

func skillsByCountryTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"skill", "country", "count", "share"}
	var rows [][]string
	for _, s := range r.SkillsByCountry {
		rows = append(rows, []string{s.Skill, string(s.Country), itoa(s.Count), ftoa(s.Share)})
	}
	return header, rows
}

func skillsByExperienceTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"skill", "experience_group", "count", "share"}
	var rows [][]string
	for _, s := range r.SkillsByExperience {
		rows = append(rows, []string{s.Skill, string(s.Group), itoa(s.Count), ftoa(s.Share)})
	}
	return header, rows
}

func skillsGapTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"skill", "junior_share", "mid_plus_share", "gap"}
	var rows [][]string
	for _, g := range r.SkillsGap {
		rows = append(rows, []string{g.Skill, ftoa(g.JuniorShare), ftoa(g.MidPlusShare), ftoa(g.Gap)})
	}
	return header, rows
}

func categoriesTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"skill_category", "count", "share"}
	var rows [][]string
	for _, c := range r.Categories {
		rows = append(rows, []string{string(c.Category), itoa(c.Count), ftoa(c.Share)})
	}
	return header, rows
}

func categoriesByExperienceTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"experience_group", "skill_category", "count", "share"}
	var rows [][]string
	for _, c := range r.CategoriesByExperience {
		rows = append(rows, []string{string(c.Group), string(c.Category), itoa(c.Count), ftoa(c.Share)})
	}
	return header, rows
}

func skillsCountDistTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"skills_count", "count", "share"}
	var rows [][]string
	for _, b := range r.SkillsCountDist {
		rows = append(rows, []string{itoa(b.SkillsCount), itoa(b.Count), ftoa(b.Share)})
	}
	return header, rows
}

func skillsCountByExpTable(r *aggregate.Report) ([]string, [][]string) {
	header := []string{"experience_group", "count", "mean", "median", "min", "max"}
	var rows [][]string
	for _, s := range r.SkillsCountByExp {
		rows = append(rows, []string{
			string(s.Group), itoa(s.Count), ftoa(s.Mean), ftoa(s.Median), itoa(s.Min), itoa(s.Max),
		})
	}
	return header, rows
}

func summaryTable(r *aggregate.Report, stats *model.RunStats) ([]string, [][]string) {
	header := []string{"metric", "value"}
	rows := [][]string{
		{"total_postings", itoa(r.TotalPostings)},
		{"avg_skills_per_posting", ftoa(r.AvgSkillsPerPosting)},
		{"pages_fetched", itoa(stats.PagesFetched)},
		{"pages_skipped", itoa(stats.PagesSkipped)},
		{"raw_records", itoa(stats.RawRecords)},
		{"dropped_bad_date", itoa(stats.DroppedBadDate)},
		{"dropped_country", itoa(stats.DroppedCountry)},
		{"dropped_duplicate", itoa(stats.DroppedDuplicate)},
		{"invalid_employment_type", itoa(stats.InvalidEmployment)},
		{"kept", itoa(stats.Kept)},
	}
	return header, rows
}
