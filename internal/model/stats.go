package model

import "log/slog"

// PageGap records one page that failed after all retries and was skipped.
type PageGap struct {
	Query Query
	Page  int
	Err   string
}

// RunStats accumulates drop and gap counters across the pipeline stages.
// It is passed explicitly through each stage so stages stay testable in
// isolation; nothing mutates it concurrently.
type RunStats struct {
	PagesFetched int
	PagesSkipped int
	Gaps         []PageGap

	RawRecords        int
	DroppedBadDate    int
	DroppedCountry    int
	DroppedDuplicate  int
	InvalidEmployment int // counted but not dropped
	Kept              int
}

// RecordGap marks a page as permanently failed.
func (s *RunStats) RecordGap(q Query, page int, err error) {
	s.PagesSkipped++
	s.Gaps = append(s.Gaps, PageGap{Query: q, Page: page, Err: err.Error()})
}

// LogSummary writes the run-wide counters as one structured log line.
func (s *RunStats) LogSummary(logger *slog.Logger) {
	logger.Info("run summary",
		"pages_fetched", s.PagesFetched,
		"pages_skipped", s.PagesSkipped,
		"raw_records", s.RawRecords,
		"dropped_bad_date", s.DroppedBadDate,
		"dropped_country", s.DroppedCountry,
		"dropped_duplicate", s.DroppedDuplicate,
		"invalid_employment_type", s.InvalidEmployment,
		"kept", s.Kept,
	)
}
