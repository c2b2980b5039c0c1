package model

import (
	"context"
	"time"
)

// Country is one of the supported posting markets.
type Country string

const (
	CountryUSA    Country = "USA"
	CountryUK     Country = "UK"
	CountryCanada Country = "Canada"
)

// ExperienceGroup is the coarse seniority bucket derived from the job title.
type ExperienceGroup string

const (
	ExperienceJunior  ExperienceGroup = "junior"
	ExperienceMidPlus ExperienceGroup = "mid_plus"
)

// Query identifies one upstream search: a role keyword and a two-letter
// country code understood by the search API (us, gb, ca).
type Query struct {
	Role    string
	Country string
}

// RawPosting is one record as returned by the JSearch API, before any
// validation or cleanup.
type RawPosting struct {
	JobID          string `json:"job_id"`
	Title          string `json:"job_title"`
	Company        string `json:"employer_name"`
	City           string `json:"job_city"`
	State          string `json:"job_state"`
	Country        string `json:"job_country"`
	Description    string `json:"job_description"`
	EmploymentType string `json:"job_employment_type"`
	IsRemote       bool   `json:"job_is_remote"`
	PostedAt       string `json:"job_posted_at_datetime_utc"`
}

// Posting is one validated, deduplicated job advertisement.
type Posting struct {
	ID          string // identity key: normalized title|company|location
	Title       string
	Company     string
	Location    string
	Country     Country
	IsRemote    bool
	FullTime    bool
	PartTime    bool
	Contractor  bool
	Internship  bool
	Description string // rewritten in place by the text preprocessor
	PostedAt    time.Time
	Experience  ExperienceGroup
}

// AnnotatedPosting is a Posting plus its per-skill presence indicators.
// Skills is aligned with the dictionary's skill order.
type AnnotatedPosting struct {
	Posting
	Skills      []bool
	SkillsCount int
}

// PageFetcher fetches one page of raw postings for a query.
type PageFetcher interface {
	FetchPage(ctx context.Context, q Query, page int) ([]RawPosting, error)
}

// PageStore persists fetched raw pages so the pipeline can re-run offline.
type PageStore interface {
	SavePage(q Query, page int, records []RawPosting) error
	LoadAll() ([]RawPosting, error)
	Clear() error
}
