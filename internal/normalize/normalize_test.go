package normalize

import (
	"testing"

	"github.com/mvoronova/skillscan/internal/model"
)

func raw(title, company, city, country, postedAt string) model.RawPosting {
	return model.RawPosting{
		Title:    title,
		Company:  company,
		City:     city,
		Country:  country,
		PostedAt: postedAt,
	}
}

func TestNormalize_DropsBadDates(t *testing.T) {
	tests := []struct {
		name     string
		postedAt string
		wantKept int
	}{
		{"valid RFC3339", "2026-08-01T12:00:00Z", 1},
		{"missing date", "", 0},
		{"unparseable date", "yesterday", 0},
		{"date only, no time", "2026-08-01", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &model.RunStats{}
			got := Normalize([]model.RawPosting{
				raw("Data Analyst", "Acme", "NYC", "US", tt.postedAt),
			}, TieBreakFirstSeen, stats)
			if len(got) != tt.wantKept {
				t.Errorf("expected %d kept, got %d", tt.wantKept, len(got))
			}
			if tt.wantKept == 0 && stats.DroppedBadDate != 1 {
				t.Errorf("expected DroppedBadDate 1, got %d", stats.DroppedBadDate)
			}
		})
	}
}

func TestNormalize_CountryValidation(t *testing.T) {
	tests := []struct {
		code string
		want model.Country
		keep bool
	}{
		{"US", model.CountryUSA, true},
		{"us", model.CountryUSA, true},
		{"GB", model.CountryUK, true},
		{"CA", model.CountryCanada, true},
		{"DE", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run("code "+tt.code, func(t *testing.T) {
			stats := &model.RunStats{}
			got := Normalize([]model.RawPosting{
				raw("Data Analyst", "Acme", "Somewhere", tt.code, "2026-08-01T12:00:00Z"),
			}, TieBreakFirstSeen, stats)
			if tt.keep {
				if len(got) != 1 {
					t.Fatalf("expected record kept, got %d", len(got))
				}
				if got[0].Country != tt.want {
					t.Errorf("expected country %s, got %s", tt.want, got[0].Country)
				}
			} else {
				if len(got) != 0 {
					t.Fatalf("expected record dropped, got %d", len(got))
				}
				if stats.DroppedCountry != 1 {
					t.Errorf("expected DroppedCountry 1, got %d", stats.DroppedCountry)
				}
			}
		})
	}
}

func TestNormalize_Dedup_FirstSeen(t *testing.T) {
	stats := &model.RunStats{}
	records := []model.RawPosting{
		raw("Data Analyst", "Acme", "NYC", "US", "2026-08-01T12:00:00Z"),
		raw("Data Analyst", "Acme", "NYC", "US", "2026-08-05T12:00:00Z"), // same identity, newer date
		raw("BI Analyst", "Acme", "NYC", "US", "2026-08-02T12:00:00Z"),
	}
	got := Normalize(records, TieBreakFirstSeen, stats)
	if len(got) != 2 {
		t.Fatalf("expected 2 postings after dedup, got %d", len(got))
	}
	if stats.DroppedDuplicate != 1 {
		t.Errorf("expected DroppedDuplicate 1, got %d", stats.DroppedDuplicate)
	}
	// First-seen wins: the August 1 record survives.
	if got[0].PostedAt.Day() != 1 {
		t.Errorf("expected first-seen record to survive, got posted day %d", got[0].PostedAt.Day())
	}
}

func TestNormalize_Dedup_MostRecent(t *testing.T) {
	stats := &model.RunStats{}
	records := []model.RawPosting{
		raw("Data Analyst", "Acme", "NYC", "US", "2026-08-01T12:00:00Z"),
		raw("Data Analyst", "Acme", "NYC", "US", "2026-08-05T12:00:00Z"),
	}
	got := Normalize(records, TieBreakMostRecent, stats)
	if len(got) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(got))
	}
	if got[0].PostedAt.Day() != 5 {
		t.Errorf("expected most-recent record to survive, got posted day %d", got[0].PostedAt.Day())
	}
}

func TestNormalize_IdentityKeysUnique(t *testing.T) {
	stats := &model.RunStats{}
	records := []model.RawPosting{
		raw("Data Analyst", "Acme", "NYC", "US", "2026-08-01T12:00:00Z"),
		raw("data  analyst", "ACME", "nyc", "US", "2026-08-02T12:00:00Z"), // same key after normalization
		raw("Data Analyst", "Beta", "NYC", "GB", "2026-08-03T12:00:00Z"),
	}
	got := Normalize(records, TieBreakFirstSeen, stats)
	seen := make(map[string]bool)
	for _, p := range got {
		if seen[p.ID] {
			t.Fatalf("duplicate identity key in output: %s", p.ID)
		}
		seen[p.ID] = true
	}
	if len(got) != 2 {
		t.Errorf("expected 2 postings, got %d", len(got))
	}
}

func TestNormalize_EmploymentTypeFlags(t *testing.T) {
	tests := []struct {
		empType string
		check   func(p model.Posting) bool
		invalid int
	}{
		{"FULLTIME", func(p model.Posting) bool { return p.FullTime }, 0},
		{"PARTTIME", func(p model.Posting) bool { return p.PartTime }, 0},
		{"CONTRACTOR", func(p model.Posting) bool { return p.Contractor }, 0},
		{"INTERN", func(p model.Posting) bool { return p.Internship }, 0},
		{"", func(p model.Posting) bool { return !p.FullTime && !p.PartTime }, 0},
		{"GIG", func(p model.Posting) bool { return !p.FullTime && !p.PartTime }, 1},
	}
	for _, tt := range tests {
		t.Run("type "+tt.empType, func(t *testing.T) {
			stats := &model.RunStats{}
			r := raw("Data Analyst", "Acme", "NYC", "US", "2026-08-01T12:00:00Z")
			r.EmploymentType = tt.empType
			got := Normalize([]model.RawPosting{r}, TieBreakFirstSeen, stats)
			if len(got) != 1 {
				t.Fatalf("expected record kept, got %d", len(got))
			}
			if !tt.check(got[0]) {
				t.Errorf("employment flags wrong for %q: %+v", tt.empType, got[0])
			}
			if stats.InvalidEmployment != tt.invalid {
				t.Errorf("expected InvalidEmployment %d, got %d", tt.invalid, stats.InvalidEmployment)
			}
		})
	}
}

func TestIdentityKey(t *testing.T) {
	a := IdentityKey("Data Analyst", "Acme Corp", "New York, NY")
	b := IdentityKey("data  ANALYST", "acme corp", "new york,   ny")
	if a != b {
		t.Errorf("expected equal keys, got %q and %q", a, b)
	}
	c := IdentityKey("Data Analyst", "Other Corp", "New York, NY")
	if a == c {
		t.Error("expected different companies to produce different keys")
	}
}
