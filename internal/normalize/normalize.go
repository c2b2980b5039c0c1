package normalize

import (
	"strings"
	"time"

	"github.com/mvoronova/skillscan/internal/model"
)

// TieBreak selects which record survives when two share an identity key.
type TieBreak string

const (
	// TieBreakFirstSeen keeps the first record encountered (default).
	TieBreakFirstSeen TieBreak = "first_seen"
	// TieBreakMostRecent keeps the record with the latest posting date.
	TieBreakMostRecent TieBreak = "most_recent"
)

// countryByCode maps upstream two-letter codes to the supported markets.
var countryByCode = map[string]model.Country{
	"US": model.CountryUSA,
	"GB": model.CountryUK,
	"CA": model.CountryCanada,
}

// Normalize validates and deduplicates raw records into Postings.
//
// Rules, in order:
//   - posting date must parse as RFC3339; records with a missing or
//     unparseable date are dropped (counted in stats)
//   - country must map to one of USA/UK/Canada; others are dropped (counted)
//   - employment type is normalized to boolean flags; unknown values are
//     counted but the record is kept
//   - records sharing an identity key are collapsed per the tie-break rule
//
// Output order follows input order of the surviving records, so identical
// input always yields identical output.
func Normalize(raw []model.RawPosting, tie TieBreak, stats *model.RunStats) []model.Posting {
	var postings []model.Posting
	index := make(map[string]int) // identity key -> position in postings

	for _, r := range raw {
		p, ok := validate(r, stats)
		if !ok {
			continue
		}

		if at, dup := index[p.ID]; dup {
			stats.DroppedDuplicate++
			if tie == TieBreakMostRecent && p.PostedAt.After(postings[at].PostedAt) {
				postings[at] = p
			}
			continue
		}

		index[p.ID] = len(postings)
		postings = append(postings, p)
	}

	stats.Kept = len(postings)
	return postings
}

func validate(r model.RawPosting, stats *model.RunStats) (model.Posting, bool) {
	postedAt, err := time.Parse(time.RFC3339, r.PostedAt)
	if err != nil {
		stats.DroppedBadDate++
		return model.Posting{}, false
	}

	country, ok := countryByCode[strings.ToUpper(strings.TrimSpace(r.Country))]
	if !ok {
		stats.DroppedCountry++
		return model.Posting{}, false
	}

	location := formatLocation(r.City, r.State)

	p := model.Posting{
		ID:          IdentityKey(r.Title, r.Company, location),
		Title:       r.Title,
		Company:     r.Company,
		Location:    location,
		Country:     country,
		IsRemote:    r.IsRemote,
		Description: r.Description,
		PostedAt:    postedAt,
	}

	switch strings.ToUpper(strings.TrimSpace(r.EmploymentType)) {
	case "FULLTIME", "FULL_TIME", "FULL-TIME":
		p.FullTime = true
	case "PARTTIME", "PART_TIME", "PART-TIME":
		p.PartTime = true
	case "CONTRACTOR", "CONTRACT":
		p.Contractor = true
	case "INTERN", "INTERNSHIP":
		p.Internship = true
	case "":
		// Employment type is optional upstream.
	default:
		stats.InvalidEmployment++
	}

	return p, true
}

// IdentityKey builds the dedup key from the (title, company, location) tuple:
// lowercase, whitespace collapsed, fields joined with "|".
func IdentityKey(title, company, location string) string {
	parts := []string{
		strings.Join(strings.Fields(strings.ToLower(title)), " "),
		strings.Join(strings.Fields(strings.ToLower(company)), " "),
		strings.Join(strings.Fields(strings.ToLower(location)), " "),
	}
	return strings.Join(parts, "|")
}

func formatLocation(city, state string) string {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}
