// Package aggregate computes the summary statistics over the annotated
// dataset. Everything is recomputed from scratch on each run; all shares are
// fractions in [0,1] and every denominator is the cleaned, deduplicated
// posting count, never the raw fetch count.
package aggregate

import (
	"math"
	"sort"

	"github.com/mvoronova/skillscan/internal/model"
	"github.com/mvoronova/skillscan/internal/skills"
)

// SkillStat is one skill's overall prevalence.
type SkillStat struct {
	Skill    string
	Category skills.Category
	Count    int
	Share    float64
}

// SkillCountryStat is one (skill, country) cell of the heatmap table.
type SkillCountryStat struct {
	Skill   string
	Country model.Country
	Count   int
	Share   float64 // of that country's postings
}

// SkillExperienceStat is one (skill, experience group) cell.
type SkillExperienceStat struct {
	Skill string
	Group model.ExperienceGroup
	Count int
	Share float64 // of that group's postings
}

// GapStat compares a skill's prevalence between experience groups.
type GapStat struct {
	Skill        string
	JuniorShare  float64
	MidPlusShare float64
	Gap          float64 // mid_plus − junior
}

// CategoryStat is the share of postings mentioning at least one skill in the
// category.
type CategoryStat struct {
	Category skills.Category
	Count    int
	Share    float64
}

// CategoryExperienceStat is a category rollup within one experience group.
type CategoryExperienceStat struct {
	Group    model.ExperienceGroup
	Category skills.Category
	Count    int
	Share    float64
}

// CountryStat is the posting count per country.
type CountryStat struct {
	Country model.Country
	Count   int
	Share   float64
}

// ExperienceStat is the posting count per experience group.
type ExperienceStat struct {
	Group model.ExperienceGroup
	Count int
	Share float64
}

// RemoteStat splits postings into remote and on-site.
type RemoteStat struct {
	IsRemote bool
	Count    int
	Share    float64
}

// CountBucket is one bar of the skills-per-posting histogram.
type CountBucket struct {
	SkillsCount int
	Count       int
	Share       float64
}

// CountSummary describes the skills-per-posting distribution within a group.
type CountSummary struct {
	Group  model.ExperienceGroup
	Count  int
	Mean   float64
	Median float64
	Min    int
	Max    int
}

// Report is the full derived summary for one run.
type Report struct {
	TotalPostings       int
	AvgSkillsPerPosting float64

	TopSkills              []SkillStat
	SkillsByCountry        []SkillCountryStat
	SkillsByExperience     []SkillExperienceStat
	SkillsGap              []GapStat
	Categories             []CategoryStat
	CategoriesByExperience []CategoryExperienceStat
	Countries              []CountryStat
	Experience             []ExperienceStat
	Remote                 []RemoteStat
	SkillsCountDist        []CountBucket
	SkillsCountByExp       []CountSummary
}

var allCountries = []model.Country{model.CountryUSA, model.CountryUK, model.CountryCanada}

var allGroups = []model.ExperienceGroup{model.ExperienceJunior, model.ExperienceMidPlus}

// Build computes the full report. Ordering is deterministic: count-sorted
// tables break ties by name, fixed enumerations keep their declared order.
func Build(annotated []model.AnnotatedPosting, dict *skills.Dictionary) *Report {
	r := &Report{TotalPostings: len(annotated)}
	n := len(annotated)
	if n == 0 {
		return r
	}

	names := dict.Names()
	entries := dict.Skills()

	// Per-skill counts overall, by country, by group.
	skillTotal := make([]int, len(names))
	skillByCountry := make(map[model.Country][]int)
	skillByGroup := make(map[model.ExperienceGroup][]int)
	for _, c := range allCountries {
		skillByCountry[c] = make([]int, len(names))
	}
	for _, g := range allGroups {
		skillByGroup[g] = make([]int, len(names))
	}

	countryTotal := make(map[model.Country]int)
	groupTotal := make(map[model.ExperienceGroup]int)
	remoteTotal := 0
	skillsSum := 0
	distCounts := make(map[int]int)
	countsByGroup := make(map[model.ExperienceGroup][]int)

	for _, a := range annotated {
		countryTotal[a.Country]++
		groupTotal[a.Experience]++
		if a.IsRemote {
			remoteTotal++
		}
		skillsSum += a.SkillsCount
		distCounts[a.SkillsCount]++
		countsByGroup[a.Experience] = append(countsByGroup[a.Experience], a.SkillsCount)

		for i, present := range a.Skills {
			if !present {
				continue
			}
			skillTotal[i]++
			skillByCountry[a.Country][i]++
			skillByGroup[a.Experience][i]++
		}
	}

	r.AvgSkillsPerPosting = float64(skillsSum) / float64(n)

	// 1. Top skills, sorted by count descending, name ascending on ties.
	for i, name := range names {
		r.TopSkills = append(r.TopSkills, SkillStat{
			Skill:    name,
			Category: entries[i].Category,
			Count:    skillTotal[i],
			Share:    float64(skillTotal[i]) / float64(n),
		})
	}
	sort.SliceStable(r.TopSkills, func(i, j int) bool {
		if r.TopSkills[i].Count != r.TopSkills[j].Count {
			return r.TopSkills[i].Count > r.TopSkills[j].Count
		}
		return r.TopSkills[i].Skill < r.TopSkills[j].Skill
	})

	// 2. Skills by country, long format, dictionary order × fixed country order.
	for i, name := range names {
		for _, c := range allCountries {
			count := skillByCountry[c][i]
			share := 0.0
			if countryTotal[c] > 0 {
				share = float64(count) / float64(countryTotal[c])
			}
			r.SkillsByCountry = append(r.SkillsByCountry, SkillCountryStat{
				Skill: name, Country: c, Count: count, Share: share,
			})
		}
	}

	// 3. Skills by experience group, and 4. the junior-vs-mid+ gap.
	for i, name := range names {
		var shares [2]float64
		for gi, g := range allGroups {
			count := skillByGroup[g][i]
			share := 0.0
			if groupTotal[g] > 0 {
				share = float64(count) / float64(groupTotal[g])
			}
			shares[gi] = share
			r.SkillsByExperience = append(r.SkillsByExperience, SkillExperienceStat{
				Skill: name, Group: g, Count: count, Share: share,
			})
		}
		r.SkillsGap = append(r.SkillsGap, GapStat{
			Skill:        name,
			JuniorShare:  shares[0],
			MidPlusShare: shares[1],
			Gap:          shares[1] - shares[0],
		})
	}
	sort.SliceStable(r.SkillsGap, func(i, j int) bool {
		gi, gj := math.Abs(r.SkillsGap[i].Gap), math.Abs(r.SkillsGap[j].Gap)
		if gi != gj {
			return gi > gj
		}
		return r.SkillsGap[i].Skill < r.SkillsGap[j].Skill
	})

	// 5. Category rollups: a posting counts once per category if any member
	// skill is present (OR over members).
	for _, cat := range dict.Categories() {
		members := dict.Members(cat)
		count := 0
		groupCount := make(map[model.ExperienceGroup]int)
		for _, a := range annotated {
			for _, mi := range members {
				if a.Skills[mi] {
					count++
					groupCount[a.Experience]++
					break
				}
			}
		}
		r.Categories = append(r.Categories, CategoryStat{
			Category: cat,
			Count:    count,
			Share:    float64(count) / float64(n),
		})
		for _, g := range allGroups {
			share := 0.0
			if groupTotal[g] > 0 {
				share = float64(groupCount[g]) / float64(groupTotal[g])
			}
			r.CategoriesByExperience = append(r.CategoriesByExperience, CategoryExperienceStat{
				Group: g, Category: cat, Count: groupCount[g], Share: share,
			})
		}
	}
	sort.SliceStable(r.Categories, func(i, j int) bool {
		if r.Categories[i].Count != r.Categories[j].Count {
			return r.Categories[i].Count > r.Categories[j].Count
		}
		return r.Categories[i].Category < r.Categories[j].Category
	})

	// 6-8. Country, experience and remote distributions.
	for _, c := range allCountries {
		if countryTotal[c] == 0 {
			continue
		}
		r.Countries = append(r.Countries, CountryStat{
			Country: c,
			Count:   countryTotal[c],
			Share:   float64(countryTotal[c]) / float64(n),
		})
	}
	sort.SliceStable(r.Countries, func(i, j int) bool {
		if r.Countries[i].Count != r.Countries[j].Count {
			return r.Countries[i].Count > r.Countries[j].Count
		}
		return r.Countries[i].Country < r.Countries[j].Country
	})

	for _, g := range allGroups {
		r.Experience = append(r.Experience, ExperienceStat{
			Group: g,
			Count: groupTotal[g],
			Share: float64(groupTotal[g]) / float64(n),
		})
	}

	r.Remote = []RemoteStat{
		{IsRemote: true, Count: remoteTotal, Share: float64(remoteTotal) / float64(n)},
		{IsRemote: false, Count: n - remoteTotal, Share: float64(n-remoteTotal) / float64(n)},
	}

	// 9. Skills-per-posting histogram, sorted by bucket value.
	buckets := make([]int, 0, len(distCounts))
	for k := range distCounts {
		buckets = append(buckets, k)
	}
	sort.Ints(buckets)
	for _, k := range buckets {
		r.SkillsCountDist = append(r.SkillsCountDist, CountBucket{
			SkillsCount: k,
			Count:       distCounts[k],
			Share:       float64(distCounts[k]) / float64(n),
		})
	}

	// 10. Skills-per-posting summary per experience group.
	for _, g := range allGroups {
		counts := countsByGroup[g]
		if len(counts) == 0 {
			continue
		}
		r.SkillsCountByExp = append(r.SkillsCountByExp, summarize(g, counts))
	}

	return r
}

func summarize(g model.ExperienceGroup, counts []int) CountSummary {
	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Ints(sorted)

	sum := 0
	for _, c := range sorted {
		sum += c
	}

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	} else {
		median = float64(sorted[mid])
	}

	return CountSummary{
		Group:  g,
		Count:  len(sorted),
		Mean:   float64(sum) / float64(len(sorted)),
		Median: median,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}
