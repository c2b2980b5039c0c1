// Package skills holds the skill dictionary and the extractor that turns
// cleaned description text into per-skill presence indicators.
package skills

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Category groups related skills for rollup statistics.
type Category string

const (
	CategoryProgramming     Category = "Programming"
	CategoryBITool          Category = "BI Tool"
	CategoryCloudDatabase   Category = "Cloud/Database"
	CategoryStatistics      Category = "Statistics"
	CategoryDataEngineering Category = "Data Engineering"
	CategoryOther           Category = "Other"
)

var knownCategories = map[Category]bool{
	CategoryProgramming:     true,
	CategoryBITool:          true,
	CategoryCloudDatabase:   true,
	CategoryStatistics:      true,
	CategoryDataEngineering: true,
	CategoryOther:           true,
}

// Skill is one dictionary entry: a name, its category, and a compiled pattern.
type Skill struct {
	Name     string
	Category Category
	re       *regexp.Regexp
}

// Dictionary is the immutable skill table, loaded once at startup.
// Skill order is file order and defines the column order of every output.
type Dictionary struct {
	skills []Skill
}

//go:embed skills.yaml
var defaultDictionary []byte

type rawDictionary struct {
	Skills []struct {
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
		Pattern  string `yaml:"pattern"`
	} `yaml:"skills"`
}

// Load reads and validates a skill dictionary. An empty path loads the
// embedded default. Any validation failure is fatal configuration: duplicate
// names, unknown categories and uncompilable patterns are all rejected.
func Load(path string) (*Dictionary, error) {
	data := defaultDictionary
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read skill dictionary: %w", err)
		}
	}

	var raw rawDictionary
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse skill dictionary: %w", err)
	}
	if len(raw.Skills) == 0 {
		return nil, fmt.Errorf("skill dictionary is empty")
	}

	d := &Dictionary{skills: make([]Skill, 0, len(raw.Skills))}
	seen := make(map[string]bool, len(raw.Skills))
	for i, rs := range raw.Skills {
		if rs.Name == "" {
			return nil, fmt.Errorf("skill[%d]: name must not be empty", i)
		}
		if seen[rs.Name] {
			return nil, fmt.Errorf("skill %q: duplicate name", rs.Name)
		}
		seen[rs.Name] = true

		cat := Category(rs.Category)
		if !knownCategories[cat] {
			return nil, fmt.Errorf("skill %q: unknown category %q", rs.Name, rs.Category)
		}

		re, err := regexp.Compile(rs.Pattern)
		if err != nil {
			return nil, fmt.Errorf("skill %q: compile pattern: %w", rs.Name, err)
		}

		d.skills = append(d.skills, Skill{Name: rs.Name, Category: cat, re: re})
	}

	return d, nil
}

// Len returns the number of skills in the dictionary.
func (d *Dictionary) Len() int { return len(d.skills) }

// Names returns skill names in dictionary order.
func (d *Dictionary) Names() []string {
	names := make([]string, len(d.skills))
	for i, s := range d.skills {
		names[i] = s.Name
	}
	return names
}

// Skills returns the entries in dictionary order.
func (d *Dictionary) Skills() []Skill {
	out := make([]Skill, len(d.skills))
	copy(out, d.skills)
	return out
}

// Categories returns the distinct categories in order of first appearance.
func (d *Dictionary) Categories() []Category {
	var cats []Category
	seen := make(map[Category]bool)
	for _, s := range d.skills {
		if !seen[s.Category] {
			seen[s.Category] = true
			cats = append(cats, s.Category)
		}
	}
	return cats
}

// Members returns the indices of the skills belonging to the given category.
func (d *Dictionary) Members(cat Category) []int {
	var idx []int
	for i, s := range d.skills {
		if s.Category == cat {
			idx = append(idx, i)
		}
	}
	return idx
}

// Extract returns one presence indicator per skill, aligned with dictionary
// order. A skill is present if its pattern matches anywhere in the cleaned
// text. Empty text yields all-false, never an error. The result is a pure
// function of the text and the dictionary.
func (d *Dictionary) Extract(text string) []bool {
	present := make([]bool, len(d.skills))
	if text == "" {
		return present
	}
	for i, s := range d.skills {
		present[i] = s.re.MatchString(text)
	}
	return present
}
