// Package pipeline runs the annotation stages over normalized postings:
// text preprocessing, skill extraction and experience classification.
package pipeline

import (
	"github.com/mvoronova/skillscan/internal/experience"
	"github.com/mvoronova/skillscan/internal/model"
	"github.com/mvoronova/skillscan/internal/skills"
	"github.com/mvoronova/skillscan/internal/textclean"
)

// Annotate rewrites each posting's description through the text preprocessor,
// extracts per-skill indicators against the dictionary, and classifies the
// experience group from the title. Input order is preserved; the result is a
// pure function of the postings and the dictionary.
func Annotate(postings []model.Posting, dict *skills.Dictionary) []model.AnnotatedPosting {
	annotated := make([]model.AnnotatedPosting, 0, len(postings))
	for _, p := range postings {
		p.Description = textclean.Clean(p.Description)
		p.Experience = experience.Classify(p.Title)

		present := dict.Extract(p.Description)
		count := 0
		for _, ok := range present {
			if ok {
				count++
			}
		}

		annotated = append(annotated, model.AnnotatedPosting{
			Posting:     p,
			Skills:      present,
			SkillsCount: count,
		})
	}
	return annotated
}
