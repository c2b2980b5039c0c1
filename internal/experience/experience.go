// Package experience derives the coarse seniority bucket from a job title.
package experience

import (
	"regexp"

	"github.com/mvoronova/skillscan/internal/model"
)

// juniorRE matches junior-indicator keywords as whole words only, so a token
// like "conjuniorship" never triggers a junior label.
var juniorRE = regexp.MustCompile(`(?i)\b(junior|jr|entry[\s-]?level|entry|graduate|trainee|intern|internship|associate)\b`)

// Classify assigns an experience group from the job title. Total and
// deterministic: every title maps to exactly one group, defaulting to
// mid_plus when no junior keyword matches.
func Classify(title string) model.ExperienceGroup {
	if juniorRE.MatchString(title) {
		return model.ExperienceJunior
	}
	return model.ExperienceMidPlus
}
