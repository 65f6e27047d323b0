package advisory

import (
	"fmt"

	"placement-advisor/internal/models"
)

// Gap messages that do not depend on a skill name.
const (
	GapNoInternship     = "No internship experience"
	GapThinPortfolio    = "Insufficient project portfolio"
	GapLowCGPA          = "CGPA below competitive threshold"
	GapMultipleBacklogs = "Multiple backlogs affecting prospects"
	GapCommunication    = "Communication skills need improvement"
)

// CoreSkills are checked first, in this order.
var CoreSkills = []string{SkillPython, SkillSQL, SkillWebDevelopment}

// MissingSkillGap formats the gap message for an absent core skill.
func MissingSkillGap(skill string) string {
	return fmt.Sprintf("Missing %s skills", skill)
}

type gapRule struct {
	message string
	match   func(p *models.Profile) bool
}

var gapRules = []gapRule{
	{GapNoInternship, func(p *models.Profile) bool { return p.Internships == 0 }},
	{GapThinPortfolio, func(p *models.Profile) bool { return p.Projects < 3 }},
	{GapLowCGPA, func(p *models.Profile) bool { return p.CGPA < 7.0 }},
	{GapMultipleBacklogs, func(p *models.Profile) bool { return p.Backlogs > 2 }},
	{GapCommunication, func(p *models.Profile) bool { return p.CommunicationSkills < 6 }},
}

// AnalyzeGaps lists skill and experience gaps. It does not consider the
// placement probability.
func AnalyzeGaps(p *models.Profile) []string {
	skills := p.SkillSet()
	out := make([]string, 0, len(CoreSkills)+len(gapRules))
	for _, s := range CoreSkills {
		if !has(skills, s) {
			out = append(out, MissingSkillGap(s))
		}
	}
	for _, r := range gapRules {
		if r.match(p) {
			out = append(out, r.message)
		}
	}
	return out
}
