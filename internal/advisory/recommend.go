// Package advisory derives improvement recommendations and skill gaps from a
// profile using fixed, ordered rule tables. Every rule is evaluated
// independently; output order is rule order.
package advisory

import "placement-advisor/internal/models"

// Canonical skill tags the rules look for.
const (
	SkillPython          = "Python"
	SkillSQL             = "SQL"
	SkillMachineLearning = "Machine Learning"
	SkillWebDevelopment  = "Web Development"
	SkillCloudComputing  = "Cloud Computing"
)

// Recommendation titles.
const (
	RecAcademicExcellence = "📚 Academic Excellence Program"
	RecBacklogClearance   = "⏰ Backlog Clearance Strategy"
	RecPythonFundamentals = "🐍 Python Programming Fundamentals"
	RecDatabaseSQL        = "🗄️ Database Management with SQL"
	RecMachineLearning    = "🤖 Machine Learning Basics"
	RecInternshipPrep     = "💼 Internship Preparation Workshop"
	RecCommunication      = "🎤 Communication Skills Mastery"
	RecAptitude           = "🧠 Quantitative Aptitude Training"
	RecDataStructures     = "⚡ Data Structures & Algorithms"
	RecCloudPractitioner  = "☁️ AWS Cloud Practitioner"
	RecAdvancedFullStack  = "🌐 Advanced Full Stack Development"
)

type recommendationRule struct {
	title string
	match func(p *models.Profile, skills map[string]struct{}, prob float64) bool
}

var recommendationRules = []recommendationRule{
	{RecAcademicExcellence, func(p *models.Profile, _ map[string]struct{}, _ float64) bool {
		return p.CGPA < 7.5
	}},
	{RecBacklogClearance, func(p *models.Profile, _ map[string]struct{}, _ float64) bool {
		return p.Backlogs > 0
	}},
	{RecPythonFundamentals, func(_ *models.Profile, s map[string]struct{}, prob float64) bool {
		return !has(s, SkillPython) && prob > 0.3
	}},
	{RecDatabaseSQL, func(_ *models.Profile, s map[string]struct{}, _ float64) bool {
		return !has(s, SkillSQL)
	}},
	{RecMachineLearning, func(_ *models.Profile, s map[string]struct{}, prob float64) bool {
		return !has(s, SkillMachineLearning) && prob > 0.6
	}},
	{RecInternshipPrep, func(p *models.Profile, _ map[string]struct{}, _ float64) bool {
		return p.Internships == 0
	}},
	{RecCommunication, func(p *models.Profile, _ map[string]struct{}, _ float64) bool {
		return p.CommunicationSkills < 7
	}},
	{RecAptitude, func(p *models.Profile, _ map[string]struct{}, _ float64) bool {
		return p.AptitudeScore < 70
	}},
	{RecDataStructures, func(p *models.Profile, _ map[string]struct{}, _ float64) bool {
		return p.CodingScore < 70
	}},
	{RecCloudPractitioner, func(_ *models.Profile, s map[string]struct{}, prob float64) bool {
		return prob > 0.7 && has(s, SkillCloudComputing)
	}},
	{RecAdvancedFullStack, func(_ *models.Profile, s map[string]struct{}, prob float64) bool {
		return prob > 0.7 && has(s, SkillWebDevelopment)
	}},
}

// Recommend returns the titles of every recommendation rule the profile
// triggers at the given placement probability.
func Recommend(p *models.Profile, prob float64) []string {
	skills := p.SkillSet()
	out := make([]string, 0, len(recommendationRules))
	for _, r := range recommendationRules {
		if r.match(p, skills, prob) {
			out = append(out, r.title)
		}
	}
	return out
}

func has(skills map[string]struct{}, name string) bool {
	_, ok := skills[name]
	return ok
}
