package advisory

import (
	"sort"

	"placement-advisor/internal/models"
)

// Skill tags outside the recommendation rules that still count toward role fit.
const (
	SkillJava        = "Java"
	SkillDataScience = "Data Science"
	SkillJavaScript  = "JavaScript"
	SkillReact       = "React"
)

// taggedProficiency is credited for a role skill the profile lists as a tag.
const taggedProficiency = 70

// roleSkillTags maps role skill names to the profile tag that evidences them.
var roleSkillTags = map[string]string{
	"Python Programming":    SkillPython,
	"Java Programming":      SkillJava,
	"JavaScript/TypeScript": SkillJavaScript,
	"React.js":              SkillReact,
	"SQL & Databases":       SkillSQL,
	"Machine Learning":      SkillMachineLearning,
	"Cloud Computing":       SkillCloudComputing,
	"Web Development":       SkillWebDevelopment,
	"Data Science":          SkillDataScience,
}

// Roles returns every career role in catalog order.
func (c *Catalog) Roles() []models.CareerRole {
	return append([]models.CareerRole(nil), c.roles...)
}

// Role looks a role up by id.
func (c *Catalog) Role(id string) (models.CareerRole, bool) {
	i, ok := c.roleByID[id]
	if !ok {
		return models.CareerRole{}, false
	}
	return c.roles[i], true
}

// RolesByDemand orders roles by job market demand, highest first. Ties keep
// catalog order.
func (c *Catalog) RolesByDemand() []models.CareerRole {
	return c.sortedRoles(func(r models.CareerRole) int { return r.JobMarketDemand })
}

// RolesByGrowth orders roles by growth potential, highest first. Ties keep
// catalog order.
func (c *Catalog) RolesByGrowth() []models.CareerRole {
	return c.sortedRoles(func(r models.CareerRole) int { return r.GrowthPotential })
}

func (c *Catalog) sortedRoles(key func(models.CareerRole) int) []models.CareerRole {
	out := c.Roles()
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })
	return out
}

// FitRole scores the profile against every requirement of the role.
func FitRole(role models.CareerRole, p *models.Profile) *models.RoleFit {
	skills := p.SkillSet()
	fit := &models.RoleFit{
		RoleID: role.ID,
		Title:  role.Title,
		Skills: make([]models.SkillFit, 0, len(role.RequiredSkills)),
	}
	for _, req := range role.RequiredSkills {
		fit.Skills = append(fit.Skills, models.SkillFit{
			SkillRequirement: req,
			Proficiency:      SkillProficiency(req.Skill, p, skills),
		})
	}
	return fit
}

// SkillProficiency estimates a 0-100 proficiency for a role skill. Tagged
// skills score a flat 70; problem solving and communication scale the
// self-rating. Anything else scores 0.
func SkillProficiency(skill string, p *models.Profile, tags map[string]struct{}) int {
	switch skill {
	case "Problem Solving":
		return p.ProblemSolving * 10
	case "Communication Skills":
		return p.CommunicationSkills * 10
	}
	if tag, ok := roleSkillTags[skill]; ok && has(tags, tag) {
		return taggedProficiency
	}
	return 0
}
