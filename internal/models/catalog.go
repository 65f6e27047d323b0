// internal/models/catalog.go
package models

// Course is one external learning resource.
type Course struct {
	Name     string `json:"name" yaml:"name"`
	Provider string `json:"provider" yaml:"provider"`
	Link     string `json:"link" yaml:"link"`
	Category string `json:"category" yaml:"category"`
	Level    string `json:"level" yaml:"level"`
}

// CourseTrack groups the courses behind one learning track, e.g. "SQL & Databases".
type CourseTrack struct {
	Name    string   `json:"name" yaml:"name"`
	Courses []Course `json:"courses" yaml:"courses"`
}

// SalaryRange is an annual range in rupees.
type SalaryRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// SkillRequirement is one skill a career role asks for.
type SkillRequirement struct {
	Skill      string `json:"skill" yaml:"skill"`
	Level      string `json:"level" yaml:"level"`
	Importance string `json:"importance" yaml:"importance"`
}

// CareerRole describes a target job with its skill requirements.
// Demand and growth are on a 1-10 scale.
type CareerRole struct {
	ID                    string             `json:"id" yaml:"id"`
	Title                 string             `json:"title" yaml:"title"`
	Description           string             `json:"description" yaml:"description"`
	SalaryRange           SalaryRange        `json:"salary_range" yaml:"salary_range"`
	RequiredSkills        []SkillRequirement `json:"required_skills" yaml:"required_skills"`
	ExperienceYears       int                `json:"experience_years_required" yaml:"experience_years_required"`
	CareerProgression     []string           `json:"career_progression" yaml:"career_progression"`
	Companies             []string           `json:"companies" yaml:"companies"`
	JobMarketDemand       int                `json:"job_market_demand" yaml:"job_market_demand"`
	GrowthPotential       int                `json:"growth_potential" yaml:"growth_potential"`
	CourseRecommendations []string           `json:"course_recommendations" yaml:"course_recommendations"`
}

// SkillFit is a profile's proficiency (0-100) against one role requirement.
type SkillFit struct {
	SkillRequirement
	Proficiency int `json:"proficiency"`
}

// RoleFit lists a profile's proficiency for every requirement of a role.
type RoleFit struct {
	RoleID string     `json:"role_id"`
	Title  string     `json:"title"`
	Skills []SkillFit `json:"skills"`
}
