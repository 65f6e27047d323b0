// internal/models/profile.go
package models

import "strings"

// Profile is one student's academic, experience and skill record.
// Bounds are enforced by the boundary layer before a Profile reaches the encoder.
type Profile struct {
	CGPA            float64 `json:"cgpa" yaml:"cgpa"`
	CollegeTier     string  `json:"college_tier" yaml:"college_tier"`
	Backlogs        int     `json:"backlogs" yaml:"backlogs"`
	CurrentBacklogs int     `json:"current_backlogs" yaml:"current_backlogs"`
	Internships     int     `json:"internships" yaml:"internships"`
	Projects        int     `json:"projects" yaml:"projects"`
	Certifications  int     `json:"certifications" yaml:"certifications"`
	HackathonsWon   int     `json:"hackathons_won" yaml:"hackathons_won"`
	Extracurricular int     `json:"extracurricular" yaml:"extracurricular"`

	Skills []string `json:"skills" yaml:"skills"`

	CommunicationSkills int `json:"communication_skills" yaml:"communication_skills"`
	ProblemSolving      int `json:"problem_solving" yaml:"problem_solving"`
	Teamwork            int `json:"teamwork" yaml:"teamwork"`
	Leadership          int `json:"leadership" yaml:"leadership"`
	TimeManagement      int `json:"time_management" yaml:"time_management"`

	AptitudeScore int `json:"aptitude_score" yaml:"aptitude_score"`
	CodingScore   int `json:"coding_score" yaml:"coding_score"`
}

// SkillSet returns the trimmed, deduplicated skill tags. Matching is case-sensitive.
func (p *Profile) SkillSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

// HasSkill reports whether the canonical skill name is present.
func (p *Profile) HasSkill(name string) bool {
	_, ok := p.SkillSet()[name]
	return ok
}
