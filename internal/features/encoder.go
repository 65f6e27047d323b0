// Package features turns a student profile into the ordered numeric vector
// consumed by the placement and salary models.
package features

import (
	"fmt"
	"strings"

	"placement-advisor/internal/models"
)

// Feature names produced by the encoder. They match the column vocabulary of
// the model artifacts.
const (
	CGPA                     = "cgpa"
	Backlogs                 = "backlogs"
	CurrentBacklogs          = "current_backlogs"
	CollegeTier              = "college_tier"
	Internships              = "internships"
	InternshipDurationMonths = "internship_duration_months"
	AcademicProjects         = "academic_projects"
	ResearchPapers           = "research_papers"
	GithubProjects           = "github_projects"
	CommunicationSkills      = "communication_skills"
	ProblemSolving           = "problem_solving"
	Teamwork                 = "teamwork"
	Leadership               = "leadership"
	TimeManagement           = "time_management"
	AptitudeScore            = "aptitude_score"
	CodingTestScore          = "coding_test_score"
	CertificationsCount      = "certifications_count"
	HackathonsWon            = "hackathons_won"
	Extracurricular          = "extracurricular_activities"
)

// DefaultFallbackCode is used for categorical values the label table has never seen.
const DefaultFallbackCode = 0

// SkillFeature binds a canonical skill tag to its binary indicator column.
type SkillFeature struct {
	Feature string
	Skill   string
}

// SkillVocabulary is the fixed technical-skill vocabulary, in encoding order.
var SkillVocabulary = []SkillFeature{
	{Feature: "python", Skill: "Python"},
	{Feature: "java", Skill: "Java"},
	{Feature: "sql", Skill: "SQL"},
	{Feature: "machine_learning", Skill: "Machine Learning"},
	{Feature: "web_development", Skill: "Web Development"},
	{Feature: "cloud_computing", Skill: "Cloud Computing"},
	{Feature: "data_science", Skill: "Data Science"},
}

// LabelTable maps a categorical column to its value -> code table.
type LabelTable map[string]map[string]int

// Lookup returns the code for value in column.
func (t LabelTable) Lookup(column, value string) (int, bool) {
	codes, ok := t[column]
	if !ok {
		return 0, false
	}
	code, ok := codes[value]
	return code, ok
}

// MissingFeatureError reports required columns the encoder does not produce.
// It signals drift between the encoder and the model artifacts.
type MissingFeatureError struct {
	Missing []string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing expected features: [%s]", strings.Join(e.Missing, ", "))
}

// FeatureVector is the ordered encoding of one profile.
type FeatureVector struct {
	Names  []string
	Values []float64

	// Fallbacks lists categorical columns that were encoded with the fallback code.
	Fallbacks []string
}

// Len returns the number of features.
func (v *FeatureVector) Len() int {
	return len(v.Values)
}

// Get returns the value of a named feature.
func (v *FeatureVector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Map returns the vector as a name -> value mapping.
func (v *FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.Names))
	for i, n := range v.Names {
		out[n] = v.Values[i]
	}
	return out
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithFallbackCode sets the code substituted for unseen categorical values.
func WithFallbackCode(code int) Option {
	return func(e *Encoder) {
		e.fallbackCode = code
	}
}

// Encoder is safe for concurrent use; it holds only read-only state.
type Encoder struct {
	labels       LabelTable
	columns      []string
	fallbackCode int
}

func NewEncoder(labels LabelTable, columns []string, opts ...Option) *Encoder {
	e := &Encoder{
		labels:       labels,
		columns:      append([]string(nil), columns...),
		fallbackCode: DefaultFallbackCode,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Columns returns a copy of the required feature order.
func (e *Encoder) Columns() []string {
	return append([]string(nil), e.columns...)
}

// FallbackCode returns the configured unseen-label code.
func (e *Encoder) FallbackCode() int {
	return e.fallbackCode
}

// Fallbacks lists the categorical columns of p that would encode with the
// fallback code, without computing the vector.
func (e *Encoder) Fallbacks(p *models.Profile) []string {
	if _, ok := e.labels.Lookup(CollegeTier, p.CollegeTier); !ok {
		return []string{CollegeTier}
	}
	return nil
}

// Encode computes the full feature set for p and reorders it to the required
// column list. It returns *MissingFeatureError when a required column is not computed.
func (e *Encoder) Encode(p *models.Profile) (*FeatureVector, error) {
	computed, fallbacks := e.compute(p)

	var missing []string
	values := make([]float64, 0, len(e.columns))
	for _, col := range e.columns {
		v, ok := computed[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		values = append(values, v)
	}
	if len(missing) > 0 {
		return nil, &MissingFeatureError{Missing: missing}
	}

	return &FeatureVector{
		Names:     e.Columns(),
		Values:    values,
		Fallbacks: fallbacks,
	}, nil
}

func (e *Encoder) compute(p *models.Profile) (map[string]float64, []string) {
	f := make(map[string]float64, 26)
	var fallbacks []string

	// Academic
	f[CGPA] = p.CGPA
	f[Backlogs] = float64(p.Backlogs)
	f[CurrentBacklogs] = float64(p.CurrentBacklogs)

	tier, ok := e.labels.Lookup(CollegeTier, p.CollegeTier)
	if !ok {
		tier = e.fallbackCode
		fallbacks = append(fallbacks, CollegeTier)
	}
	f[CollegeTier] = float64(tier)

	// Experience
	f[Internships] = float64(p.Internships)
	f[InternshipDurationMonths] = float64(p.Internships * 2)
	f[AcademicProjects] = float64(p.Projects)
	f[ResearchPapers] = float64(researchPapers(p.Projects))
	f[GithubProjects] = float64(p.Projects)

	skills := p.SkillSet()
	for _, sf := range SkillVocabulary {
		if _, ok := skills[sf.Skill]; ok {
			f[sf.Feature] = 1
		} else {
			f[sf.Feature] = 0
		}
	}

	// Soft skills
	f[CommunicationSkills] = float64(p.CommunicationSkills)
	f[ProblemSolving] = float64(p.ProblemSolving)
	f[Teamwork] = float64(p.Teamwork)
	f[Leadership] = float64(p.Leadership)
	f[TimeManagement] = float64(p.TimeManagement)

	// Tests
	f[AptitudeScore] = float64(p.AptitudeScore)
	f[CodingTestScore] = float64(p.CodingScore)

	// Activities
	f[CertificationsCount] = float64(p.Certifications)
	f[HackathonsWon] = float64(p.HackathonsWon)
	f[Extracurricular] = float64(p.Extracurricular)

	return f, fallbacks
}

// researchPapers estimates published papers as one per three projects, capped at two.
func researchPapers(projects int) int {
	return min(projects/3, 2)
}

// ComputedFeatures lists every feature name the encoder produces, in a stable order.
func ComputedFeatures() []string {
	names := []string{
		CGPA, Backlogs, CurrentBacklogs, CollegeTier,
		Internships, InternshipDurationMonths, AcademicProjects, ResearchPapers, GithubProjects,
	}
	for _, sf := range SkillVocabulary {
		names = append(names, sf.Feature)
	}
	return append(names,
		CommunicationSkills, ProblemSolving, Teamwork, Leadership, TimeManagement,
		AptitudeScore, CodingTestScore,
		CertificationsCount, HackathonsWon, Extracurricular,
	)
}
