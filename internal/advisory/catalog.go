package advisory

import (
	_ "embed"
	"fmt"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"placement-advisor/internal/models"
)

//go:embed catalog/courses.yaml
var coursesYAML []byte

//go:embed catalog/roles.yaml
var rolesYAML []byte

// Course levels and skill importances accepted in the catalog files.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"

	ImportanceCritical   = "critical"
	ImportanceImportant  = "important"
	ImportanceNiceToHave = "nice-to-have"
)

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
	defaultCatalogErr  error
)

// Catalog holds the learning tracks and career roles. It is immutable once loaded.
type Catalog struct {
	tracks    []models.CourseTrack
	trackByID map[string]int
	roles     []models.CareerRole
	roleByID  map[string]int
}

type coursesFile struct {
	Tracks []models.CourseTrack `yaml:"tracks"`
}

type rolesFile struct {
	Roles []models.CareerRole `yaml:"roles"`
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = LoadCatalog(coursesYAML, rolesYAML)
	})
	return defaultCatalog, defaultCatalogErr
}

// LoadCatalog parses and validates YAML course and role documents.
func LoadCatalog(courses, roles []byte) (*Catalog, error) {
	var cf coursesFile
	if err := yaml.Unmarshal(courses, &cf); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	var rf rolesFile
	if err := yaml.Unmarshal(roles, &rf); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	c := &Catalog{
		tracks:    cf.Tracks,
		trackByID: make(map[string]int, len(cf.Tracks)),
		roles:     rf.Roles,
		roleByID:  make(map[string]int, len(rf.Roles)),
	}

	for i := range c.tracks {
		t := &c.tracks[i]
		if err := validateTrack(t); err != nil {
			return nil, fmt.Errorf("track %q: %w", t.Name, err)
		}
		if _, dup := c.trackByID[t.Name]; dup {
			return nil, fmt.Errorf("duplicate track %q", t.Name)
		}
		c.trackByID[t.Name] = i
	}

	for i := range c.roles {
		r := &c.roles[i]
		if err := validateRole(r); err != nil {
			return nil, fmt.Errorf("role %q: %w", r.ID, err)
		}
		if _, dup := c.roleByID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate role %q", r.ID)
		}
		c.roleByID[r.ID] = i
	}

	return c, nil
}

func validateTrack(t *models.CourseTrack) error {
	if err := validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.Courses, validation.Required),
	); err != nil {
		return err
	}
	for i := range t.Courses {
		course := &t.Courses[i]
		if err := validation.ValidateStruct(course,
			validation.Field(&course.Name, validation.Required),
			validation.Field(&course.Link, validation.Required),
			validation.Field(&course.Category, validation.Required),
			validation.Field(&course.Level, validation.Required, validation.In(LevelBeginner, LevelIntermediate, LevelAdvanced)),
		); err != nil {
			return fmt.Errorf("course %q: %w", course.Name, err)
		}
	}
	return nil
}

func validateRole(r *models.CareerRole) error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.RequiredSkills, validation.Required),
		validation.Field(&r.JobMarketDemand, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&r.GrowthPotential, validation.Required, validation.Min(1), validation.Max(10)),
	); err != nil {
		return err
	}
	if r.SalaryRange.Min > r.SalaryRange.Max {
		return fmt.Errorf("salary_range: min %d exceeds max %d", r.SalaryRange.Min, r.SalaryRange.Max)
	}
	for i := range r.RequiredSkills {
		req := &r.RequiredSkills[i]
		if err := validation.ValidateStruct(req,
			validation.Field(&req.Skill, validation.Required),
			validation.Field(&req.Level, validation.Required, validation.In(LevelBeginner, LevelIntermediate, LevelAdvanced)),
			validation.Field(&req.Importance, validation.Required, validation.In(ImportanceCritical, ImportanceImportant, ImportanceNiceToHave)),
		); err != nil {
			return fmt.Errorf("skill %q: %w", req.Skill, err)
		}
	}
	return nil
}
