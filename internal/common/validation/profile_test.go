package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-advisor/internal/models"
)

func createValidProfileMap() map[string]interface{} {
	return map[string]interface{}{
		"cgpa":                 7.8,
		"college_tier":         "Tier 2",
		"backlogs":             0,
		"current_backlogs":     0,
		"internships":          1,
		"projects":             4,
		"certifications":       2,
		"hackathons_won":       0,
		"extracurricular":      3,
		"skills":               []string{"Python", "SQL"},
		"communication_skills": 7,
		"problem_solving":      8,
		"teamwork":             7,
		"leadership":           6,
		"time_management":      7,
		"aptitude_score":       72,
		"coding_score":         68,
	}
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestValidateProfileJSON_Valid(t *testing.T) {
	p, err := ValidateProfileJSON(mustMarshal(t, createValidProfileMap()))
	require.NoError(t, err)

	assert.Equal(t, 7.8, p.CGPA)
	assert.Equal(t, "Tier 2", p.CollegeTier)
	assert.Equal(t, []string{"Python", "SQL"}, p.Skills)
	assert.Equal(t, 68, p.CodingScore)
}

func TestValidateProfileJSON_ExtraFieldsIgnored(t *testing.T) {
	m := createValidProfileMap()
	m["nickname"] = "ace"

	_, err := ValidateProfileJSON(mustMarshal(t, m))
	assert.NoError(t, err)
}

func TestValidateProfileJSON_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]interface{})
		field  string
	}{
		{name: "cgpa above 10", mutate: func(m map[string]interface{}) { m["cgpa"] = 10.5 }, field: "cgpa"},
		{name: "negative backlogs", mutate: func(m map[string]interface{}) { m["backlogs"] = -1 }, field: "backlogs"},
		{name: "rating below 1", mutate: func(m map[string]interface{}) { m["teamwork"] = 0 }, field: "teamwork"},
		{name: "rating above 10", mutate: func(m map[string]interface{}) { m["leadership"] = 11 }, field: "leadership"},
		{name: "score above 100", mutate: func(m map[string]interface{}) { m["aptitude_score"] = 101 }, field: "aptitude_score"},
		{name: "internships above bound", mutate: func(m map[string]interface{}) { m["internships"] = 1 << 62 }, field: "internships"},
		{name: "projects above bound", mutate: func(m map[string]interface{}) { m["projects"] = 501 }, field: "projects"},
		{name: "backlogs above bound", mutate: func(m map[string]interface{}) { m["current_backlogs"] = 101 }, field: "current_backlogs"},
		{name: "hackathons above bound", mutate: func(m map[string]interface{}) { m["hackathons_won"] = 201 }, field: "hackathons_won"},
		{name: "fractional integer", mutate: func(m map[string]interface{}) { m["projects"] = 2.5 }, field: "projects"},
		{name: "skills not strings", mutate: func(m map[string]interface{}) { m["skills"] = []int{1} }, field: "skills"},
		{name: "tier not a string", mutate: func(m map[string]interface{}) { m["college_tier"] = 2 }, field: "college_tier"},
		{name: "missing coding score", mutate: func(m map[string]interface{}) { delete(m, "coding_score") }, field: "coding_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := createValidProfileMap()
			tt.mutate(m)

			p, err := ValidateProfileJSON(mustMarshal(t, m))
			assert.Nil(t, p)

			var verr *Error
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Errors)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateProfileJSON_CountUpperBounds(t *testing.T) {
	m := createValidProfileMap()
	m["backlogs"] = 100
	m["internships"] = 50
	m["projects"] = 500
	m["certifications"] = 200
	m["hackathons_won"] = 200
	m["extracurricular"] = 100

	p, err := ValidateProfileJSON(mustMarshal(t, m))
	require.NoError(t, err)
	assert.Equal(t, 50, p.Internships)
}

func TestValidateProfileJSON_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{not json"} {
		_, err := ValidateProfileJSON([]byte(raw))
		var verr *Error
		assert.ErrorAs(t, err, &verr, "input %q", raw)
	}
}

func TestValidateProfile(t *testing.T) {
	p := &models.Profile{
		CGPA:                8,
		CollegeTier:         "Tier 1",
		Skills:              []string{},
		CommunicationSkills: 5,
		ProblemSolving:      5,
		Teamwork:            5,
		Leadership:          5,
		TimeManagement:      5,
	}
	assert.NoError(t, ValidateProfile(p))

	p.CommunicationSkills = 0
	err := ValidateProfile(p)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"communication_skills"}, verr.Fields())
	assert.Contains(t, err.Error(), "communication_skills")
}
