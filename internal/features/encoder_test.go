package features

import (
	"testing"

	"placement-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestLabels() LabelTable {
	return LabelTable{
		CollegeTier: {"Tier 1": 0, "Tier 2": 1, "Tier 3": 2},
	}
}

func createTestProfile() *models.Profile {
	return &models.Profile{
		CGPA:                8.2,
		CollegeTier:         "Tier 2",
		Backlogs:            1,
		CurrentBacklogs:     0,
		Internships:         2,
		Projects:            7,
		Certifications:      3,
		HackathonsWon:       1,
		Extracurricular:     2,
		Skills:              []string{" Python", "SQL ", "Machine Learning", "Python"},
		CommunicationSkills: 8,
		ProblemSolving:      7,
		Teamwork:            9,
		Leadership:          6,
		TimeManagement:      7,
		AptitudeScore:       82,
		CodingScore:         75,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestEncoder_Encode_ComputedValues(t *testing.T) {
	enc := NewEncoder(createTestLabels(), ComputedFeatures())

	vec, err := enc.Encode(createTestProfile())
	require.NoError(t, err)

	expected := map[string]float64{
		CGPA:                     8.2,
		Backlogs:                 1,
		CurrentBacklogs:          0,
		CollegeTier:              1,
		Internships:              2,
		InternshipDurationMonths: 4,
		AcademicProjects:         7,
		ResearchPapers:           2,
		GithubProjects:           7,
		"python":                 1,
		"java":                   0,
		"sql":                    1,
		"machine_learning":       1,
		"web_development":        0,
		"cloud_computing":        0,
		"data_science":           0,
		CommunicationSkills:      8,
		ProblemSolving:           7,
		Teamwork:                 9,
		Leadership:               6,
		TimeManagement:           7,
		AptitudeScore:            82,
		CodingTestScore:          75,
		CertificationsCount:      3,
		HackathonsWon:            1,
		Extracurricular:          2,
	}
	assert.Equal(t, expected, vec.Map())
	assert.Empty(t, vec.Fallbacks)
}

func TestEncoder_Encode_ResearchPapers(t *testing.T) {
	tests := []struct {
		projects int
		expected float64
	}{
		{projects: 0, expected: 0},
		{projects: 2, expected: 0},
		{projects: 3, expected: 1},
		{projects: 5, expected: 1},
		{projects: 6, expected: 2},
		{projects: 8, expected: 2},
		{projects: 30, expected: 2},
	}

	enc := NewEncoder(createTestLabels(), ComputedFeatures())
	for _, tt := range tests {
		p := createTestProfile()
		p.Projects = tt.projects

		vec, err := enc.Encode(p)
		require.NoError(t, err)

		got, ok := vec.Get(ResearchPapers)
		require.True(t, ok)
		assert.Equal(t, tt.expected, got, "projects=%d", tt.projects)
	}
}

func TestEncoder_Encode_OrderFollowsColumns(t *testing.T) {
	columns := []string{"data_science", CodingTestScore, CGPA, CollegeTier, "python", ResearchPapers}
	enc := NewEncoder(createTestLabels(), columns)

	vec, err := enc.Encode(createTestProfile())
	require.NoError(t, err)

	assert.Equal(t, columns, vec.Names)
	assert.Equal(t, []float64{0, 75, 8.2, 1, 1, 2}, vec.Values)
}

func TestEncoder_Encode_Deterministic(t *testing.T) {
	enc := NewEncoder(createTestLabels(), ComputedFeatures())
	p := createTestProfile()

	first, err := enc.Encode(p)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		next, err := enc.Encode(p)
		require.NoError(t, err)
		assert.Equal(t, first.Names, next.Names)
		assert.Equal(t, first.Values, next.Values)
	}
}

func TestEncoder_Encode_UnseenCategoryFallback(t *testing.T) {
	tests := []struct {
		name     string
		tier     string
		opts     []Option
		expected float64
	}{
		{name: "unknown tier uses default fallback", tier: "Unknown-XYZ", expected: 0},
		{name: "empty tier uses default fallback", tier: "", expected: 0},
		{name: "case mismatch is unseen", tier: "tier 2", expected: 0},
		{name: "configured fallback code", tier: "Unknown-XYZ", opts: []Option{WithFallbackCode(2)}, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder(createTestLabels(), ComputedFeatures(), tt.opts...)
			p := createTestProfile()
			p.CollegeTier = tt.tier

			vec, err := enc.Encode(p)
			require.NoError(t, err)

			got, _ := vec.Get(CollegeTier)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, []string{CollegeTier}, vec.Fallbacks)
			assert.Equal(t, vec.Fallbacks, enc.Fallbacks(p))
		})
	}
}

func TestEncoder_Fallbacks_KnownTier(t *testing.T) {
	enc := NewEncoder(createTestLabels(), ComputedFeatures())
	assert.Empty(t, enc.Fallbacks(createTestProfile()))
}

func TestEncoder_Encode_MissingLabelColumnFallsBack(t *testing.T) {
	enc := NewEncoder(LabelTable{}, ComputedFeatures(), WithFallbackCode(1))

	vec, err := enc.Encode(createTestProfile())
	require.NoError(t, err)

	got, _ := vec.Get(CollegeTier)
	assert.Equal(t, float64(1), got)
}

func TestEncoder_Encode_SkillMatchIsCaseSensitive(t *testing.T) {
	enc := NewEncoder(createTestLabels(), ComputedFeatures())
	p := createTestProfile()
	p.Skills = []string{"python", "sql", "Cloud Computing  "}

	vec, err := enc.Encode(p)
	require.NoError(t, err)

	m := vec.Map()
	assert.Equal(t, float64(0), m["python"])
	assert.Equal(t, float64(0), m["sql"])
	assert.Equal(t, float64(1), m["cloud_computing"])
}

// ==========================
// Error Handling Tests
// ==========================

func TestEncoder_Encode_MissingFeature(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		expected []string
	}{
		{
			name:     "single unknown column",
			columns:  append(ComputedFeatures(), "gre_score"),
			expected: []string{"gre_score"},
		},
		{
			name:     "several unknown columns keep column order",
			columns:  []string{"zeta", CGPA, "alpha", "python"},
			expected: []string{"zeta", "alpha"},
		},
		{
			name:     "renamed column is reported",
			columns:  []string{"coding_score"},
			expected: []string{"coding_score"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder(createTestLabels(), tt.columns)

			vec, err := enc.Encode(createTestProfile())
			assert.Nil(t, vec)

			var mfe *MissingFeatureError
			require.ErrorAs(t, err, &mfe)
			assert.Equal(t, tt.expected, mfe.Missing)
			assert.Contains(t, err.Error(), tt.expected[0])
		})
	}
}

func TestNewEncoder_CopiesColumns(t *testing.T) {
	columns := []string{CGPA, Backlogs}
	enc := NewEncoder(createTestLabels(), columns)
	columns[0] = "mutated"

	assert.Equal(t, []string{CGPA, Backlogs}, enc.Columns())
	assert.Equal(t, DefaultFallbackCode, enc.FallbackCode())
}

func TestComputedFeatures_Unique(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range ComputedFeatures() {
		assert.False(t, seen[name], "duplicate feature %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, 26)
}
