package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_FillsDefaults(t *testing.T) {
	m, err := Decode(strings.NewReader(`{"modelVersion":"2024.06","artifacts":{"salaryModel":"salary_v2.json"}}`))
	require.NoError(t, err)

	assert.Equal(t, "2024.06", m.ModelVersion)
	assert.Equal(t, "salary_v2.json", m.Artifacts.SalaryModel)
	assert.Equal(t, DefaultPlacementModelFile, m.Artifacts.PlacementModel)
	assert.Equal(t, DefaultFeatureColumnsFile, m.Artifacts.FeatureColumns)
}

func TestDecode_EmptyVersion(t *testing.T) {
	m, err := Decode(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "unversioned", m.ModelVersion)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"modelVersion":`))
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultManifestFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"modelVersion":"v7","createdAt":"2024-01-02"}`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "v7", m.ModelVersion)
	assert.Equal(t, "2024-01-02", m.CreatedAt)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
