// pkg/manifest/manifest.go
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Default returns a manifest pointing at the conventional artifact file names.
// It is used when an artifact set ships without a manifest.
func Default() *Manifest {
	return &Manifest{
		ModelVersion: "unversioned",
		Artifacts: Artifacts{
			PlacementModel: DefaultPlacementModelFile,
			SalaryModel:    DefaultSalaryModelFile,
			Scalers:        DefaultScalersFile,
			LabelEncoders:  DefaultLabelEncodersFile,
			FeatureColumns: DefaultFeatureColumnsFile,
		},
	}
}

func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a manifest and fills unset artifact names with their defaults.
func Decode(r io.Reader) (*Manifest, error) {
	m := Default()
	m.ModelVersion = ""
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	m.applyDefaults()
	return m, nil
}

func (m *Manifest) applyDefaults() {
	d := Default()
	if m.ModelVersion == "" {
		m.ModelVersion = d.ModelVersion
	}
	if m.Artifacts.PlacementModel == "" {
		m.Artifacts.PlacementModel = d.Artifacts.PlacementModel
	}
	if m.Artifacts.SalaryModel == "" {
		m.Artifacts.SalaryModel = d.Artifacts.SalaryModel
	}
	if m.Artifacts.Scalers == "" {
		m.Artifacts.Scalers = d.Artifacts.Scalers
	}
	if m.Artifacts.LabelEncoders == "" {
		m.Artifacts.LabelEncoders = d.Artifacts.LabelEncoders
	}
	if m.Artifacts.FeatureColumns == "" {
		m.Artifacts.FeatureColumns = d.Artifacts.FeatureColumns
	}
}
