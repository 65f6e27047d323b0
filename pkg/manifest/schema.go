// pkg/manifest/schema.go
package manifest

// Default artifact file names, relative to the artifact source root.
const (
	DefaultManifestFile       = "manifest.json"
	DefaultPlacementModelFile = "placement_model.json"
	DefaultSalaryModelFile    = "salary_model.json"
	DefaultScalersFile        = "scalers.json"
	DefaultLabelEncodersFile  = "label_encoders.json"
	DefaultFeatureColumnsFile = "feature_columns.json"
)

type Manifest struct {
	ModelVersion string    `json:"modelVersion"`
	CreatedAt    string    `json:"createdAt"`
	Description  string    `json:"description,omitempty"`
	Artifacts    Artifacts `json:"artifacts"`
	Tags         []string  `json:"tags,omitempty"`
}

type Artifacts struct {
	PlacementModel string `json:"placementModel"`
	SalaryModel    string `json:"salaryModel"`
	Scalers        string `json:"scalers"`
	LabelEncoders  string `json:"labelEncoders"`
	FeatureColumns string `json:"featureColumns"`
}
