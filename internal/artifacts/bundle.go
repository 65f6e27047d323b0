// Package artifacts loads the fitted model artifacts once and exposes them as
// a read-only Bundle shared by every request.
package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"placement-advisor/internal/features"
	"placement-advisor/internal/scoring"
	"placement-advisor/pkg/manifest"
)

// Bundle is the immutable set of loaded artifacts.
type Bundle struct {
	manifest  *manifest.Manifest
	encoder   *features.Encoder
	placement *scoring.PlacementAdapter
	salary    *scoring.SalaryAdapter
}

// NewBundle assembles a bundle from already-built parts.
func NewBundle(m *manifest.Manifest, enc *features.Encoder, placement *scoring.PlacementAdapter, salary *scoring.SalaryAdapter) *Bundle {
	if m == nil {
		m = manifest.Default()
	}
	return &Bundle{manifest: m, encoder: enc, placement: placement, salary: salary}
}

func (b *Bundle) Manifest() manifest.Manifest { return *b.manifest }
func (b *Bundle) ModelVersion() string { return b.manifest.ModelVersion }
func (b *Bundle) Encoder() *features.Encoder { return b.encoder }
func (b *Bundle) Placement() *scoring.PlacementAdapter { return b.placement }
func (b *Bundle) Salary() *scoring.SalaryAdapter { return b.salary }
func (b *Bundle) Columns() []string { return b.encoder.Columns() }

// LoadOptions tunes artifact loading.
type LoadOptions struct {
	// ManifestFile defaults to manifest.json. A missing manifest falls back
	// to the conventional file names.
	ManifestFile string
	FallbackCode int
}

// Load reads every artifact from src and cross-checks their dimensions.
// All failures are *LoadError.
func Load(ctx context.Context, src Source, opts LoadOptions) (*Bundle, error) {
	if opts.ManifestFile == "" {
		opts.ManifestFile = manifest.DefaultManifestFile
	}
	l := &loader{ctx: ctx, src: src}

	m, err := l.manifest(opts.ManifestFile)
	if err != nil {
		return nil, err
	}
	names := m.Artifacts

	var columns []string
	if err := l.decode(names.FeatureColumns, &columns, false); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, l.fail(names.FeatureColumns, errors.New("feature column list is empty"))
	}

	var encoders labelEncodersFile
	if err := l.decode(names.LabelEncoders, &encoders, false); err != nil {
		return nil, err
	}
	labels, err := encoders.table()
	if err != nil {
		return nil, l.fail(names.LabelEncoders, err)
	}

	var scalers scalersFile
	if err := l.decode(names.Scalers, &scalers, true); err != nil {
		return nil, err
	}

	var pm placementModelFile
	if err := l.decode(names.PlacementModel, &pm, false); err != nil {
		return nil, err
	}
	clf, err := pm.classifier(columns)
	if err != nil {
		return nil, l.fail(names.PlacementModel, err)
	}
	placementScaler, err := scalerFor(pm.Type, scalers.Placement, len(columns))
	if err != nil {
		return nil, l.fail(names.Scalers, fmt.Errorf("placement: %w", err))
	}

	var sm salaryModelFile
	if err := l.decode(names.SalaryModel, &sm, false); err != nil {
		return nil, err
	}
	reg, err := sm.regressor(columns, labels, opts.FallbackCode)
	if err != nil {
		return nil, l.fail(names.SalaryModel, err)
	}
	salaryScaler, err := scalerFor(sm.Type, scalers.Salary, len(columns))
	if err != nil {
		return nil, l.fail(names.Scalers, fmt.Errorf("salary: %w", err))
	}

	enc := features.NewEncoder(labels, columns, features.WithFallbackCode(opts.FallbackCode))
	return NewBundle(m,
		enc,
		scoring.NewPlacementAdapter(placementScaler, clf),
		scoring.NewSalaryAdapter(salaryScaler, reg),
	), nil
}

// Heuristic models read raw feature values, so no scaler applies to them.
func scalerFor(modelType string, p *scalerParams, width int) (scoring.Transformer, error) {
	if modelType == ModelHeuristic {
		return scoring.Identity{}, nil
	}
	return p.transformer(width)
}

type loader struct {
	ctx context.Context
	src Source
}

func (l *loader) fail(artifact string, err error) *LoadError {
	return &LoadError{Artifact: artifact, Source: l.src.String(), Err: err}
}

func (l *loader) manifest(name string) (*manifest.Manifest, error) {
	rc, err := l.src.Open(l.ctx, name)
	if errors.Is(err, ErrNotFound) {
		return manifest.Default(), nil
	}
	if err != nil {
		return nil, l.fail(name, err)
	}
	defer rc.Close()

	m, err := manifest.Decode(rc)
	if err != nil {
		return nil, l.fail(name, err)
	}
	return m, nil
}

// decode reads a JSON artifact into v. Optional artifacts leave v untouched
// when absent.
func (l *loader) decode(name string, v interface{}, optional bool) error {
	rc, err := l.src.Open(l.ctx, name)
	if err != nil {
		if optional && errors.Is(err, ErrNotFound) {
			return nil
		}
		return l.fail(name, err)
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return l.fail(name, fmt.Errorf("decode: %w", err))
	}
	return nil
}
