package artifacts

import (
	"fmt"

	"placement-advisor/internal/features"
	"placement-advisor/internal/scoring"
)

// Model types accepted in placement_model.json and salary_model.json.
const (
	ModelLogistic  = "logistic"
	ModelLinear    = "linear"
	ModelHeuristic = "heuristic"
)

type placementModelFile struct {
	Type         string    `json:"type"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold"`
}

type salaryModelFile struct {
	Type         string             `json:"type"`
	Coefficients []float64          `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	TierBonus    map[string]float64 `json:"tier_bonus"`
}

type scalerParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type scalersFile struct {
	Placement *scalerParams `json:"placement"`
	Salary    *scalerParams `json:"salary"`
}

// labelEncodersFile holds the fitted classes per categorical column.
// A class's code is its index.
type labelEncodersFile map[string][]string

func (f labelEncodersFile) table() (features.LabelTable, error) {
	t := make(features.LabelTable, len(f))
	for column, classes := range f {
		codes := make(map[string]int, len(classes))
		for i, c := range classes {
			if _, dup := codes[c]; dup {
				return nil, fmt.Errorf("column %s: duplicate class %q", column, c)
			}
			codes[c] = i
		}
		t[column] = codes
	}
	return t, nil
}

func (p *scalerParams) transformer(width int) (scoring.Transformer, error) {
	if p == nil {
		return scoring.Identity{}, nil
	}
	if len(p.Mean) != width || len(p.Scale) != width {
		return nil, fmt.Errorf("%w: scaler has %d/%d parameters for %d columns",
			scoring.ErrDimensionMismatch, len(p.Mean), len(p.Scale), width)
	}
	return &scoring.StandardScaler{Mean: p.Mean, Scale: p.Scale}, nil
}

func (m *placementModelFile) classifier(columns []string) (scoring.Classifier, error) {
	switch m.Type {
	case ModelLogistic, "":
		if len(m.Coefficients) != len(columns) {
			return nil, fmt.Errorf("%w: %d coefficients for %d columns",
				scoring.ErrDimensionMismatch, len(m.Coefficients), len(columns))
		}
		return &scoring.LogisticModel{Coefficients: m.Coefficients, Intercept: m.Intercept, Threshold: m.Threshold}, nil
	case ModelHeuristic:
		return scoring.NewHeuristicPlacement(columns, m.Threshold)
	default:
		return nil, fmt.Errorf("unsupported placement model type %q", m.Type)
	}
}

// regressor builds the salary model. A heuristic tier bonus may not sit on the
// fallback code: unseen tiers encode to that code and would receive the bonus.
func (m *salaryModelFile) regressor(columns []string, labels features.LabelTable, fallbackCode int) (scoring.Regressor, error) {
	switch m.Type {
	case ModelLinear, "":
		if len(m.Coefficients) != len(columns) {
			return nil, fmt.Errorf("%w: %d coefficients for %d columns",
				scoring.ErrDimensionMismatch, len(m.Coefficients), len(columns))
		}
		return &scoring.LinearModel{Coefficients: m.Coefficients, Intercept: m.Intercept}, nil
	case ModelHeuristic:
		bonus := make(map[int]float64, len(m.TierBonus))
		for tier, v := range m.TierBonus {
			code, ok := labels.Lookup(features.CollegeTier, tier)
			if !ok {
				return nil, fmt.Errorf("tier_bonus: unknown college tier %q", tier)
			}
			if code == fallbackCode && v != 0 {
				return nil, fmt.Errorf("tier_bonus: college tier %q has the fallback code %d", tier, fallbackCode)
			}
			bonus[code] = v
		}
		return scoring.NewHeuristicSalary(columns, bonus)
	default:
		return nil, fmt.Errorf("unsupported salary model type %q", m.Type)
	}
}
