package scoring

import (
	"fmt"
	"math"

	"placement-advisor/internal/features"
)

// columnIndex resolves feature names to vector positions.
type columnIndex map[string]int

func newColumnIndex(columns []string, required ...string) (columnIndex, error) {
	idx := make(columnIndex, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	var missing []string
	for _, r := range required {
		if _, ok := idx[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("heuristic model requires columns %v", missing)
	}
	return idx, nil
}

func (c columnIndex) value(x []float64, name string) float64 {
	i, ok := c[name]
	if !ok || i >= len(x) {
		return 0
	}
	return x[i]
}

// skillCount counts the vocabulary skill indicators. Skills outside the
// vocabulary have no column and do not count.
func (c columnIndex) skillCount(x []float64) float64 {
	var n float64
	for _, sf := range features.SkillVocabulary {
		n += c.value(x, sf.Feature)
	}
	return n
}

// HeuristicPlacement is a weighted-rule placement scorer over raw (unscaled) features.
type HeuristicPlacement struct {
	idx       columnIndex
	width     int
	threshold float64
}

func NewHeuristicPlacement(columns []string, threshold float64) (*HeuristicPlacement, error) {
	idx, err := newColumnIndex(columns,
		features.CGPA, features.Internships, features.CommunicationSkills,
		features.AcademicProjects, features.Backlogs,
	)
	if err != nil {
		return nil, err
	}
	return &HeuristicPlacement{idx: idx, width: len(columns), threshold: threshold}, nil
}

func (h *HeuristicPlacement) PredictProba(x []float64) (float64, error) {
	if len(x) != h.width {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", ErrDimensionMismatch, h.width, len(x))
	}

	score := 0.0
	score += h.idx.value(x, features.CGPA) / 10 * 0.25
	score += math.Min(h.idx.value(x, features.Internships)/3, 1) * 0.2
	score += math.Min(h.idx.skillCount(x)/5, 1) * 0.18
	score += h.idx.value(x, features.CommunicationSkills) / 10 * 0.15
	score += math.Min(h.idx.value(x, features.AcademicProjects)/10, 1) * 0.12
	score += math.Max(0, 1-h.idx.value(x, features.Backlogs)*0.1) * 0.1

	return math.Max(0, math.Min(1, score)), nil
}

func (h *HeuristicPlacement) Predict(x []float64) (int, error) {
	p, err := h.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return classify(p, h.threshold), nil
}

// HeuristicSalary estimates salary from academic and experience features.
// TierBonus is keyed by encoded college tier. Predict returns the base estimate;
// PredictGiven scales it by 0.7 + 0.3*placementProb.
type HeuristicSalary struct {
	idx       columnIndex
	width     int
	tierBonus map[int]float64
}

func NewHeuristicSalary(columns []string, tierBonus map[int]float64) (*HeuristicSalary, error) {
	idx, err := newColumnIndex(columns,
		features.CGPA, features.Internships, features.CollegeTier,
		features.CertificationsCount, features.HackathonsWon,
	)
	if err != nil {
		return nil, err
	}
	return &HeuristicSalary{idx: idx, width: len(columns), tierBonus: tierBonus}, nil
}

func (h *HeuristicSalary) Predict(x []float64) (float64, error) {
	if len(x) != h.width {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", ErrDimensionMismatch, h.width, len(x))
	}

	salary := 5.0
	salary += (h.idx.value(x, features.CGPA) - 6) * 0.5
	salary += h.idx.value(x, features.Internships) * 1.5
	salary += h.idx.skillCount(x) * 0.3
	salary += h.tierBonus[int(h.idx.value(x, features.CollegeTier))]
	salary += h.idx.value(x, features.CertificationsCount) * 0.5
	salary += h.idx.value(x, features.HackathonsWon) * 0.8

	return salary, nil
}

func (h *HeuristicSalary) PredictGiven(x []float64, placementProb float64) (float64, error) {
	base, err := h.Predict(x)
	if err != nil {
		return 0, err
	}
	return base * (0.7 + math.Max(0, math.Min(1, placementProb))*0.3), nil
}
