package perf

import "math"

// Reference holds published figures of a fabricated macro. Zero fields are
// not compared.
type Reference struct {
	Name          string  `json:"name"`
	AreaMm2       float64 `json:"area_mm2"`
	ClockPeriodNs float64 `json:"clock_period_ns"`
	TOPS          float64 `json:"tops"`
	TOPSW         float64 `json:"topsw"`
	TOPSmm2       float64 `json:"topsmm2"`
}

// Mismatch is the relative error of one predicted figure.
type Mismatch struct {
	Figure    string  `json:"figure"`
	Predicted float64 `json:"predicted"`
	Reference float64 `json:"reference"`
	Relative  float64 `json:"relative"`
}

// Compare returns |predicted/reference - 1| for every figure the reference
// provides.
func Compare(m Metrics, ref Reference) []Mismatch {
	figures := []struct {
		name           string
		predicted, ref float64
	}{
		{"area_mm2", m.AreaMm2, ref.AreaMm2},
		{"clock_period_ns", m.ClockPeriodNs, ref.ClockPeriodNs},
		{"tops", m.TOPS, ref.TOPS},
		{"topsw", m.TOPSW, ref.TOPSW},
		{"topsmm2", m.TOPSmm2, ref.TOPSmm2},
	}

	var mismatches []Mismatch
	for _, f := range figures {
		if f.ref == 0 {
			continue
		}
		mismatches = append(mismatches, Mismatch{
			Figure:    f.name,
			Predicted: f.predicted,
			Reference: f.ref,
			Relative:  math.Abs(f.predicted/f.ref - 1),
		})
	}

	return mismatches
}

// WorstMismatch returns the largest relative error, or zero when nothing
// was compared.
func WorstMismatch(mismatches []Mismatch) float64 {
	worst := 0.0
	for _, m := range mismatches {
		worst = math.Max(worst, m.Relative)
	}
	return worst
}
