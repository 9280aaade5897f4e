package cost

import (
	"log"

	"github.com/sarchlab/rramcim/array"
)

// Result bundles the outputs of one macro evaluation.
type Result struct {
	Config      *array.HardwareConfig    `json:"config"`
	Geometry    array.Geometry           `json:"geometry"`
	Warnings    []array.ParameterWarning `json:"warnings,omitempty"`
	Area        Breakdown                `json:"area"`
	Timing      Breakdown                `json:"timing"`
	PeakEnergy  Breakdown                `json:"peak_energy"`
	ReadPulseNs float64                  `json:"read_pulse_ns"`

	// LayerEnergy is only set when a mapping was evaluated.
	LayerEnergy Breakdown `json:"layer_energy,omitempty"`
}

// Model evaluates one macro configuration. The derived breakdowns are
// computed once by NewModel and never change afterwards.
type Model struct {
	config   *array.HardwareConfig
	warnings []array.ParameterWarning
	geometry array.Geometry

	area        Breakdown
	timing      Breakdown
	peak        Breakdown
	readPulseNs float64
}

// NewModel normalizes cfg and evaluates area, timing and peak energy.
// Corrected parameters are logged and kept in Warnings.
func NewModel(cfg *array.HardwareConfig) (*Model, error) {
	normalized, warnings, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}

	for _, w := range warnings {
		log.Printf("warning: %s: %s", normalized.Name, w)
	}

	geo, err := array.Resolve(normalized)
	if err != nil {
		return nil, err
	}

	m := &Model{
		config:   normalized,
		warnings: warnings,
		geometry: geo,
	}

	m.area = Area(normalized, geo)
	m.timing = Timing(normalized, geo)
	m.readPulseNs = ReadPulse(normalized, m.timing)
	m.peak = PeakEnergy(normalized, geo, m.readPulseNs)

	return m, nil
}

// Config returns a copy of the normalized configuration.
func (m *Model) Config() *array.HardwareConfig {
	return m.config.Clone()
}

// Geometry returns the derived geometry.
func (m *Model) Geometry() array.Geometry {
	return m.geometry
}

// Warnings returns the parameter corrections applied by NewModel.
func (m *Model) Warnings() []array.ParameterWarning {
	return append([]array.ParameterWarning(nil), m.warnings...)
}

// Area returns the area breakdown in mm².
func (m *Model) Area() Breakdown {
	return m.area.Clone()
}

// Timing returns the delay breakdown in ns.
func (m *Model) Timing() Breakdown {
	return m.timing.Clone()
}

// PeakEnergy returns the full-utilization energy breakdown in pJ.
func (m *Model) PeakEnergy() Breakdown {
	return m.peak.Clone()
}

// ClockPeriodNs is the total of the timing breakdown.
func (m *Model) ClockPeriodNs() float64 {
	return m.timing.Total()
}

// ReadPulseNs is the read window the energy models use.
func (m *Model) ReadPulseNs() float64 {
	return m.readPulseNs
}

// LayerEnergy evaluates one workload mapping.
func (m *Model) LayerEnergy(mapping WorkloadMapping) (Breakdown, error) {
	return LayerEnergy(m.config, m.geometry, m.readPulseNs, mapping)
}

// Result returns all outputs of the model.
func (m *Model) Result() Result {
	return Result{
		Config:      m.Config(),
		Geometry:    m.geometry,
		Warnings:    m.Warnings(),
		Area:        m.Area(),
		Timing:      m.Timing(),
		PeakEnergy:  m.PeakEnergy(),
		ReadPulseNs: m.readPulseNs,
	}
}

// Evaluate builds a model for cfg and, if mapping is not nil, also
// evaluates the layer energy.
func Evaluate(cfg *array.HardwareConfig, mapping *WorkloadMapping) (Result, error) {
	m, err := NewModel(cfg)
	if err != nil {
		return Result{}, err
	}

	result := m.Result()
	if mapping != nil {
		result.LayerEnergy, err = m.LayerEnergy(*mapping)
		if err != nil {
			return Result{}, err
		}
	}

	return result, nil
}
