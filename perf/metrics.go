// Package perf derives throughput and efficiency figures from the cost
// breakdowns of a macro.
package perf

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rramcim/array"
	"github.com/sarchlab/rramcim/cost"
)

// ErrDegenerate is returned when a metric would divide by a zero clock
// period, energy or area.
var ErrDegenerate = errors.New("degenerate macro")

// Metrics holds the normalized figures of merit of one macro.
type Metrics struct {
	// OpsPerCycle counts two operations per multiply-accumulate.
	OpsPerCycle    float64 `json:"ops_per_cycle"`
	BitOpsPerCycle float64 `json:"bit_ops_per_cycle"`

	ClockPeriodNs float64  `json:"clock_period_ns"`
	Frequency     sim.Freq `json:"frequency_hz"`
	AreaMm2       float64  `json:"area_mm2"`
	PeakEnergyPJ  float64  `json:"peak_energy_pj"`

	TOPS    float64 `json:"tops"`
	TOPSW   float64 `json:"topsw"`
	TOPSmm2 float64 `json:"topsmm2"`

	TOPSBits    float64 `json:"tops_bits"`
	TOPSWBits   float64 `json:"topsw_bits"`
	TOPSmm2Bits float64 `json:"topsmm2_bits"`

	// EnergyPerMACPJ is the peak energy of one multiply-accumulate.
	EnergyPerMACPJ float64 `json:"energy_per_mac_pj"`
}

// OpsPerCycle is the number of operations the macro completes in one ADC
// sub-cycle. The devices-per-weight factor divides twice: once for the
// column expansion and once for the ADCs it occupies.
func OpsPerCycle(cfg *array.HardwareConfig, geo array.Geometry) float64 {
	dpw := float64(geo.DevicesPerWeight)
	inputCycles := float64(cfg.ActivationPrecision) / float64(cfg.BitSerialPrecision)

	macs := float64(geo.WordlineAmount) * float64(geo.BitlineAmount) /
		inputCycles / (dpw * dpw) / float64(geo.ShareFactor) *
		float64(cfg.BankCount)

	return 2 * macs
}

// Aggregate combines geometry, timing and peak energy into Metrics.
func Aggregate(
	cfg *array.HardwareConfig,
	geo array.Geometry,
	area, timing, peak cost.Breakdown,
) (Metrics, error) {
	m := Metrics{
		OpsPerCycle:   OpsPerCycle(cfg, geo),
		ClockPeriodNs: timing.Total(),
		AreaMm2:       area.Total(),
		PeakEnergyPJ:  peak.Total(),
	}
	m.BitOpsPerCycle = m.OpsPerCycle *
		float64(cfg.WeightPrecision) * float64(cfg.ActivationPrecision)

	if m.ClockPeriodNs <= 0 {
		return Metrics{}, fmt.Errorf("%w: clock period is %g ns", ErrDegenerate, m.ClockPeriodNs)
	}
	if m.PeakEnergyPJ <= 0 {
		return Metrics{}, fmt.Errorf("%w: peak energy is %g pJ", ErrDegenerate, m.PeakEnergyPJ)
	}
	if m.AreaMm2 <= 0 {
		return Metrics{}, fmt.Errorf("%w: area is %g mm2", ErrDegenerate, m.AreaMm2)
	}

	m.Frequency = sim.GHz / sim.Freq(m.ClockPeriodNs)

	m.TOPS = m.OpsPerCycle * float64(m.Frequency) / 1e12
	m.TOPSW = m.OpsPerCycle / m.PeakEnergyPJ
	m.TOPSmm2 = m.TOPS / m.AreaMm2

	m.TOPSBits = m.BitOpsPerCycle * float64(m.Frequency) / 1e12
	m.TOPSWBits = m.BitOpsPerCycle / m.PeakEnergyPJ
	m.TOPSmm2Bits = m.TOPSBits / m.AreaMm2

	m.EnergyPerMACPJ = m.PeakEnergyPJ / (m.OpsPerCycle / 2)

	return m, nil
}

// FromModel aggregates the breakdowns held by a model.
func FromModel(model *cost.Model) (Metrics, error) {
	return Aggregate(model.Config(), model.Geometry(),
		model.Area(), model.Timing(), model.PeakEnergy())
}
