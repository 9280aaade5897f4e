package cost

import (
	"fmt"
	"math"

	"github.com/sarchlab/rramcim/array"
)

// WorkloadMapping describes how much of a macro one layer exercises. It is
// produced by the mapping step and consumed once.
type WorkloadMapping struct {
	// MappedRows is the number of active rows.
	MappedRows int `json:"mapped_rows"`

	// MappedCols is the number of active physical columns.
	MappedCols int `json:"mapped_cols"`

	// ActivationRepeat is the number of ADC sub-cycles the layer runs. One
	// bit-serial input cycle over all columns takes TilesPerPass sub-cycles,
	// so one input vector takes TilesPerPass x act/bsp. Use
	// RepeatForVectors to convert an input vector count.
	ActivationRepeat float64 `json:"activation_repeat"`
}

// RepeatForVectors returns the ActivationRepeat of a layer that streams
// vectors input vectors through the macro.
func RepeatForVectors(cfg *array.HardwareConfig, geo array.Geometry, vectors float64) float64 {
	inputCycles := float64(cfg.ActivationPrecision) / float64(cfg.BitSerialPrecision)
	return float64(geo.TilesPerPass) * inputCycles * vectors
}

// FullMapping fills every physical row and column for one ADC sub-cycle.
func FullMapping(geo array.Geometry) WorkloadMapping {
	return WorkloadMapping{
		MappedRows:       geo.WordlineAmount,
		MappedCols:       geo.BitlineAmount,
		ActivationRepeat: 1,
	}
}

// Validate checks that the mapping fits in the macro.
func (m WorkloadMapping) Validate(geo array.Geometry) error {
	if m.MappedRows < 0 || m.MappedRows > geo.WordlineAmount {
		return &array.ConfigurationError{
			Field: "mapping.mapped_rows",
			Reason: fmt.Sprintf("must be within [0, %d], got %d",
				geo.WordlineAmount, m.MappedRows),
		}
	}
	if m.MappedCols < 0 || m.MappedCols > geo.BitlineAmount {
		return &array.ConfigurationError{
			Field: "mapping.mapped_cols",
			Reason: fmt.Sprintf("must be within [0, %d], got %d",
				geo.BitlineAmount, m.MappedCols),
		}
	}
	if m.ActivationRepeat < 0 || math.IsNaN(m.ActivationRepeat) ||
		math.IsInf(m.ActivationRepeat, 0) {
		return &array.ConfigurationError{
			Field:  "mapping.activation_repeat",
			Reason: fmt.Sprintf("must be a finite value >= 0, got %g", m.ActivationRepeat),
		}
	}
	return nil
}

// LayerEnergy returns the energy in pJ of one layer mapped onto the macro.
//
// The mapped columns are split into full tiles and one partial tile, each
// costed on its own, because ADC and driver energy do not shrink linearly
// with a fractional tile. The tile sum covers one pass over the columns,
// which takes TilesPerPass sub-cycles; the result is that pass energy
// per sub-cycle times ActivationRepeat.
func LayerEnergy(
	cfg *array.HardwareConfig,
	geo array.Geometry,
	readPulseNs float64,
	mapping WorkloadMapping,
) (Breakdown, error) {
	if err := mapping.Validate(geo); err != nil {
		return nil, err
	}

	return layerEnergy(cfg, geo, readPulseNs, mapping), nil
}

func layerEnergy(
	cfg *array.HardwareConfig,
	geo array.Geometry,
	readPulseNs float64,
	mapping WorkloadMapping,
) Breakdown {
	fullTiles := mapping.MappedCols / geo.TileSize
	remainder := mapping.MappedCols % geo.TileSize

	pass := TileEnergy(cfg, geo, readPulseNs, mapping.MappedRows, geo.TileSize).
		Scale(float64(fullTiles))
	if remainder > 0 {
		pass = pass.Add(TileEnergy(cfg, geo, readPulseNs, mapping.MappedRows, remainder))
	}

	return pass.Scale(mapping.ActivationRepeat / float64(geo.TilesPerPass))
}
