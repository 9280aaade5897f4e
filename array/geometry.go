package array

import "math"

// Geometry holds the physical quantities derived from a HardwareConfig.
// Areas are in mm², capacitances in fF. Counts are per bank.
type Geometry struct {
	DevicesPerWeight         int
	DevicesPerCell           int
	AccessTransistorsPerCell int
	LinesPerColumn           int

	// WordlineAmount and BitlineAmount are the physical row and column
	// counts after the devices-per-weight expansion.
	WordlineAmount int
	BitlineAmount  int

	// DeviceCount counts every resistive device, both halves of a 2T2R
	// pair included.
	DeviceCount int

	CellPitchUm float64

	WLCapacitance float64
	BLCapacitance float64

	WLDriverArea      float64
	BLDriverArea      float64
	WLDriverAreaTotal float64
	BLDriverAreaTotal float64

	// ShareFactor is the effective integer ADC share factor.
	ShareFactor int

	// TileSize is the number of physical columns read in one ADC
	// sub-cycle. Analog macros place one ADC per tile column.
	TileSize int

	// ADCCount is TileSize on analog macros and zero on digital ones.
	ADCCount int

	// OutputGroups is the number of place-value trees and accumulators,
	// one per weight read in a sub-cycle.
	OutputGroups int

	// TilesPerPass is the number of sub-cycles needed to read every
	// physical column once.
	TilesPerPass int
}

// Resolve derives the physical geometry of a normalized configuration.
func Resolve(cfg *HardwareConfig) (Geometry, error) {
	if err := cfg.Validate(); err != nil {
		return Geometry{}, err
	}
	share := cfg.ADCShareFactor
	if share < 1 || share != math.Trunc(share) {
		return Geometry{}, configErrorf("adc_share_factor",
			"must be a positive integer, got %g", share)
	}

	t := cfg.Topology
	tech := cfg.Technology

	g := Geometry{
		DevicesPerWeight:         CeilDiv(cfg.WeightPrecision, cfg.CellsSizeNVM),
		DevicesPerCell:           t.DevicesPerCell(),
		AccessTransistorsPerCell: t.AccessTransistorsPerCell(),
		LinesPerColumn:           t.LinesPerColumn(),
		WordlineAmount:           cfg.WordlineCount,
		ShareFactor:              int(share),
	}
	g.BitlineAmount = cfg.BitlineCount * g.DevicesPerWeight
	g.DeviceCount = g.WordlineAmount * g.BitlineAmount * g.DevicesPerCell

	g.CellPitchUm = math.Sqrt(tech.CellAreaF2) * tech.FeatureSizeUm

	rows := float64(g.WordlineAmount)
	cols := float64(g.BitlineAmount)
	tpc := float64(g.AccessTransistorsPerCell)

	g.WLCapacitance = tpc*cols*tech.GateCap + cols*g.CellPitchUm*tech.WireCapPerUm

	blLength := rows
	if t.IsPseudoCrossbar() {
		blLength = cols
	}
	g.BLCapacitance = tpc*blLength*tech.JunctionCap +
		blLength*g.CellPitchUm*tech.WireCapPerUm

	g.WLDriverArea = driverArea(tech, g.WLCapacitance)
	g.BLDriverArea = driverArea(tech, g.BLCapacitance)

	g.WLDriverAreaTotal = rows * g.WLDriverArea
	blDrivers := float64(g.LinesPerColumn) * cols
	if t.IsPseudoCrossbar() {
		blDrivers = float64(g.LinesPerColumn) * rows
	}
	g.BLDriverAreaTotal = blDrivers * g.BLDriverArea

	g.TileSize = CeilDiv(g.BitlineAmount, g.ShareFactor*g.DevicesPerWeight)
	if cfg.IsAnalogCompute {
		g.ADCCount = g.TileSize
	}
	g.OutputGroups = CeilDiv(g.TileSize, g.DevicesPerWeight)
	g.TilesPerPass = CeilDiv(g.BitlineAmount, g.TileSize)

	return g, nil
}

// driverArea sizes a driver against its load, in mm².
func driverArea(tech Technology, load float64) float64 {
	unit := F2ToMm2(tech.MinInverterAreaF2, tech.FeatureSizeUm)
	return unit * math.Max(1, load/tech.MinInverterCap)
}

// F2ToMm2 converts an area in F² into mm² for the given feature size.
func F2ToMm2(areaF2, featureSizeUm float64) float64 {
	return areaF2 * featureSizeUm * featureSizeUm * 1e-6
}

// CeilDiv divides rounding up. b must be positive.
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}
