package cost

import (
	"github.com/sarchlab/rramcim/array"
)

// Area returns the silicon area of the macro in mm².
func Area(cfg *array.HardwareConfig, geo array.Geometry) Breakdown {
	area := NewBreakdown()
	tech := cfg.Technology
	logic := newLogicLib(tech)
	prec := newPrecisions(cfg, geo)

	devices := float64(geo.DeviceCount)
	rows := float64(geo.WordlineAmount)
	cols := float64(geo.BitlineAmount)
	groups := float64(geo.OutputGroups)

	switch cfg.Topology {
	case array.Crossbar:
		area[Cells] = devices * array.F2ToMm2(tech.CellAreaF2, tech.FeatureSizeUm)
	default:
		area[Cells] = devices * array.F2ToMm2(tech.DeviceAreaF2, tech.FeatureSizeUm)
		area[AccessDevices] = devices *
			array.F2ToMm2(tech.AccessTransistorAreaF2, tech.FeatureSizeUm)
	}

	if cfg.IsAnalogCompute {
		area[DACs] = rows * dacArea(cfg.BitSerialPrecision, cfg.Calibration)
		area[ADCs] = float64(geo.ADCCount) * adcArea(cfg.ADCResolution, cfg.Calibration)
	} else {
		multipliers := float64(cfg.BitSerialPrecision*cfg.CellsSizeNVM) * rows * cols
		area[Mults] = multipliers * logic.nd2Area

		trees := float64(cfg.BitSerialPrecision * geo.TileSize)
		area[AddersRegular] = trees * logic.faArea *
			treeAdderBits(geo.WordlineAmount, prec.regularIn)
	}

	area[AddersPV] = groups * logic.faArea * treeAdderBits(geo.DevicesPerWeight, prec.pvIn)

	if prec.accumulate {
		area[Accumulators] = groups * (logic.faArea + logic.dffArea) * float64(prec.accOut)
	}

	area[WLDrivers] = geo.WLDriverAreaTotal
	area[BLDrivers] = geo.BLDriverAreaTotal

	return area.Scale(float64(cfg.BankCount))
}
