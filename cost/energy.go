package cost

import (
	"github.com/sarchlab/rramcim/array"
)

// TileEnergy returns the energy in pJ of one ADC sub-cycle that drives
// activeRows rows and reads occupiedCols of the TileSize columns of a tile.
// readPulseNs is the window charged to the cells, see ReadPulse.
//
// Word line drivers and DACs stay driven for the whole share period, so a
// single sub-cycle carries 1/ShareFactor of their energy. ADCs that have
// no column to convert still burn the standby fraction of a conversion.
func TileEnergy(
	cfg *array.HardwareConfig,
	geo array.Geometry,
	readPulseNs float64,
	activeRows, occupiedCols int,
) Breakdown {
	energy := NewBreakdown()
	if activeRows <= 0 || occupiedCols <= 0 {
		return energy
	}

	dev := cfg.Device
	cal := cfg.Calibration
	logic := newLogicLib(cfg.Technology)
	prec := newPrecisions(cfg, geo)

	rows := float64(activeRows)
	occ := float64(occupiedCols)
	share := float64(geo.ShareFactor)
	groups := float64(array.CeilDiv(occupiedCols, geo.DevicesPerWeight))

	energy[Cells] = rows * occ * float64(geo.DevicesPerCell) *
		dev.ReadVoltage * dev.AverageReadCurrent() * readPulseNs * 1e3

	energy[WLDrivers] = rows * lineEnergy(geo.WLCapacitance, dev.WLSwingVoltage, cal.WLActivity) / share

	blActivity := cal.BLActivity
	blLines := float64(geo.LinesPerColumn) * occ
	if cfg.Topology.IsPseudoCrossbar() {
		blLines = float64(geo.LinesPerColumn) * rows
		if cfg.BitSerialPrecision > 1 {
			blActivity = cal.BLActivityPseudoMultiBit
		}
	}
	energy[BLDrivers] = blLines * lineEnergy(geo.BLCapacitance, dev.BLSwingVoltage, blActivity)

	if cfg.IsAnalogCompute {
		vdd := cfg.Technology.Vdd
		energy[DACs] = rows * dacEnergy(cfg.BitSerialPrecision, vdd, cal) / share

		standby := cal.ADCStandbyFraction
		utilization := standby + (1-standby)*occ/float64(geo.TileSize)
		energy[ADCs] = float64(geo.ADCCount) * adcEnergy(cfg.ADCResolution, vdd, cal) * utilization
	} else {
		bits := float64(cfg.BitSerialPrecision)
		energy[Mults] = bits * float64(cfg.CellsSizeNVM) * rows * occ * logic.nd2Energy()
		energy[AddersRegular] = bits * occ * logic.faEnergy() *
			treeAdderBits(activeRows, prec.regularIn)
	}

	energy[AddersPV] = groups * logic.faEnergy() *
		treeAdderBits(geo.DevicesPerWeight, prec.pvIn)

	if prec.accumulate {
		energy[Accumulators] = groups * (logic.faEnergy() + logic.dffEnergy()) *
			float64(prec.accOut)
	}

	return energy.Scale(float64(cfg.BankCount))
}

// lineEnergy is the switching energy of one line in pJ.
func lineEnergy(capFF, swing, activity float64) float64 {
	return 0.5 * capFF * swing * swing * activity * 1e-3
}

// PeakEnergy returns the energy in pJ of one sub-cycle at full utilization.
// It is the per-layer energy of a mapping that fills every row and column
// exactly once.
func PeakEnergy(cfg *array.HardwareConfig, geo array.Geometry, readPulseNs float64) Breakdown {
	return layerEnergy(cfg, geo, readPulseNs, FullMapping(geo))
}
