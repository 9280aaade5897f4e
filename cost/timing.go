package cost

import (
	"github.com/sarchlab/rramcim/array"
)

// Timing returns the critical-path delay of each stage in ns. The clock
// period is the breakdown total.
//
// Analog path: DAC, ADC (the cell read overlaps the conversion),
// place-value adders, accumulator. Digital path: cell read, multipliers,
// regular adder trees, place-value adders, accumulator. Line drivers
// settle inside the ADC setup phase and contribute nothing.
func Timing(cfg *array.HardwareConfig, geo array.Geometry) Breakdown {
	delay := NewBreakdown()
	logic := newLogicLib(cfg.Technology)
	prec := newPrecisions(cfg, geo)

	if cfg.IsAnalogCompute {
		delay[DACs] = dacDelay(cfg.BitSerialPrecision, cfg.Calibration)
		delay[ADCs] = adcDelay(cfg.ADCResolution, cfg.Calibration)
	} else {
		delay[Cells] = cfg.Device.ReadPulseWidthNs
		delay[Mults] = logic.nd2Delay
		delay[AddersRegular] = logic.rippleDelay(
			ceilLog2(geo.WordlineAmount), prec.regularIn, prec.regularOut)
	}

	delay[AddersPV] = logic.rippleDelay(
		ceilLog2(geo.DevicesPerWeight), prec.pvIn, prec.pvOut)

	if prec.accumulate {
		delay[Accumulators] = logic.in2Cout + float64(prec.accOut-1)*logic.cin2Co
	}

	return delay
}

// ReadPulse is the read window the energy models charge the cells for. On
// analog macros it is the ADC conversion time.
func ReadPulse(cfg *array.HardwareConfig, timing Breakdown) float64 {
	if cfg.IsAnalogCompute {
		return timing[ADCs]
	}
	return cfg.Device.ReadPulseWidthNs
}
