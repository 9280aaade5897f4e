package cost

import (
	"math"

	"github.com/sarchlab/rramcim/array"
)

// logicLib derives the digital cells used by adders, multipliers and
// registers from the unit NAND2 gate. Areas are in mm², capacitances in
// fF, delays in ns.
type logicLib struct {
	vdd float64

	nd2Area, xor2Area, faArea, dffArea float64
	nd2Cap, xor2Cap, faCap, dffCap     float64

	nd2Delay, xor2Delay     float64
	in2Sum, in2Cout, cin2Co float64
}

func newLogicLib(tech array.Technology) logicLib {
	l := logicLib{
		vdd:       tech.Vdd,
		nd2Area:   tech.ND2AreaUm2 * 1e-6,
		nd2Cap:    tech.ND2Cap,
		nd2Delay:  tech.ND2DelayNs,
		xor2Area:  2.4 * tech.ND2AreaUm2 * 1e-6,
		xor2Cap:   1.5 * tech.ND2Cap,
		xor2Delay: 2.4 * tech.ND2DelayNs,
		dffArea:   6 * tech.ND2AreaUm2 * 1e-6,
		dffCap:    3 * tech.ND2Cap,
	}

	l.faArea = 2*l.xor2Area + 3*l.nd2Area
	l.faCap = 2*l.xor2Cap + 3*l.nd2Cap

	l.in2Sum = 2 * l.xor2Delay
	l.in2Cout = l.xor2Delay + 2*l.nd2Delay
	l.cin2Co = 2 * l.nd2Delay

	return l
}

// energy converts a switched capacitance in fF into pJ.
func (l logicLib) energy(capFF float64) float64 {
	return capFF * l.vdd * l.vdd * 1e-3
}

func (l logicLib) nd2Energy() float64 { return l.energy(l.nd2Cap) }
func (l logicLib) faEnergy() float64  { return l.energy(l.faCap) }
func (l logicLib) dffEnergy() float64 { return l.energy(l.dffCap) }

// rippleDelay is the critical path of a ripple-carry adder tree with the
// given depth that widens its operands from inBits to outBits.
func (l logicLib) rippleDelay(depth, inBits, outBits int) float64 {
	if depth <= 0 {
		return 0
	}
	return float64(depth-1)*l.in2Sum + l.in2Cout + float64(outBits-inBits)*l.cin2Co
}

// treeAdderBits counts the 1-bit full adders in a tree that sums inputs
// operands of precision bits each.
func treeAdderBits(inputs, precision int) float64 {
	if inputs <= 1 {
		return 0
	}
	n := float64(inputs)
	return float64(precision)*(n-1) + n*(math.Log2(n)-0.5)
}

func ceilLog2(n int) int {
	depth := 0
	for v := 1; v < n; v <<= 1 {
		depth++
	}
	return depth
}

// adcArea is the area of one ADC in mm².
func adcArea(resolution int, cal array.Calibration) float64 {
	if resolution <= 1 {
		return 0
	}
	r := float64(resolution)
	return math.Pow(10, cal.ADCAreaK1*r+cal.ADCAreaK2) * math.Exp2(r) * 1e-6
}

// adcEnergy is the energy of one conversion in pJ.
func adcEnergy(resolution int, vdd float64, cal array.Calibration) float64 {
	if resolution <= 1 {
		return 0
	}
	r := float64(resolution)
	return (cal.ADCEnergyK1*r + cal.ADCEnergyK2*math.Pow(4, r)) * vdd * vdd * 1e-3
}

// adcDelay follows a successive-approximation converter that spends two
// clock cycles on every bit beyond the fourth.
func adcDelay(resolution int, cal array.Calibration) float64 {
	coarse := math.Min(float64(resolution), 4)
	fine := math.Max(float64(resolution)-4, 0)
	return (cal.ADCSetupCycles + coarse + 2*fine) * cal.ADCClockNs
}

func dacArea(bits int, cal array.Calibration) float64 {
	return float64(bits) * cal.DACAreaPerBitUm2 * 1e-6
}

func dacEnergy(bits int, vdd float64, cal array.Calibration) float64 {
	return cal.DACEnergyPerBitPf * float64(bits) * vdd * vdd
}

func dacDelay(bits int, cal array.Calibration) float64 {
	if bits <= 1 {
		return 0
	}
	return cal.DACSettlingNsPerBit * float64(bits)
}

// precisions collects the operand widths along the read-out path.
type precisions struct {
	regularIn, regularOut int
	pvIn, pvOut           int
	accOut                int
	accumulate            bool
}

func newPrecisions(cfg *array.HardwareConfig, geo array.Geometry) precisions {
	p := precisions{
		accumulate: cfg.BitSerialPrecision < cfg.ActivationPrecision,
	}

	if cfg.IsAnalogCompute {
		p.pvIn = cfg.ADCResolution
	} else {
		p.regularIn = cfg.CellsSizeNVM
		p.regularOut = cfg.CellsSizeNVM + ceilLog2(geo.WordlineAmount)
		p.pvIn = p.regularOut
	}

	p.pvOut = p.pvIn + (geo.DevicesPerWeight-1)*cfg.CellsSizeNVM
	p.accOut = p.pvOut + cfg.ActivationPrecision

	return p
}
