package cost_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rramcim/array"
	"github.com/sarchlab/rramcim/cost"
)

const (
	nd2Delay = 0.0478
	in2Sum   = 2 * 2.4 * nd2Delay
	in2Cout  = 2.4*nd2Delay + 2*nd2Delay
	cin2Cout = 2 * nd2Delay
)

var _ = Describe("Scenarios", func() {
	var cfg *array.HardwareConfig

	BeforeEach(func() {
		cfg = array.DefaultHardwareConfig()
	})

	Describe("1T1R analog macro with 128x128 physical cells", func() {
		var m *cost.Model

		BeforeEach(func() {
			cfg.BitlineCount = 16
			m = newModel(cfg)
		})

		It("should expose 128 physical columns", func() {
			Expect(m.Geometry().BitlineAmount).To(Equal(128))
			Expect(m.Geometry().ADCCount).To(Equal(2))
		})

		It("should spend time in the ADC but not in the line drivers", func() {
			timing := m.Timing()

			Expect(timing.Get(cost.ADCs)).To(BeNumerically("~", (2+4+2)*0.5, 1e-12))
			Expect(timing.Get(cost.WLDrivers)).To(BeZero())
			Expect(timing.Get(cost.BLDrivers)).To(BeZero())
			Expect(timing.Get(cost.DACs)).To(BeZero())
			Expect(timing.Get(cost.Cells)).To(BeZero())
		})

		It("should pay for DACs and access transistors", func() {
			area := m.Area()

			Expect(area.Get(cost.DACs)).To(BeNumerically(">", 0))
			Expect(area.Get(cost.AccessDevices)).To(BeNumerically(">", 0))
			Expect(area.Get(cost.Cells)).To(BeZero())
			Expect(area.Get(cost.Mults)).To(BeZero())
			Expect(area.Get(cost.AddersRegular)).To(BeZero())
		})

		It("should use the ADC delay as read pulse", func() {
			Expect(m.ReadPulseNs()).To(Equal(m.Timing().Get(cost.ADCs)))
		})
	})

	Describe("default analog timing", func() {
		It("should ripple through the place-value tree and the accumulator", func() {
			timing := newModel(cfg).Timing()

			pv := 2*in2Sum + in2Cout + 7*cin2Cout
			acc := in2Cout + 19*cin2Cout

			Expect(timing.Get(cost.AddersPV)).To(BeNumerically("~", pv, 1e-12))
			Expect(timing.Get(cost.Accumulators)).To(BeNumerically("~", acc, 1e-12))
			Expect(timing.Total()).To(BeNumerically("~", 4+pv+acc, 1e-12))
		})

		It("should add DAC settling for multi-bit inputs", func() {
			cfg.BitSerialPrecision = 4

			timing := newModel(cfg).Timing()

			Expect(timing.Get(cost.DACs)).To(BeNumerically("~", 0.4, 1e-12))
		})
	})

	Describe("default analog area", func() {
		It("should follow the ADC fit", func() {
			perADC := math.Pow(10, -0.0369*5+1.206) * 32 * 1e-6

			area := newModel(cfg).Area()

			Expect(area.Get(cost.ADCs)).To(BeNumerically("~", 16*perADC, 1e-15))
		})

		It("should have no ADC area at one bit of resolution", func() {
			cfg.ADCResolution = 1

			Expect(newModel(cfg).Area().Get(cost.ADCs)).To(BeZero())
		})
	})

	Describe("digital 1T1R macro", func() {
		BeforeEach(func() {
			cfg.IsAnalogCompute = false
		})

		It("should have no converters", func() {
			m := newModel(cfg)

			Expect(m.Area().Get(cost.ADCs)).To(BeZero())
			Expect(m.Area().Get(cost.DACs)).To(BeZero())
			Expect(m.PeakEnergy().Get(cost.ADCs)).To(BeZero())
			Expect(m.PeakEnergy().Get(cost.DACs)).To(BeZero())
		})

		It("should place one multiplier per stored bit", func() {
			area := newModel(cfg).Area()

			Expect(area.Get(cost.Mults)).To(
				BeNumerically("~", 128*1024*0.614e-6, 1e-12))
			Expect(area.Get(cost.AddersRegular)).To(BeNumerically(">", 0))
		})

		It("should read with the nominal pulse", func() {
			m := newModel(cfg)
			timing := m.Timing()

			Expect(timing.Get(cost.Cells)).To(Equal(5.0))
			Expect(timing.Get(cost.Mults)).To(Equal(nd2Delay))
			Expect(timing.Get(cost.AddersRegular)).To(
				BeNumerically("~", 6*in2Sum+in2Cout+7*cin2Cout, 1e-12))
			Expect(m.ReadPulseNs()).To(Equal(5.0))
		})
	})

	Describe("crossbar macro", func() {
		var m *cost.Model

		BeforeEach(func() {
			cfg.Topology = array.Crossbar
			m = newModel(cfg)
		})

		It("should have no access devices", func() {
			Expect(m.Geometry().AccessTransistorsPerCell).To(Equal(0))
			Expect(m.Area().Get(cost.AccessDevices)).To(BeZero())
		})

		It("should size cells by the cell pitch area", func() {
			expected := float64(128*1024) * 12 * 0.028 * 0.028 * 1e-6
			Expect(m.Area().Get(cost.Cells)).To(BeNumerically("~", expected, 1e-12))
		})

		It("should use the wire-only capacitance of the crossbar branch", func() {
			pitch := math.Sqrt(12) * 0.028
			Expect(m.Geometry().WLCapacitance).To(BeNumerically("~", 1024*pitch*0.2, 1e-9))
			Expect(m.Geometry().BLCapacitance).To(BeNumerically("~", 128*pitch*0.2, 1e-9))
		})

		// Bit line drivers are counted per line, not per access transistor,
		// so a crossbar still drives one line per column.
		It("should still drive every bit line", func() {
			geo := m.Geometry()
			Expect(geo.LinesPerColumn).To(Equal(1))
			Expect(geo.BLDriverAreaTotal).To(
				BeNumerically("~", 1024*geo.BLDriverArea, 1e-15))
			Expect(m.Area().Get(cost.BLDrivers)).To(BeNumerically(">", 0))
			Expect(m.PeakEnergy().Get(cost.BLDrivers)).To(BeNumerically(">", 0))
		})
	})
})
