package cost_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rramcim/array"
	"github.com/sarchlab/rramcim/cost"
)

var _ = Describe("Energy", func() {
	var (
		cfg   *array.HardwareConfig
		geo   array.Geometry
		pulse float64
	)

	BeforeEach(func() {
		cfg = array.DefaultHardwareConfig()

		var err error
		geo, err = array.Resolve(cfg)
		Expect(err).NotTo(HaveOccurred())
		pulse = cost.ReadPulse(cfg, cost.Timing(cfg, geo))
	})

	Describe("TileEnergy", func() {
		It("should charge the cells for the read window", func() {
			tile := cost.TileEnergy(cfg, geo, pulse, 128, 16)

			// 128 rows x 16 columns x 0.5 V x 1.275 µA x 4 ns
			Expect(tile.Get(cost.Cells)).To(BeNumerically("~", 5.2224, 1e-9))
		})

		It("should be empty without active rows or columns", func() {
			Expect(cost.TileEnergy(cfg, geo, pulse, 0, 16).Total()).To(BeZero())
			Expect(cost.TileEnergy(cfg, geo, pulse, 128, 0).Total()).To(BeZero())
		})

		It("should keep idle ADCs at the standby fraction", func() {
			full := cost.TileEnergy(cfg, geo, pulse, 128, 16).Get(cost.ADCs)
			half := cost.TileEnergy(cfg, geo, pulse, 128, 8).Get(cost.ADCs)

			Expect(half).To(BeNumerically("~", full*(0.25+0.75*0.5), 1e-12))
		})

		It("should not charge word lines for column occupancy", func() {
			full := cost.TileEnergy(cfg, geo, pulse, 128, 16)
			half := cost.TileEnergy(cfg, geo, pulse, 128, 8)

			Expect(half.Get(cost.WLDrivers)).To(Equal(full.Get(cost.WLDrivers)))
			Expect(half.Get(cost.BLDrivers)).To(
				BeNumerically("~", full.Get(cost.BLDrivers)/2, 1e-12))
		})

		It("should raise pseudo-crossbar bit line activity for multi-bit inputs", func() {
			cfg.Topology = array.OneTOneRPseudoCrossbar
			geo, _ = array.Resolve(cfg)
			single := cost.TileEnergy(cfg, geo, pulse, 128, 16).Get(cost.BLDrivers)

			cfg.BitSerialPrecision = 2
			multi := cost.TileEnergy(cfg, geo, pulse, 128, 16).Get(cost.BLDrivers)

			Expect(multi).To(BeNumerically("~", single*0.75/0.5, 1e-12))
		})

		It("should use currents when they are given", func() {
			lrs, hrs := 20e-6, 2e-6
			cfg.Device.ConductanceLRS = nil
			cfg.Device.ConductanceHRS = nil
			cfg.Device.CurrentLRS = &lrs
			cfg.Device.CurrentHRS = &hrs

			tile := cost.TileEnergy(cfg, geo, 1, 1, 1)

			Expect(tile.Get(cost.Cells)).To(BeNumerically("~", 0.5*11e-6*1e3, 1e-12))
		})
	})

	Describe("LayerEnergy", func() {
		It("should cost a partial tile on its own", func() {
			mapping := cost.WorkloadMapping{
				MappedRows:       128,
				MappedCols:       24,
				ActivationRepeat: float64(geo.TilesPerPass),
			}

			layer, err := cost.LayerEnergy(cfg, geo, pulse, mapping)

			Expect(err).NotTo(HaveOccurred())
			full := cost.TileEnergy(cfg, geo, pulse, 128, 16).Get(cost.ADCs)
			partial := cost.TileEnergy(cfg, geo, pulse, 128, 8).Get(cost.ADCs)

			Expect(layer.Get(cost.ADCs)).To(BeNumerically("~", full+partial, 1e-9))
			Expect(layer.Get(cost.ADCs)).NotTo(BeNumerically("~", 1.5*full, 1e-9))
		})

		It("should count sub-cycles for input vectors", func() {
			Expect(geo.TilesPerPass).To(Equal(64))
			Expect(cost.RepeatForVectors(cfg, geo, 1)).To(Equal(64.0 * 8))

			cfg.BitSerialPrecision = 2
			Expect(cost.RepeatForVectors(cfg, geo, 3)).To(Equal(64.0 * 4 * 3))
		})

		It("should convert every column once per input cycle for one vector", func() {
			mapping := cost.FullMapping(geo)
			mapping.ActivationRepeat = cost.RepeatForVectors(cfg, geo, 1)

			layer, err := cost.LayerEnergy(cfg, geo, pulse, mapping)

			Expect(err).NotTo(HaveOccurred())
			perConversion := cost.PeakEnergy(cfg, geo, pulse).Get(cost.ADCs) /
				float64(geo.ADCCount)
			conversions := layer.Get(cost.ADCs) / perConversion
			inputCycles := cfg.ActivationPrecision / cfg.BitSerialPrecision

			Expect(conversions).To(BeNumerically("~", geo.BitlineAmount*inputCycles, 1e-6))
		})

		It("should scale linearly with the repeat count", func() {
			mapping := cost.WorkloadMapping{MappedRows: 64, MappedCols: 100, ActivationRepeat: 1}
			once, err := cost.LayerEnergy(cfg, geo, pulse, mapping)
			Expect(err).NotTo(HaveOccurred())

			mapping.ActivationRepeat = 8
			eight, err := cost.LayerEnergy(cfg, geo, pulse, mapping)
			Expect(err).NotTo(HaveOccurred())

			Expect(eight.Total()).To(BeNumerically("~", 8*once.Total(), 1e-9))
		})

		It("should be zero for an empty mapping", func() {
			layer, err := cost.LayerEnergy(cfg, geo, pulse, cost.WorkloadMapping{})

			Expect(err).NotTo(HaveOccurred())
			Expect(layer.Total()).To(BeZero())
			Expect(layer).To(HaveLen(len(cost.Components)))
		})

		DescribeTable("should reject mappings that do not fit",
			func(mapping cost.WorkloadMapping, field string) {
				_, err := cost.LayerEnergy(cfg, geo, pulse, mapping)

				var cfgErr *array.ConfigurationError
				Expect(errors.As(err, &cfgErr)).To(BeTrue())
				Expect(cfgErr.Field).To(Equal(field))
			},
			Entry("too many rows",
				cost.WorkloadMapping{MappedRows: 129, MappedCols: 1, ActivationRepeat: 1},
				"mapping.mapped_rows"),
			Entry("too many columns",
				cost.WorkloadMapping{MappedRows: 1, MappedCols: 1025, ActivationRepeat: 1},
				"mapping.mapped_cols"),
			Entry("negative repeat",
				cost.WorkloadMapping{MappedRows: 1, MappedCols: 1, ActivationRepeat: -1},
				"mapping.activation_repeat"),
		)
	})

	Describe("PeakEnergy", func() {
		It("should equal one full tile for aligned sizes", func() {
			peak := cost.PeakEnergy(cfg, geo, pulse)
			tile := cost.TileEnergy(cfg, geo, pulse, 128, 16)

			for _, c := range cost.Components {
				Expect(peak[c]).To(BeNumerically("~", tile[c], 1e-12), string(c))
			}
		})
	})
})
