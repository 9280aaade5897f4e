package sweep_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rramcim/array"
	"github.com/sarchlab/rramcim/cost"
	"github.com/sarchlab/rramcim/perf"
	"github.com/sarchlab/rramcim/sweep"
)

type memoryRecorder struct {
	names    []string
	flushErr error
	flushes  int
}

func (m *memoryRecorder) Record(r sweep.Result) {
	m.names = append(m.names, r.Name)
}

func (m *memoryRecorder) Flush() error {
	m.flushes++
	return m.flushErr
}

var _ = Describe("Harness", func() {
	var (
		out     *bytes.Buffer
		harness *sweep.Harness
		config  sweep.HarnessConfig
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		config = sweep.DefaultConfig()
		config.Output = out
		config.Workers = 4
		harness = sweep.NewHarness(config)
	})

	It("should return results in case order", func() {
		cases := sweep.Grid{
			Topologies:   array.Topologies(),
			ComputeModes: []bool{true, false},
		}.Cases(array.DefaultHardwareConfig())
		harness.AddCases(cases)

		results, err := harness.RunAll()

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(cases)))
		for i, r := range results {
			Expect(r.Name).To(Equal(cases[i].Name))
			Expect(r.Failed()).To(BeFalse(), r.Error)
			Expect(r.Metrics.TOPSmm2).To(BeNumerically(">", 0))
		}
	})

	It("should match a direct model evaluation", func() {
		cfg := array.DefaultHardwareConfig()
		harness.AddCase(sweep.Case{Name: "default", Config: cfg})

		results, err := harness.RunAll()
		Expect(err).NotTo(HaveOccurred())

		model, err := cost.NewModel(cfg)
		Expect(err).NotTo(HaveOccurred())
		metrics, err := perf.FromModel(model)
		Expect(err).NotTo(HaveOccurred())

		Expect(results[0].Metrics).To(Equal(metrics))
		Expect(results[0].Area).To(Equal(model.Area()))
	})

	It("should keep going after a failing case", func() {
		bad := array.DefaultHardwareConfig()
		bad.WeightPrecision = 6
		harness.AddCase(sweep.Case{Name: "bad", Config: bad})
		harness.AddCase(sweep.Case{Name: "good", Config: array.DefaultHardwareConfig()})
		harness.AddCase(sweep.Case{Name: "empty"})

		results, err := harness.RunAll()

		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Failed()).To(BeTrue())
		Expect(results[0].Error).To(ContainSubstring("cells_size_nvm"))
		Expect(results[1].Failed()).To(BeFalse())
		Expect(results[2].Error).To(Equal("missing hardware configuration"))
	})

	It("should evaluate the layer mapping and reference", func() {
		harness.AddCase(sweep.Case{
			Name:      "mapped",
			Config:    array.DefaultHardwareConfig(),
			Mapping:   &cost.WorkloadMapping{MappedRows: 64, MappedCols: 512, ActivationRepeat: 8},
			Reference: &perf.Reference{TOPSW: 10},
		})

		results, err := harness.RunAll()

		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].LayerEnergy.Total()).To(BeNumerically(">", 0))
		Expect(results[0].Mismatches).To(HaveLen(1))
	})

	It("should carry share factor warnings", func() {
		cfg := array.DefaultHardwareConfig()
		cfg.ADCShareFactor = 0.5
		harness.AddCase(sweep.Case{Name: "clamped", Config: cfg})

		results, err := harness.RunAll()

		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Warnings).To(HaveLen(1))
		Expect(results[0].Warnings[0]).To(ContainSubstring("adc_share_factor"))
	})

	Describe("Recorder", func() {
		It("should record every result in order and flush once", func() {
			recorder := &memoryRecorder{}
			config.Recorder = recorder
			harness = sweep.NewHarness(config)
			harness.AddCase(sweep.Case{Name: "a", Config: array.DefaultHardwareConfig()})
			harness.AddCase(sweep.Case{Name: "b", Config: array.DefaultHardwareConfig()})

			_, err := harness.RunAll()

			Expect(err).NotTo(HaveOccurred())
			Expect(recorder.names).To(Equal([]string{"a", "b"}))
			Expect(recorder.flushes).To(Equal(1))
		})

		It("should return flush failures", func() {
			config.Recorder = &memoryRecorder{flushErr: errors.New("disk full")}
			harness = sweep.NewHarness(config)
			harness.AddCase(sweep.Case{Name: "a", Config: array.DefaultHardwareConfig()})

			results, err := harness.RunAll()

			Expect(err).To(MatchError(ContainSubstring("disk full")))
			Expect(results).To(HaveLen(1))
		})
	})

	Describe("Reports", func() {
		var results []sweep.Result

		BeforeEach(func() {
			harness.AddCase(sweep.Case{Name: "default", Config: array.DefaultHardwareConfig()})
			var err error
			results, err = harness.RunAll()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should print a readable report", func() {
			harness.PrintResults(results)

			Expect(out.String()).To(ContainSubstring("Case: default"))
			Expect(out.String()).To(ContainSubstring("TOPS/mm2"))
			Expect(out.String()).NotTo(ContainSubstring("--- Area (mm2) ---"))
		})

		It("should print breakdowns when verbose", func() {
			config.Verbose = true
			sweep.NewHarness(config).PrintResults(results)

			Expect(out.String()).To(ContainSubstring("--- Area (mm2) ---"))
			Expect(out.String()).To(ContainSubstring("adcs"))
		})

		It("should print one CSV row per result", func() {
			harness.PrintCSV(results)

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(HavePrefix("name,topology,mode"))
			Expect(lines[1]).To(HavePrefix("default,1t1r,aimc,"))
		})

		It("should print valid JSON", func() {
			Expect(harness.PrintJSON(results)).To(Succeed())

			var decoded []map[string]any
			Expect(json.Unmarshal(out.Bytes(), &decoded)).To(Succeed())
			Expect(decoded).To(HaveLen(1))
			Expect(decoded[0]["name"]).To(Equal("default"))
		})
	})
})

var _ = Describe("Grid", func() {
	It("should skip digital crossbars", func() {
		cases := sweep.Grid{
			Topologies:   array.Topologies(),
			ComputeModes: []bool{true, false},
			ShareFactors: []float64{4, 8},
		}.Cases(array.DefaultHardwareConfig())

		Expect(cases).To(HaveLen(9 * 2))
		for _, c := range cases {
			Expect(c.Config.Topology == array.Crossbar && !c.Config.IsAnalogCompute).To(BeFalse())
		}
	})

	It("should keep the base values on empty axes", func() {
		base := array.DefaultHardwareConfig()

		cases := sweep.Grid{Sizes: []int{64, 256}}.Cases(base)

		Expect(cases).To(HaveLen(2))
		Expect(cases[1].Config.WordlineCount).To(Equal(256))
		Expect(cases[1].Config.BitlineCount).To(Equal(256))
		Expect(cases[1].Config.Topology).To(Equal(base.Topology))
		Expect(cases[1].Name).To(Equal("1t1r_aimc_256x256_share8_adc5"))
		Expect(base.WordlineCount).To(Equal(128))
	})
})
