package main

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rramcim/array"
	"github.com/sarchlab/rramcim/cost"
	"github.com/sarchlab/rramcim/sweep"
)

var _ = Describe("Loaders", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	It("should fall back to the default configuration", func() {
		cfg, err := loadHardwareConfig("")

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(array.DefaultHardwareConfig()))
	})

	It("should keep the base mapping for missing fields", func() {
		path := write("mapping.json", `{"mapped_cols": 24}`)
		base := cost.WorkloadMapping{MappedRows: 128, MappedCols: 1024, ActivationRepeat: 1}

		mapping, err := loadMapping(path, base)

		Expect(err).NotTo(HaveOccurred())
		Expect(mapping).To(Equal(cost.WorkloadMapping{
			MappedRows: 128, MappedCols: 24, ActivationRepeat: 1,
		}))
	})

	It("should reject a malformed mapping", func() {
		path := write("mapping.json", `{"mapped_cols": "many"}`)

		_, err := loadMapping(path, cost.WorkloadMapping{})

		Expect(err).To(MatchError(ContainSubstring("failed to parse mapping file")))
	})

	It("should load a reference", func() {
		path := write("ref.json", `{"name": "chip", "topsw": 12.5}`)

		ref, err := loadReference(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(ref.Name).To(Equal("chip"))
		Expect(ref.TOPSW).To(Equal(12.5))
	})

	It("should parse compute modes", func() {
		modes, err := parseModes([]string{"aimc", "Digital"})
		Expect(err).NotTo(HaveOccurred())
		Expect(modes).To(Equal([]bool{true, false}))

		_, err = parseModes([]string{"hybrid"})
		Expect(err).To(HaveOccurred())
	})

	It("should parse topologies", func() {
		topologies, err := parseTopologies([]string{"2t2r", "crossbar"})
		Expect(err).NotTo(HaveOccurred())
		Expect(topologies).To(Equal([]array.Topology{array.TwoTTwoR, array.Crossbar}))

		topologies, err = parseTopologies([]string{"all"})
		Expect(err).NotTo(HaveOccurred())
		Expect(topologies).To(Equal(array.Topologies()))

		_, err = parseTopologies([]string{"3t1r"})
		Expect(err).To(HaveOccurred())
	})

	It("should compare the shipped macro against its published figures", func() {
		cfg, err := loadHardwareConfig(filepath.Join("..", "..", "configs", "lightcim2024.json"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.BankCount).To(Equal(168))
		Expect(cfg.Technology.Vdd).To(Equal(1.8))
		Expect(cfg.Device.ConductanceLRS).NotTo(BeNil())

		ref, err := loadReference(filepath.Join("..", "..", "configs", "lightcim2024_reference.json"))
		Expect(err).NotTo(HaveOccurred())

		harness := sweep.NewHarness(sweep.HarnessConfig{Workers: 1, Output: &bytes.Buffer{}})
		harness.AddCase(sweep.Case{Name: cfg.Name, Config: cfg, Reference: ref})
		results, err := harness.RunAll()

		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Failed()).To(BeFalse(), results[0].Error)
		Expect(results[0].Mismatches).To(HaveLen(3))
	})

	It("should save the defaults through the defaults command", func() {
		path := filepath.Join(dir, "macro.json")
		rootCmd.SetArgs([]string{"defaults", "--output", path})

		Expect(rootCmd.Execute()).To(Succeed())

		cfg, err := array.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(array.DefaultHardwareConfig()))
	})
})
