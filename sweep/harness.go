// Package sweep evaluates many macro configurations and reports them.
package sweep

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rramcim/array"
	"github.com/sarchlab/rramcim/cost"
	"github.com/sarchlab/rramcim/perf"
)

// Case is one configuration to evaluate.
type Case struct {
	// Name identifies the case in reports.
	Name string

	// Description explains what the case varies.
	Description string

	Config *array.HardwareConfig

	// Mapping is optional. Without it only peak figures are produced.
	Mapping *cost.WorkloadMapping

	// Reference is optional published data to compare against.
	Reference *perf.Reference
}

// Result holds the outcome of one case.
type Result struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Topology    string `json:"topology"`
	Analog      bool   `json:"analog"`

	Area        cost.Breakdown `json:"area,omitempty"`
	Timing      cost.Breakdown `json:"timing,omitempty"`
	PeakEnergy  cost.Breakdown `json:"peak_energy,omitempty"`
	LayerEnergy cost.Breakdown `json:"layer_energy,omitempty"`

	Metrics    perf.Metrics    `json:"metrics"`
	Mismatches []perf.Mismatch `json:"mismatches,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`

	// Error is set when the case could not be evaluated.
	Error string `json:"error,omitempty"`

	WallTime time.Duration `json:"wall_time_ns"`
}

// Failed reports whether the case could not be evaluated.
func (r Result) Failed() bool {
	return r.Error != ""
}

// Recorder persists results.
type Recorder interface {
	Record(r Result)
	Flush() error
}

// HarnessConfig configures the harness.
type HarnessConfig struct {
	// Workers is the number of cases evaluated concurrently.
	// Default: runtime.NumCPU().
	Workers int

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose adds the per-component breakdowns to PrintResults.
	Verbose bool

	// Recorder receives every result in case order. Optional.
	Recorder Recorder
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Workers: runtime.NumCPU(),
		Output:  os.Stdout,
		Verbose: false,
	}
}

// Harness runs cases and reports results.
type Harness struct {
	config HarnessConfig
	cases  []Case
}

// NewHarness creates a new harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &Harness{
		config: config,
		cases:  []Case{},
	}
}

// AddCase adds a case to the harness.
func (h *Harness) AddCase(c Case) {
	h.cases = append(h.cases, c)
}

// AddCases adds multiple cases to the harness.
func (h *Harness) AddCases(cases []Case) {
	h.cases = append(h.cases, cases...)
}

// RunAll evaluates every case on a pool of Workers goroutines and returns
// the results in the order the cases were added.
func (h *Harness) RunAll() ([]Result, error) {
	results := make([]Result, len(h.cases))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < h.config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runCase(h.cases[i])
			}
		}()
	}

	for i := range h.cases {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if h.config.Recorder == nil {
		return results, nil
	}

	for _, r := range results {
		h.config.Recorder.Record(r)
	}
	if err := h.config.Recorder.Flush(); err != nil {
		return results, fmt.Errorf("failed to record sweep results: %w", err)
	}

	return results, nil
}

// runCase evaluates a single case.
func runCase(c Case) (result Result) {
	result = Result{
		Name:        c.Name,
		Description: c.Description,
	}
	if c.Config == nil {
		result.Error = "missing hardware configuration"
		return result
	}
	result.Topology = c.Config.Topology.String()
	result.Analog = c.Config.IsAnalogCompute

	start := time.Now()
	defer func() { result.WallTime = time.Since(start) }()

	model, err := cost.NewModel(c.Config)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	for _, w := range model.Warnings() {
		result.Warnings = append(result.Warnings, w.String())
	}

	result.Area = model.Area()
	result.Timing = model.Timing()
	result.PeakEnergy = model.PeakEnergy()

	if c.Mapping != nil {
		result.LayerEnergy, err = model.LayerEnergy(*c.Mapping)
		if err != nil {
			result.Error = err.Error()
			return result
		}
	}

	result.Metrics, err = perf.FromModel(model)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if c.Reference != nil {
		result.Mismatches = perf.Compare(result.Metrics, *c.Reference)
	}

	return result
}

// PrintResults outputs results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "=== ReRAM CiM Macro Cost Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Case: %s\n", r.Name)
		if r.Description != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Topology: %s (%s)\n", r.Topology, mode(r.Analog))

		if r.Failed() {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
			_, _ = fmt.Fprintln(h.config.Output, "")
			continue
		}

		for _, w := range r.Warnings {
			_, _ = fmt.Fprintf(h.config.Output, "  Warning: %s\n", w)
		}

		m := r.Metrics
		_, _ = fmt.Fprintln(h.config.Output, "  --- Macro ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Area:          %.6f mm2\n", m.AreaMm2)
		_, _ = fmt.Fprintf(h.config.Output, "  Clock Period:  %.3f ns (%.1f MHz)\n",
			m.ClockPeriodNs, float64(m.Frequency/sim.MHz))
		_, _ = fmt.Fprintf(h.config.Output, "  Peak Energy:   %.4f pJ/cycle\n", m.PeakEnergyPJ)
		_, _ = fmt.Fprintf(h.config.Output, "  Energy/MAC:    %.6f pJ\n", m.EnergyPerMACPJ)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Efficiency ---")
		_, _ = fmt.Fprintf(h.config.Output, "  TOPS:          %.6f\n", m.TOPS)
		_, _ = fmt.Fprintf(h.config.Output, "  TOPS/W:        %.3f\n", m.TOPSW)
		_, _ = fmt.Fprintf(h.config.Output, "  TOPS/mm2:      %.3f\n", m.TOPSmm2)
		_, _ = fmt.Fprintf(h.config.Output, "  TOPS/W (1b):   %.3f\n", m.TOPSWBits)
		_, _ = fmt.Fprintf(h.config.Output, "  TOPS/mm2 (1b): %.3f\n", m.TOPSmm2Bits)

		if r.LayerEnergy != nil {
			_, _ = fmt.Fprintf(h.config.Output, "  Layer Energy:  %.4f pJ\n", r.LayerEnergy.Total())
		}

		for _, mm := range r.Mismatches {
			_, _ = fmt.Fprintf(h.config.Output, "  Mismatch %-16s predicted %.4g, reference %.4g (%.1f%%)\n",
				mm.Figure, mm.Predicted, mm.Reference, 100*mm.Relative)
		}

		if h.config.Verbose {
			h.printBreakdown("Area (mm2)", r.Area)
			h.printBreakdown("Timing (ns)", r.Timing)
			h.printBreakdown("Peak Energy (pJ)", r.PeakEnergy)
			if r.LayerEnergy != nil {
				h.printBreakdown("Layer Energy (pJ)", r.LayerEnergy)
			}
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

func (h *Harness) printBreakdown(title string, b cost.Breakdown) {
	_, _ = fmt.Fprintf(h.config.Output, "  --- %s ---\n", title)
	for _, c := range cost.Components {
		_, _ = fmt.Fprintf(h.config.Output, "  %-15s %.6g\n", c, b[c])
	}
	_, _ = fmt.Fprintf(h.config.Output, "  %-15s %.6g\n", "total", b.Total())
}

// PrintCSV outputs results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,topology,mode,area_mm2,clock_ns,peak_energy_pj,layer_energy_pj,tops,topsw,topsmm2,topsw_bits,topsmm2_bits,error")

	for _, r := range results {
		layer := 0.0
		if r.LayerEnergy != nil {
			layer = r.LayerEnergy.Total()
		}
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%s,%g,%g,%g,%g,%g,%g,%g,%g,%g,%q\n",
			r.Name,
			r.Topology,
			mode(r.Analog),
			r.Metrics.AreaMm2,
			r.Metrics.ClockPeriodNs,
			r.Metrics.PeakEnergyPJ,
			layer,
			r.Metrics.TOPS,
			r.Metrics.TOPSW,
			r.Metrics.TOPSmm2,
			r.Metrics.TOPSWBits,
			r.Metrics.TOPSmm2Bits,
			r.Error,
		)
	}
}

// PrintJSON outputs results as an indented JSON array.
func (h *Harness) PrintJSON(results []Result) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode sweep results: %w", err)
	}
	return nil
}

func mode(analog bool) string {
	if analog {
		return "aimc"
	}
	return "dimc"
}
