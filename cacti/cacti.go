// Package cacti estimates SRAM baselines with the external CACTI tool.
package cacti

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Query describes the memory to estimate.
type Query struct {
	Name string `json:"name"`

	// MemType is "sram" or "dram". Default: sram.
	MemType string `json:"mem_type"`

	TechNodeUm     float64 `json:"tech_node_um"`
	SizeBits       int     `json:"size_bits"`
	BandwidthBits  int     `json:"bandwidth_bits"`
	ReadPorts      int     `json:"read_ports"`
	WritePorts     int     `json:"write_ports"`
	ReadWritePorts int     `json:"read_write_ports"`
	Banks          int     `json:"banks"`
}

// Result holds the per-access costs reported by CACTI.
type Result struct {
	ReadEnergyPJ  float64 `json:"read_energy_pj"`
	WriteEnergyPJ float64 `json:"write_energy_pj"`
	AreaMm2       float64 `json:"area_mm2"`
}

// Validate checks the query before CACTI is started.
func (q Query) Validate() error {
	if q.TechNodeUm <= 0 {
		return fmt.Errorf("tech_node_um must be > 0")
	}
	if q.BandwidthBits <= 0 || q.BandwidthBits%8 != 0 {
		return fmt.Errorf("bandwidth_bits must be a positive multiple of 8")
	}
	if q.SizeBits < q.BandwidthBits || q.SizeBits%8 != 0 {
		return fmt.Errorf("size_bits must be a multiple of 8 and hold at least one access")
	}
	if q.ReadPorts < 0 || q.WritePorts < 0 || q.ReadWritePorts < 0 {
		return fmt.Errorf("port counts must be >= 0")
	}
	if q.ReadPorts+q.WritePorts+q.ReadWritePorts == 0 {
		return fmt.Errorf("at least one port is required")
	}
	if q.Banks <= 0 {
		return fmt.Errorf("banks must be > 0")
	}
	return nil
}

func (q Query) cacheType() string {
	if strings.EqualFold(q.MemType, "dram") {
		return "main memory"
	}
	return "ram"
}

// InputFile renders the CACTI configuration for the query.
func (q Query) InputFile() string {
	var b strings.Builder

	line := func(format string, args ...any) {
		_, _ = fmt.Fprintf(&b, format+"\n", args...)
	}

	line("# %s", q.Name)
	line("-size (bytes) %d", q.SizeBits/8)
	line("-block size (bytes) %d", q.BandwidthBits/8)
	line("-associativity 1")
	line("-read-write port %d", q.ReadWritePorts)
	line("-exclusive read port %d", q.ReadPorts)
	line("-exclusive write port %d", q.WritePorts)
	line("-single ended read ports 0")
	line("-UCA bank count %d", q.Banks)
	line("-technology (u) %g", q.TechNodeUm)
	line("-output/input bus width %d", q.BandwidthBits)
	line("-operating temperature (K) 350")
	line(`-cache type "%s"`, q.cacheType())
	line(`-tag size (b) "default"`)
	line(`-access mode (normal, sequential, fast) - "normal"`)
	line(`-Data array cell type - "itrs-hp"`)
	line(`-Data array peripheral type - "itrs-hp"`)
	line(`-Tag array cell type - "itrs-hp"`)
	line(`-Tag array peripheral type - "itrs-hp"`)
	line("-design objective (weight delay, dynamic power, leakage power, cycle time, area) 0:0:0:100:0")
	line("-deviate (delay, dynamic power, leakage power, cycle time, area) 20:100000:100000:100000:100000")
	line(`-Optimize ED or ED^2 (ED, ED^2, NONE): "ED^2"`)
	line(`-Cache model (NUCA, UCA)  - "UCA"`)
	line(`-Wire signaling (fullswing, lowswing, default) - "Global_30"`)
	line(`-Wire inside mat - "semi-global"`)
	line(`-Wire outside mat - "semi-global"`)
	line(`-Interconnect projection - "conservative"`)
	line(`-Print level (DETAILED, CONCISE) - "DETAILED"`)
	line(`-Print input parameters - "false"`)

	return b.String()
}

// Runner runs the CACTI binary on one configuration file and returns its
// combined output.
type Runner interface {
	Run(ctx context.Context, configPath string) ([]byte, error)
}

// ExecRunner starts CACTI as a child process.
type ExecRunner struct {
	// Binary is the path of the cacti executable.
	Binary string

	// Dir is the working directory. CACTI looks up its technology files
	// relative to it.
	Dir string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, configPath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.Binary, "-infile", configPath)
	cmd.Dir = r.Dir
	return cmd.CombinedOutput()
}

// Client estimates queries through a Runner.
type Client struct {
	runner  Runner
	workDir string
}

// NewClient creates a client that writes its configuration files to
// workDir, or to the system temporary directory if workDir is empty.
func NewClient(runner Runner, workDir string) *Client {
	return &Client{
		runner:  runner,
		workDir: workDir,
	}
}

// Estimate runs CACTI for one query. Failures of the tool are returned as
// *ExternalToolError and are not retried.
func (c *Client) Estimate(ctx context.Context, q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid cacti query %q: %w", q.Name, err)
	}

	f, err := os.CreateTemp(c.workDir, "cacti-*.cfg")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create cacti config file: %w", err)
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if _, err := f.WriteString(q.InputFile()); err != nil {
		_ = f.Close()
		return Result{}, fmt.Errorf("failed to write cacti config file: %w", err)
	}
	if err := f.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to write cacti config file: %w", err)
	}

	out, err := c.runner.Run(ctx, f.Name())
	if err != nil {
		return Result{}, &ExternalToolError{Op: "run", Output: string(out), Err: err}
	}

	result, err := ParseOutput(out)
	if err != nil {
		return Result{}, &ExternalToolError{Op: "parse", Output: string(out), Err: err}
	}

	return result, nil
}

var (
	readEnergyPattern  = regexp.MustCompile(`Total dynamic read energy per access \(nJ\):\s*([0-9.eE+-]+)`)
	writeEnergyPattern = regexp.MustCompile(`Total dynamic write energy per access \(nJ\):\s*([0-9.eE+-]+)`)
	heightWidthPattern = regexp.MustCompile(`height x width \(mm\):\s*([0-9.eE+-]+)\s*x\s*([0-9.eE+-]+)`)
)

// ParseOutput extracts the read energy, write energy and area from the
// CACTI report. Energies are converted from nJ to pJ.
func ParseOutput(out []byte) (Result, error) {
	text := string(out)

	read, err := findFloat(readEnergyPattern, text, "read energy")
	if err != nil {
		return Result{}, err
	}
	write, err := findFloat(writeEnergyPattern, text, "write energy")
	if err != nil {
		return Result{}, err
	}

	m := heightWidthPattern.FindStringSubmatch(text)
	if m == nil {
		return Result{}, fmt.Errorf("area not found in cacti output")
	}
	height, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Result{}, fmt.Errorf("malformed height %q: %w", m[1], err)
	}
	width, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Result{}, fmt.Errorf("malformed width %q: %w", m[2], err)
	}

	return Result{
		ReadEnergyPJ:  read * 1e3,
		WriteEnergyPJ: write * 1e3,
		AreaMm2:       height * width,
	}, nil
}

func findFloat(pattern *regexp.Regexp, text, what string) (float64, error) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("%s not found in cacti output", what)
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q: %w", what, m[1], err)
	}
	return v, nil
}
