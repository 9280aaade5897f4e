// Package array describes a ReRAM compute-in-memory macro and resolves the
// physical geometry the cost models work on.
package array

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// HardwareConfig is the structural description of one macro. It is treated
// as immutable once Normalize has returned.
type HardwareConfig struct {
	// Name labels the configuration in reports.
	Name string `json:"name"`

	// Topology selects crossbar, 1T1R, 2T2R or one of the pseudo-crossbar
	// variants. Default: 1t1r.
	Topology Topology `json:"topology"`

	// IsAnalogCompute selects analog (AIMC) over digital (DIMC) compute.
	// Default: true.
	IsAnalogCompute bool `json:"is_analog_compute"`

	// WordlineCount is the number of rows. Default: 128.
	WordlineCount int `json:"wordline_count"`

	// BitlineCount is the number of logical weight columns before the
	// devices-per-weight expansion. Default: 128.
	BitlineCount int `json:"bitline_count"`

	// BankCount is the number of identical macros evaluated together.
	// Default: 1.
	BankCount int `json:"bank_count"`

	// WeightPrecision is the weight width in bits. Default: 8.
	WeightPrecision int `json:"weight_precision"`

	// ActivationPrecision is the input width in bits. Default: 8.
	ActivationPrecision int `json:"activation_precision"`

	// BitSerialPrecision is the number of input bits applied per cycle.
	// Default: 1.
	BitSerialPrecision int `json:"bit_serial_precision"`

	// ADCResolution is the converter resolution in bits. Default: 5.
	ADCResolution int `json:"adc_resolution"`

	// CellsSizeNVM is the number of bits stored in one device. Default: 1.
	CellsSizeNVM int `json:"cells_size_nvm"`

	// ADCShareFactor is the number of columns time-multiplexing one ADC.
	// Values below 1 or with a fraction are reset to 1. Default: 8.
	ADCShareFactor float64 `json:"adc_share_factor"`

	Device      Device      `json:"device"`
	Technology  Technology  `json:"technology"`
	Calibration Calibration `json:"calibration"`
}

// Device holds the read-side electrical parameters of one resistive device.
// Exactly one of the conductance pair and the current pair must be set.
type Device struct {
	// ReadVoltage is the voltage across a device during a read, in V.
	ReadVoltage float64 `json:"read_voltage"`

	// WLSwingVoltage is the word line swing during a read, in V.
	WLSwingVoltage float64 `json:"wl_swing_voltage"`

	// BLSwingVoltage is the bit line swing during a read, in V.
	BLSwingVoltage float64 `json:"bl_swing_voltage"`

	// ReadPulseWidthNs is the nominal read pulse used by digital compute,
	// where no ADC bounds the read window.
	ReadPulseWidthNs float64 `json:"read_pulse_width_ns"`

	ConductanceLRS *float64 `json:"conductance_lrs,omitempty"`
	ConductanceHRS *float64 `json:"conductance_hrs,omitempty"`
	CurrentLRS     *float64 `json:"current_lrs,omitempty"`
	CurrentHRS     *float64 `json:"current_hrs,omitempty"`
}

// Technology holds process constants. Capacitances are in fF, lengths in
// µm and gate delays in ns.
type Technology struct {
	FeatureSizeUm float64 `json:"feature_size_um"`

	// CellAreaF2 is the cell pitch area in F². It sets the wire pitch and
	// the footprint of a crossbar cell.
	CellAreaF2 float64 `json:"cell_area_f2"`

	// DeviceAreaF2 is the extra footprint of a device next to its access
	// transistor. Zero when the device is stacked above it.
	DeviceAreaF2 float64 `json:"device_area_f2"`

	AccessTransistorAreaF2 float64 `json:"access_transistor_area_f2"`

	WireCapPerUm float64 `json:"wire_cap_per_um"`
	GateCap      float64 `json:"gate_cap"`
	JunctionCap  float64 `json:"junction_cap"`

	MinInverterAreaF2 float64 `json:"min_inverter_area_f2"`
	MinInverterCap    float64 `json:"min_inverter_cap"`

	// Vdd supplies the digital periphery, in V.
	Vdd float64 `json:"vdd"`

	// ND2AreaUm2, ND2Cap and ND2DelayNs describe a unit NAND2 gate. The
	// other logic cells are derived from it.
	ND2AreaUm2 float64 `json:"nd2_area_um2"`
	ND2Cap     float64 `json:"nd2_cap"`
	ND2DelayNs float64 `json:"nd2_delay_ns"`
}

// Calibration holds the empirically fitted constants of the periphery
// models.
type Calibration struct {
	// WLActivity and BLActivity are the switching activity factors of the
	// word and bit lines.
	WLActivity float64 `json:"wl_activity"`
	BLActivity float64 `json:"bl_activity"`

	// BLActivityPseudoMultiBit replaces BLActivity on pseudo-crossbar
	// arrays driven with more than one input bit per cycle.
	BLActivityPseudoMultiBit float64 `json:"bl_activity_pseudo_multi_bit"`

	// ADCAreaK1 and ADCAreaK2 fit log10 of the per-level ADC area in µm².
	ADCAreaK1 float64 `json:"adc_area_k1"`
	ADCAreaK2 float64 `json:"adc_area_k2"`

	// ADCEnergyK1 and ADCEnergyK2 fit the ADC conversion energy in fF·V².
	ADCEnergyK1 float64 `json:"adc_energy_k1"`
	ADCEnergyK2 float64 `json:"adc_energy_k2"`

	// ADCSetupCycles and ADCClockNs drive the staged SAR delay model.
	ADCSetupCycles float64 `json:"adc_setup_cycles"`
	ADCClockNs     float64 `json:"adc_clock_ns"`

	// ADCStandbyFraction is the share of a full conversion energy an idle
	// ADC still burns during a sub-cycle.
	ADCStandbyFraction float64 `json:"adc_standby_fraction"`

	DACAreaPerBitUm2    float64 `json:"dac_area_per_bit_um2"`
	DACEnergyPerBitPf   float64 `json:"dac_energy_per_bit_pf"`
	DACSettlingNsPerBit float64 `json:"dac_settling_ns_per_bit"`
}

func floatPtr(v float64) *float64 {
	return &v
}

// DefaultHardwareConfig returns an analog 1T1R macro of 128 rows by 128
// weight columns in a 28 nm process.
func DefaultHardwareConfig() *HardwareConfig {
	return &HardwareConfig{
		Name:                "default",
		Topology:            OneTOneR,
		IsAnalogCompute:     true,
		WordlineCount:       128,
		BitlineCount:        128,
		BankCount:           1,
		WeightPrecision:     8,
		ActivationPrecision: 8,
		BitSerialPrecision:  1,
		ADCResolution:       5,
		CellsSizeNVM:        1,
		ADCShareFactor:      8,
		Device:              DefaultDevice(),
		Technology:          DefaultTechnology(),
		Calibration:         DefaultCalibration(),
	}
}

// DefaultDevice returns an ideal ReRAM device read at 0.5 V.
func DefaultDevice() Device {
	return Device{
		ReadVoltage:      0.5,
		WLSwingVoltage:   0.9,
		BLSwingVoltage:   0.5,
		ReadPulseWidthNs: 5,
		ConductanceLRS:   floatPtr(5e-6),
		ConductanceHRS:   floatPtr(100e-9),
	}
}

// DefaultTechnology returns 28 nm constants.
func DefaultTechnology() Technology {
	return Technology{
		FeatureSizeUm:          0.028,
		CellAreaF2:             12,
		DeviceAreaF2:           0,
		AccessTransistorAreaF2: 12,
		WireCapPerUm:           0.2,
		GateCap:                0.1,
		JunctionCap:            0.05,
		MinInverterAreaF2:      120,
		MinInverterCap:         0.2,
		Vdd:                    0.9,
		ND2AreaUm2:             0.614,
		ND2Cap:                 0.7,
		ND2DelayNs:             0.0478,
	}
}

// DefaultCalibration returns the fitted periphery constants.
func DefaultCalibration() Calibration {
	return Calibration{
		WLActivity:               0.5,
		BLActivity:               0.5,
		BLActivityPseudoMultiBit: 0.75,
		ADCAreaK1:                -0.0369,
		ADCAreaK2:                1.206,
		ADCEnergyK1:              100,
		ADCEnergyK2:              0.001,
		ADCSetupCycles:           2,
		ADCClockNs:               0.5,
		ADCStandbyFraction:       0.25,
		DACAreaPerBitUm2:         1,
		DACEnergyPerBitPf:        0.05,
		DACSettlingNsPerBit:      0.1,
	}
}

var electricalKeys = []string{
	"conductance_lrs", "conductance_hrs", "current_lrs", "current_hrs",
}

// LoadConfig loads a HardwareConfig from a JSON file. Fields missing from
// the file keep their defaults. A file that names any electrical parameter
// replaces the default electrical pair instead of adding to it.
func LoadConfig(path string) (*HardwareConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hardware config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a JSON hardware description over the defaults.
func ParseConfig(data []byte) (*HardwareConfig, error) {
	var probe struct {
		Device map[string]json.RawMessage `json:"device"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse hardware config: %w", err)
	}

	config := DefaultHardwareConfig()
	for _, key := range electricalKeys {
		if _, ok := probe.Device[key]; ok {
			config.Device.ConductanceLRS = nil
			config.Device.ConductanceHRS = nil
			config.Device.CurrentLRS = nil
			config.Device.CurrentHRS = nil
			break
		}
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse hardware config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a HardwareConfig to a JSON file.
func (c *HardwareConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize hardware config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write hardware config file: %w", err)
	}

	return nil
}

// Validate checks the configuration. The ADC share factor is not checked
// here because Normalize corrects it.
func (c *HardwareConfig) Validate() error {
	if !c.Topology.Valid() {
		return configErrorf("topology", "unknown topology %d", int(c.Topology))
	}
	if !c.IsAnalogCompute && c.Topology.IsCrossbar() {
		return configErrorf("topology",
			"digital compute needs an access device, crossbar has none")
	}

	positive := []struct {
		field string
		value int
	}{
		{"wordline_count", c.WordlineCount},
		{"bitline_count", c.BitlineCount},
		{"bank_count", c.BankCount},
		{"weight_precision", c.WeightPrecision},
		{"activation_precision", c.ActivationPrecision},
		{"bit_serial_precision", c.BitSerialPrecision},
		{"cells_size_nvm", c.CellsSizeNVM},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return configErrorf(p.field, "must be > 0, got %d", p.value)
		}
	}

	if !isPowerOfTwoRatio(c.ActivationPrecision, c.BitSerialPrecision) {
		return configErrorf("bit_serial_precision",
			"activation_precision/bit_serial_precision = %d/%d is not a power of two",
			c.ActivationPrecision, c.BitSerialPrecision)
	}
	if !isPowerOfTwoRatio(c.WeightPrecision, c.CellsSizeNVM) {
		return configErrorf("cells_size_nvm",
			"weight_precision/cells_size_nvm = %d/%d is not a power of two",
			c.WeightPrecision, c.CellsSizeNVM)
	}
	if c.IsAnalogCompute && c.ADCResolution < 1 {
		return configErrorf("adc_resolution",
			"analog compute needs adc_resolution >= 1, got %d", c.ADCResolution)
	}

	if err := c.Device.Validate(); err != nil {
		return err
	}
	if err := c.Technology.Validate(); err != nil {
		return err
	}
	return c.Calibration.Validate()
}

// Validate checks the electrical parameters.
func (d *Device) Validate() error {
	if d.ReadVoltage <= 0 {
		return configErrorf("device.read_voltage", "must be > 0")
	}
	if d.WLSwingVoltage < 0 || d.BLSwingVoltage < 0 {
		return configErrorf("device", "swing voltages must be >= 0")
	}
	if d.ReadPulseWidthNs < 0 {
		return configErrorf("device.read_pulse_width_ns", "must be >= 0")
	}

	hasConductance := d.ConductanceLRS != nil || d.ConductanceHRS != nil
	hasCurrent := d.CurrentLRS != nil || d.CurrentHRS != nil

	switch {
	case hasConductance && hasCurrent:
		return configErrorf("device",
			"both a conductance pair and a current pair are given, expected exactly one")
	case !hasConductance && !hasCurrent:
		return configErrorf("device",
			"missing electrical parameters, expected a conductance pair or a current pair")
	case hasConductance:
		return validatePair("conductance", d.ConductanceLRS, d.ConductanceHRS)
	default:
		return validatePair("current", d.CurrentLRS, d.CurrentHRS)
	}
}

func validatePair(kind string, lrs, hrs *float64) error {
	if lrs == nil || hrs == nil {
		return configErrorf("device."+kind,
			"incomplete %s pair, both lrs and hrs are required", kind)
	}
	if *lrs < 0 || *hrs < 0 {
		return configErrorf("device."+kind, "%s values must be >= 0", kind)
	}
	return nil
}

// AverageReadCurrent is the mean of the LRS and HRS read currents, in A.
func (d *Device) AverageReadCurrent() float64 {
	if d.CurrentLRS != nil && d.CurrentHRS != nil {
		return (*d.CurrentLRS + *d.CurrentHRS) / 2
	}
	if d.ConductanceLRS != nil && d.ConductanceHRS != nil {
		return (*d.ConductanceLRS + *d.ConductanceHRS) / 2 * d.ReadVoltage
	}
	return 0
}

// Validate checks the process constants.
func (t *Technology) Validate() error {
	if t.FeatureSizeUm <= 0 {
		return configErrorf("technology.feature_size_um", "must be > 0")
	}
	if t.CellAreaF2 <= 0 {
		return configErrorf("technology.cell_area_f2", "must be > 0")
	}
	if t.MinInverterCap <= 0 {
		return configErrorf("technology.min_inverter_cap", "must be > 0")
	}

	nonNegative := map[string]float64{
		"technology.device_area_f2":            t.DeviceAreaF2,
		"technology.access_transistor_area_f2": t.AccessTransistorAreaF2,
		"technology.wire_cap_per_um":           t.WireCapPerUm,
		"technology.gate_cap":                  t.GateCap,
		"technology.junction_cap":              t.JunctionCap,
		"technology.min_inverter_area_f2":      t.MinInverterAreaF2,
		"technology.vdd":                       t.Vdd,
		"technology.nd2_area_um2":              t.ND2AreaUm2,
		"technology.nd2_cap":                   t.ND2Cap,
		"technology.nd2_delay_ns":              t.ND2DelayNs,
	}
	for field, v := range nonNegative {
		if v < 0 || math.IsNaN(v) {
			return configErrorf(field, "must be >= 0, got %g", v)
		}
	}
	return nil
}

// Validate checks the fitted constants.
func (c *Calibration) Validate() error {
	if c.ADCStandbyFraction < 0 || c.ADCStandbyFraction > 1 {
		return configErrorf("calibration.adc_standby_fraction",
			"must be within [0, 1], got %g", c.ADCStandbyFraction)
	}
	if c.ADCEnergyK1 < 0 || math.IsNaN(c.ADCEnergyK1) {
		return configErrorf("calibration.adc_energy_k1", "must be >= 0, got %g", c.ADCEnergyK1)
	}
	if c.ADCEnergyK2 < 0 || math.IsNaN(c.ADCEnergyK2) {
		return configErrorf("calibration.adc_energy_k2", "must be >= 0, got %g", c.ADCEnergyK2)
	}
	if c.WLActivity < 0 || c.BLActivity < 0 || c.BLActivityPseudoMultiBit < 0 {
		return configErrorf("calibration", "activity factors must be >= 0")
	}
	if c.ADCSetupCycles < 0 || c.ADCClockNs < 0 || c.DACSettlingNsPerBit < 0 {
		return configErrorf("calibration", "timing constants must be >= 0")
	}
	if c.DACAreaPerBitUm2 < 0 || c.DACEnergyPerBitPf < 0 {
		return configErrorf("calibration", "DAC constants must be >= 0")
	}
	return nil
}

// Clone returns a deep copy of the HardwareConfig.
func (c *HardwareConfig) Clone() *HardwareConfig {
	clone := *c
	clone.Device = c.Device.clone()
	return &clone
}

func (d Device) clone() Device {
	copyPtr := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		return floatPtr(*p)
	}

	d.ConductanceLRS = copyPtr(d.ConductanceLRS)
	d.ConductanceHRS = copyPtr(d.ConductanceHRS)
	d.CurrentLRS = copyPtr(d.CurrentLRS)
	d.CurrentHRS = copyPtr(d.CurrentHRS)
	return d
}

// Normalize returns a validated copy of the configuration with correctable
// parameters fixed up. Every correction is reported as a warning.
func (c *HardwareConfig) Normalize() (*HardwareConfig, []ParameterWarning, error) {
	normalized := c.Clone()
	var warnings []ParameterWarning

	share := normalized.ADCShareFactor
	if share < 1 || share != math.Trunc(share) || math.IsInf(share, 0) {
		warnings = append(warnings, ParameterWarning{
			Field:  "adc_share_factor",
			Given:  share,
			Used:   1,
			Reason: "must be a positive integer",
		})
		normalized.ADCShareFactor = 1
	}

	if err := normalized.Validate(); err != nil {
		return nil, nil, err
	}

	return normalized, warnings, nil
}

// ShareFactor returns the ADC share factor as an integer. It is only
// meaningful on a normalized configuration.
func (c *HardwareConfig) ShareFactor() int {
	return int(c.ADCShareFactor)
}

func isPowerOfTwoRatio(num, den int) bool {
	if den <= 0 || num < den || num%den != 0 {
		return false
	}
	r := num / den
	return r&(r-1) == 0
}
